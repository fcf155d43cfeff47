package attrs

import "math"

// Canonical attribute names referenced by engine rules (scoring,
// luck-adjusted probabilities, money accounting). Content may define
// additional attributes freely.
const (
	Deposit = "deposit" // monetary attribute
	Face    = "face"
	Mood    = "mood"
	Health  = "health"
	Weight  = "weight"
	Luck    = "luck"
)

// Op is an attribute mutation operation.
type Op string

const (
	OpAdd      Op = "add"
	OpSet      Op = "set"
	OpMultiply Op = "multiply"
)

// Definition is the fixed bound and starting value for one attribute.
type Definition struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
}

// DefaultDefinitions returns the engine's built-in attribute bounds.
// Character profiles may override defaults per attribute.
func DefaultDefinitions() map[string]Definition {
	return map[string]Definition{
		Deposit: {Min: -1000000, Max: 10000000, Default: 10000},
		Face:    {Min: 0, Max: 100, Default: 50},
		Mood:    {Min: 0, Max: 100, Default: 50},
		Health:  {Min: 0, Max: 100, Default: 50},
		Weight:  {Min: 30, Max: 200, Default: 60},
		Luck:    {Min: 0, Max: 100, Default: 50},
	}
}

// Change records a single attribute mutation.
type Change struct {
	Attribute string  `json:"attribute"`
	Old       float64 `json:"old"`
	New       float64 `json:"new"`
	Delta     float64 `json:"delta"`
}

// Set is a bounded attribute store. Every stored value is clamped to
// its definition's [Min, Max] after any mutation.
type Set struct {
	defs   map[string]Definition
	values map[string]float64
}

// NewSet creates a Set with every defined attribute at its default.
func NewSet(defs map[string]Definition) *Set {
	if defs == nil {
		defs = DefaultDefinitions()
	}
	s := &Set{
		defs:   defs,
		values: make(map[string]float64, len(defs)),
	}
	for name, def := range defs {
		s.values[name] = clamp(def.Default, def)
	}
	return s
}

// Get returns the stored value, or 0 if the attribute is absent.
func (s *Set) Get(name string) float64 {
	return s.values[name]
}

// Set stores a value, clamping it to the attribute's bound.
func (s *Set) Set(name string, value float64) {
	if def, ok := s.defs[name]; ok {
		value = clamp(value, def)
	}
	s.values[name] = value
}

// Modify applies op to the stored value and clamps the result.
// An unknown op is treated as add.
func (s *Set) Modify(name string, op Op, value float64) Change {
	old := s.values[name]
	var raw float64
	switch op {
	case OpSet:
		raw = value
	case OpMultiply:
		raw = old * value
	default:
		raw = old + value
	}
	s.Set(name, raw)
	next := s.values[name]
	return Change{Attribute: name, Old: old, New: next, Delta: next - old}
}

// Percentage maps the stored value onto [0, 100] for display. Normal
// attributes interpolate linearly between their bounds. The monetary
// attribute uses a log scale on |value| so that wide, sign-crossing
// ranges stay readable.
func (s *Set) Percentage(name string) float64 {
	def, ok := s.defs[name]
	if !ok || def.Max <= def.Min {
		return 0
	}
	v := s.values[name]

	if name == Deposit {
		span := math.Max(math.Abs(def.Min), math.Abs(def.Max))
		pct := math.Log10(math.Abs(v)+1) / math.Log10(span+1) * 100
		return clampPct(pct)
	}

	pct := (v - def.Min) / (def.Max - def.Min) * 100
	return clampPct(pct)
}

// Values returns a copy of all stored values.
func (s *Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// SetValues replaces stored values, clamping each. Attributes not
// present in values keep their current value.
func (s *Set) SetValues(values map[string]float64) {
	for k, v := range values {
		s.Set(k, v)
	}
}

// Definitions returns the bound definitions backing this set.
func (s *Set) Definitions() map[string]Definition {
	return s.defs
}

func clamp(v float64, def Definition) float64 {
	if v < def.Min {
		return def.Min
	}
	if v > def.Max {
		return def.Max
	}
	return v
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
