package catalog

import (
	"encoding/json"
	"math"

	"github.com/jwebster45206/life-engine/pkg/attrs"
	"github.com/jwebster45206/life-engine/pkg/conditions"
)

// DefaultWeight is used when an event declares no weight.
const DefaultWeight = 100

// Event is one narrative event in the catalog.
type Event struct {
	ID         string                 `json:"id"`
	Title      string                 `json:"title,omitempty"`
	Text       string                 `json:"text"`                 // narrative body shown to the player
	Options    []Option               `json:"options"`              // ordered choice list
	Triggers   []conditions.Condition `json:"triggers,omitempty"`   // all must pass for the event to be eligible
	Weight     int                    `json:"weight,omitempty"`     // selection weight, default 100
	OnceOnly   bool                   `json:"once_only,omitempty"`  // at most one trigger per session
	Excludes   []string               `json:"excludes,omitempty"`   // mutually-exclusive event ids
	Requires   []string               `json:"requires,omitempty"`   // prerequisite event ids
	Characters []string               `json:"characters,omitempty"` // character-exclusivity allow-list, empty = all
}

// EffectiveWeight returns the declared weight, or DefaultWeight when
// the weight is missing or non-positive.
func (e *Event) EffectiveWeight() int {
	if e.Weight <= 0 {
		return DefaultWeight
	}
	return e.Weight
}

// Option is a single choice on an event.
type Option struct {
	ID           string                 `json:"id"`
	Text         string                 `json:"text"`
	Effects      []Effect               `json:"effects,omitempty"`
	Visibility   []conditions.Condition `json:"visibility,omitempty"`    // failing hides the option entirely
	Availability []conditions.Condition `json:"availability,omitempty"`  // failing keeps it visible but locked
	LockedReason string                 `json:"locked_reason,omitempty"` // shown when availability fails
	FollowUps    []FollowUp             `json:"follow_ups,omitempty"`
	Outcome      *SpecialOutcome        `json:"outcome,omitempty"`
	Feedback     string                 `json:"feedback,omitempty"` // static feedback text after choosing
}

// Effect mutates one attribute when its gating conditions hold.
type Effect struct {
	Attribute string                 `json:"attribute"`
	Op        attrs.Op               `json:"op,omitempty"` // add, set, multiply; default add
	Value     EffectValue            `json:"value"`
	If        []conditions.Condition `json:"if,omitempty"` // skip the effect when these fail
}

// EffectValue is either a literal number or an inclusive random
// integer range. Content may write it as a plain number or as a
// {"min": x, "max": y} object.
type EffectValue struct {
	Literal float64 `json:"-"`
	Min     *int    `json:"min,omitempty"`
	Max     *int    `json:"max,omitempty"`
}

// IsRange reports whether the value is a random range.
func (ev *EffectValue) IsRange() bool {
	return ev.Min != nil && ev.Max != nil
}

// Resolve produces the concrete value, drawing once from src for
// ranges. The draw is a uniform integer in [min, max].
func (ev *EffectValue) Resolve(src conditions.RandSource) float64 {
	if !ev.IsRange() {
		return ev.Literal
	}
	lo, hi := *ev.Min, *ev.Max
	if hi < lo {
		lo, hi = hi, lo
	}
	return float64(lo + int(math.Floor(src()*float64(hi-lo+1))))
}

// UnmarshalJSON accepts both a plain number and a {min, max} object.
func (ev *EffectValue) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		ev.Literal = n
		ev.Min = nil
		ev.Max = nil
		return nil
	}

	type alias EffectValue
	aux := (*alias)(ev)
	return json.Unmarshal(data, aux)
}

// MarshalJSON writes the same shape the value was authored in.
func (ev EffectValue) MarshalJSON() ([]byte, error) {
	if ev.IsRange() {
		type alias EffectValue
		return json.Marshal(alias(ev))
	}
	return json.Marshal(ev.Literal)
}

// Delay is the scheduling mode for a follow-up event.
type Delay string

const (
	// DelayImmediate intentionally schedules nothing. The original
	// content format defines it, but the rules give it no target slot,
	// so it is preserved as a no-op rather than invented chaining.
	DelayImmediate  Delay = "immediate"
	DelayNextPeriod Delay = "next_period"
	DelayNextDay    Delay = "next_day"
)

// FollowUp schedules another event after an option is chosen.
type FollowUp struct {
	EventID     string   `json:"event_id"`
	Delay       Delay    `json:"delay"`
	Priority    int      `json:"priority,omitempty"`
	Probability *float64 `json:"probability,omitempty"` // skip queuing when a draw exceeds it
}

// OutcomeKind discriminates special outcomes attached to options.
type OutcomeKind string

const (
	OutcomeEnding   OutcomeKind = "ending"
	OutcomeGameOver OutcomeKind = "game_over"
)

// SpecialOutcome instructs the caller to bypass the normal clock
// advance and resolve an ending immediately.
type SpecialOutcome struct {
	Kind     OutcomeKind `json:"kind"`
	EndingID string      `json:"ending_id,omitempty"` // optional forced ending
}
