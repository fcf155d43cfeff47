package conditions

import (
	"math/rand/v2"
	"slices"

	"github.com/jwebster45206/life-engine/pkg/attrs"
)

// RandSource produces uniform draws in [0, 1). It is the engine's only
// source of nondeterminism; tests inject fixed sequences for
// reproducible runs.
type RandSource func() float64

// Evaluator evaluates conditions against a session view. It is pure
// except for the random and probability kinds, which consume exactly
// one draw each from the injected source.
type Evaluator struct {
	rand RandSource
}

// NewEvaluator creates an Evaluator. A nil source falls back to
// math/rand/v2.
func NewEvaluator(src RandSource) *Evaluator {
	if src == nil {
		src = rand.Float64
	}
	return &Evaluator{rand: src}
}

// Eval evaluates a single condition. Unknown kinds evaluate false.
func (e *Evaluator) Eval(c Condition, v View) bool {
	switch c.Kind {
	case KindAttribute:
		return compare(v.Attribute(c.Attribute), c.Op, c.Value)

	case KindFlag:
		actual, ok := v.Flag(c.Flag)
		if !ok {
			return c.FlagValue == ""
		}
		return actual == c.FlagValue

	case KindRandom:
		return e.rand() < c.Probability

	case KindProbability:
		// Base rate nudged by luck: a luck of 50 is neutral.
		p := c.Probability + (v.Attribute(attrs.Luck)-50)/500
		return e.rand() < p

	case KindTime:
		return evalTime(c, v)

	case KindEventHistory:
		expected := true
		if c.Triggered != nil {
			expected = *c.Triggered
		}
		return v.EventTriggered(c.EventID) == expected

	case KindCharacter:
		return slices.Contains(c.Characters, v.CharacterID())

	case KindEventTriggered:
		if !v.EventTriggered(c.EventID) {
			return false
		}
		if c.ChoiceIndex == nil {
			return true
		}
		idx, ok := v.ChoiceIndex(c.EventID)
		return ok && idx == *c.ChoiceIndex

	case KindCombination:
		return e.EvalAll(c.All, v)

	default:
		return false
	}
}

// EvalAll evaluates an ordered list of conditions with AND semantics.
// An empty list is vacuously true.
func (e *Evaluator) EvalAll(cs []Condition, v View) bool {
	for _, c := range cs {
		if !e.Eval(c, v) {
			return false
		}
	}
	return true
}

// EvalAnyGroup returns true if at least one group is fully satisfied.
// No groups means no unlock.
func (e *Evaluator) EvalAnyGroup(groups []Group, v View) bool {
	for _, g := range groups {
		if e.EvalAll(g.All, v) {
			return true
		}
	}
	return false
}

func evalTime(c Condition, v View) bool {
	day := v.Day()
	if len(c.Days) > 0 && !slices.Contains(c.Days, day) {
		return false
	}
	if c.DayFrom != nil && day < *c.DayFrom {
		return false
	}
	if c.DayTo != nil && day > *c.DayTo {
		return false
	}
	if len(c.Periods) > 0 && !slices.Contains(c.Periods, v.Period()) {
		return false
	}
	return true
}

func compare(actual float64, op CompareOp, target float64) bool {
	switch op {
	case OpGT:
		return actual > target
	case OpLT:
		return actual < target
	case OpLTE:
		return actual <= target
	case OpEQ:
		return actual == target
	case OpNEQ:
		return actual != target
	default:
		// Omitted or unknown operators default to >=.
		return actual >= target
	}
}
