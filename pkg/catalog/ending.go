package catalog

import (
	"github.com/jwebster45206/life-engine/pkg/conditions"
)

// Ending is one possible run conclusion. Endings unlock when at least
// one of their condition groups is fully satisfied (OR across groups,
// AND within a group).
type Ending struct {
	ID         string             `json:"id"`
	Title      string             `json:"title,omitempty"`
	Text       string             `json:"text"`
	Priority   int                `json:"priority,omitempty"`   // higher resolves first
	Characters []string           `json:"characters,omitempty"` // character scope, empty = all
	Unlocks    []conditions.Group `json:"unlocks,omitempty"`
	BaseScore  float64            `json:"base_score,omitempty"`
	Modifiers  []ScoreModifier    `json:"modifiers,omitempty"`
	Default    bool               `json:"default,omitempty"` // always-available fallback
}

// ScoreModifier adds to the ending score when its conditions hold.
type ScoreModifier struct {
	Value float64                `json:"value"`
	If    []conditions.Condition `json:"if,omitempty"`
}

// AppliesTo reports whether the ending is in scope for a character.
func (e *Ending) AppliesTo(characterID string) bool {
	if len(e.Characters) == 0 {
		return true
	}
	for _, id := range e.Characters {
		if id == characterID {
			return true
		}
	}
	return false
}
