// Package catalog holds the immutable content a run is played against:
// event and ending catalogs, character profiles, and calendar settings.
// Catalogs are loaded once, normalized at the boundary, and shared by
// reference; relations between entries are id-based, never pointers.
package catalog

import (
	"errors"

	"github.com/jwebster45206/life-engine/pkg/attrs"
)

// ErrEventNotFound marks lookups for event ids absent from the catalog.
var ErrEventNotFound = errors.New("event not found")

// Settings defines the run calendar.
type Settings struct {
	TotalDays     int      `json:"total_days"`
	PeriodsPerDay int      `json:"periods_per_day"`
	PeriodNames   []string `json:"period_names,omitempty"`
}

// DefaultSettings is a 30-day run with three periods per day.
func DefaultSettings() Settings {
	return Settings{
		TotalDays:     30,
		PeriodsPerDay: 3,
		PeriodNames:   []string{"morning", "noon", "evening"},
	}
}

// Character is a playable profile: an id plus its starting attributes.
type Character struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Initial     map[string]float64 `json:"initial,omitempty"` // starting values over the engine defaults
}

// Attributes builds the character's starting attribute set.
func (c *Character) Attributes() *attrs.Set {
	set := attrs.NewSet(nil)
	set.SetValues(c.Initial)
	return set
}

// Catalog is the full content bundle for a run. Event order is
// significant: weighted selection walks events in catalog order.
type Catalog struct {
	Settings   Settings    `json:"settings"`
	Events     []Event     `json:"events"`
	Endings    []Ending    `json:"endings"`
	Characters []Character `json:"characters"`

	eventsByID     map[string]*Event
	charactersByID map[string]*Character
}

// EventByID resolves an event by id, or nil if absent.
func (c *Catalog) EventByID(id string) *Event {
	if c.eventsByID == nil {
		c.index()
	}
	return c.eventsByID[id]
}

// CharacterByID resolves a character by id, or nil if absent.
func (c *Catalog) CharacterByID(id string) *Character {
	if c.charactersByID == nil {
		c.index()
	}
	return c.charactersByID[id]
}

func (c *Catalog) index() {
	c.eventsByID = make(map[string]*Event, len(c.Events))
	for i := range c.Events {
		c.eventsByID[c.Events[i].ID] = &c.Events[i]
	}
	c.charactersByID = make(map[string]*Character, len(c.Characters))
	for i := range c.Characters {
		c.charactersByID[c.Characters[i].ID] = &c.Characters[i]
	}
}
