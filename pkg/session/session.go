// Package session owns all mutable per-run state: the progress clock,
// the attribute set, history, flags, the pending-event queue and run
// statistics. Catalogs are held by reference and never copied.
package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/life-engine/pkg/attrs"
	"github.com/jwebster45206/life-engine/pkg/catalog"
	"github.com/jwebster45206/life-engine/pkg/conditions"
)

// HistoryRecord is an immutable log entry for one resolved choice.
type HistoryRecord struct {
	EventID     string    `json:"event_id"`
	Day         int       `json:"day"`
	Period      int       `json:"period"`
	OptionID    string    `json:"option_id"`
	OptionIndex int       `json:"option_index"`
	Timestamp   time.Time `json:"timestamp"`
}

// PendingEvent is a deferred event waiting for its target slot. A zero
// Day means no target: the entry is due immediately.
type PendingEvent struct {
	EventID  string `json:"event_id"`
	Day      int    `json:"day,omitempty"`
	Period   int    `json:"period"` // meaningful only when Day > 0
	Priority int    `json:"priority,omitempty"`
	Seq      int    `json:"seq"` // insertion order, used for tie-breaks
}

// Due reports whether the entry matches the given clock slot.
func (p PendingEvent) Due(day, period int) bool {
	if p.Day == 0 {
		return true
	}
	return p.Day == day && p.Period == period
}

// Statistics accumulates per-run counters.
type Statistics struct {
	TotalEvents  int     `json:"total_events"`
	TotalChoices int     `json:"total_choices"`
	MoneySpent   float64 `json:"money_spent"`
	MoneyEarned  float64 `json:"money_earned"`
}

// Session is the aggregate state of one run. It has exactly one writer
// at a time by construction: callers must serialize choice submissions.
type Session struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Clock       Clock              `json:"clock"`
	Character   string             `json:"character"`
	CatalogName string             `json:"catalog,omitempty"` // content bundle this run plays against
	Attributes  *attrs.Set         `json:"-"`
	Initial     map[string]float64 `json:"initial"` // starting values, kept for the run summary
	Flags       map[string]string  `json:"flags"`
	Inventory   []string           `json:"inventory"`

	History       []HistoryRecord `json:"history"`
	Pending       []PendingEvent  `json:"pending"`
	TriggeredOnce map[string]bool `json:"triggered_once"`
	Stats         Statistics      `json:"stats"`

	// Catalog is shared, immutable content; the session does not own it.
	Catalog *catalog.Catalog `json:"-"`

	pendingSeq int
}

// NewSession starts a run for the given character id. An unknown
// character id starts with the engine's default attributes.
func NewSession(cat *catalog.Catalog, characterID string) *Session {
	set := attrs.NewSet(nil)
	if ch := cat.CharacterByID(characterID); ch != nil {
		set = ch.Attributes()
	}
	now := time.Now()
	return &Session{
		ID:            uuid.New(),
		CreatedAt:     now,
		UpdatedAt:     now,
		Clock:         NewClock(cat.Settings),
		Character:     characterID,
		Attributes:    set,
		Initial:       set.Values(),
		Flags:         make(map[string]string),
		Inventory:     make([]string, 0),
		History:       make([]HistoryRecord, 0),
		Pending:       make([]PendingEvent, 0),
		TriggeredOnce: make(map[string]bool),
		Catalog:       cat,
	}
}

// conditions.View implementation

var _ conditions.View = (*Session)(nil)

func (s *Session) Attribute(name string) float64 { return s.Attributes.Get(name) }

func (s *Session) Flag(name string) (string, bool) {
	v, ok := s.Flags[name]
	return v, ok
}

func (s *Session) Day() int    { return s.Clock.Day }
func (s *Session) Period() int { return s.Clock.Period }

// EventTriggered reports whether the event appears in history or in
// the once-only set.
func (s *Session) EventTriggered(eventID string) bool {
	if s.TriggeredOnce[eventID] {
		return true
	}
	for _, rec := range s.History {
		if rec.EventID == eventID {
			return true
		}
	}
	return false
}

// ChoiceIndex returns the most recent recorded choice for an event.
func (s *Session) ChoiceIndex(eventID string) (int, bool) {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].EventID == eventID {
			return s.History[i].OptionIndex, true
		}
	}
	return 0, false
}

func (s *Session) CharacterID() string { return s.Character }

// Mutations

// SetFlag stores a scalar flag value.
func (s *Session) SetFlag(name, value string) {
	if s.Flags == nil {
		s.Flags = make(map[string]string)
	}
	s.Flags[name] = value
}

// ModifyAttribute applies one mutation and keeps the money statistics
// current: monetary losses count as spent, gains as earned.
func (s *Session) ModifyAttribute(name string, op attrs.Op, value float64) attrs.Change {
	ch := s.Attributes.Modify(name, op, value)
	if name == attrs.Deposit {
		if ch.Delta < 0 {
			s.Stats.MoneySpent += -ch.Delta
		} else if ch.Delta > 0 {
			s.Stats.MoneyEarned += ch.Delta
		}
	}
	return ch
}

// ApplyEffects applies each effect in order, skipping those whose
// gating conditions fail. Random-range values draw once from src.
// One Change is returned per applied effect, in input order.
func (s *Session) ApplyEffects(effects []catalog.Effect, eval *conditions.Evaluator, src conditions.RandSource) []attrs.Change {
	results := make([]attrs.Change, 0, len(effects))
	for _, eff := range effects {
		if len(eff.If) > 0 && !eval.EvalAll(eff.If, s) {
			continue
		}
		value := eff.Value.Resolve(src)
		results = append(results, s.ModifyAttribute(eff.Attribute, eff.Op, value))
	}
	return results
}

// RecordChoice appends a history record and bumps the counters.
func (s *Session) RecordChoice(eventID, optionID string, optionIndex int) {
	s.History = append(s.History, HistoryRecord{
		EventID:     eventID,
		Day:         s.Clock.Day,
		Period:      s.Clock.Period,
		OptionID:    optionID,
		OptionIndex: optionIndex,
		Timestamp:   time.Now().UTC(),
	})
	s.Stats.TotalEvents++
	s.Stats.TotalChoices++
	s.UpdatedAt = time.Now()
}

// MarkTriggered records a once-only event. Marking twice is a no-op.
func (s *Session) MarkTriggered(eventID string) {
	if s.TriggeredOnce == nil {
		s.TriggeredOnce = make(map[string]bool)
	}
	s.TriggeredOnce[eventID] = true
}

// SchedulePending queues an event for a future slot.
func (s *Session) SchedulePending(eventID string, day, period, priority int) {
	s.Pending = append(s.Pending, PendingEvent{
		EventID:  eventID,
		Day:      day,
		Period:   period,
		Priority: priority,
		Seq:      s.pendingSeq,
	})
	s.pendingSeq++
}

// TakeDuePending removes and returns the due pending entry with the
// highest priority, breaking ties by insertion order. It returns nil
// when nothing is due. Each entry is delivered at most once.
func (s *Session) TakeDuePending() *PendingEvent {
	best := -1
	for i, p := range s.Pending {
		if !p.Due(s.Clock.Day, s.Clock.Period) {
			continue
		}
		if best == -1 ||
			p.Priority > s.Pending[best].Priority ||
			(p.Priority == s.Pending[best].Priority && p.Seq < s.Pending[best].Seq) {
			best = i
		}
	}
	if best == -1 {
		return nil
	}
	taken := s.Pending[best]
	s.Pending = append(s.Pending[:best], s.Pending[best+1:]...)
	return &taken
}

// AdvanceTime moves the clock one period forward. It returns true only
// on the call that crosses a day boundary.
func (s *Session) AdvanceTime() bool {
	crossed := s.Clock.Advance()
	s.UpdatedAt = time.Now()
	return crossed
}

// Finished reports whether the run calendar is exhausted.
func (s *Session) Finished() bool {
	return s.Clock.Finished()
}
