package session

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/life-engine/pkg/attrs"
	"github.com/jwebster45206/life-engine/pkg/catalog"
)

// SnapshotMeta identifies a saved run.
type SnapshotMeta struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot is the plain structured value handed to a persistence
// store. It carries no catalog content, only per-run state.
type Snapshot struct {
	Meta                SnapshotMeta       `json:"meta"`
	Progress            Clock              `json:"progress"`
	Character           string             `json:"character,omitempty"`
	Catalog             string             `json:"catalog,omitempty"`
	Attributes          map[string]float64 `json:"attributes,omitempty"`
	InitialAttributes   map[string]float64 `json:"initial_attributes,omitempty"`
	Inventory           []string           `json:"inventory,omitempty"`
	EventHistory        []HistoryRecord    `json:"event_history,omitempty"`
	Flags               map[string]string  `json:"flags,omitempty"`
	PendingEvents       []PendingEvent     `json:"pending_events,omitempty"`
	TriggeredOnceEvents []string           `json:"triggered_once_events,omitempty"`
	Statistics          Statistics         `json:"statistics"`
}

// Snapshot captures the session as a snapshot value.
func (s *Session) Snapshot() *Snapshot {
	once := make([]string, 0, len(s.TriggeredOnce))
	for id := range s.TriggeredOnce {
		once = append(once, id)
	}
	sort.Strings(once)

	return &Snapshot{
		Meta: SnapshotMeta{
			ID:        s.ID,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		},
		Progress:            s.Clock,
		Character:           s.Character,
		Catalog:             s.CatalogName,
		Attributes:          s.Attributes.Values(),
		InitialAttributes:   copyValues(s.Initial),
		Inventory:           append([]string(nil), s.Inventory...),
		EventHistory:        append([]HistoryRecord(nil), s.History...),
		Flags:               copyFlags(s.Flags),
		PendingEvents:       append([]PendingEvent(nil), s.Pending...),
		TriggeredOnceEvents: once,
		Statistics:          s.Stats,
	}
}

// Restore rebuilds a session from a snapshot. Missing optional
// sections default instead of failing; a snapshot is never fatal.
func Restore(cat *catalog.Catalog, snap *Snapshot) *Session {
	s := NewSession(cat, snap.Character)
	s.CatalogName = snap.Catalog

	if snap.Meta.ID != uuid.Nil {
		s.ID = snap.Meta.ID
	}
	if !snap.Meta.CreatedAt.IsZero() {
		s.CreatedAt = snap.Meta.CreatedAt
	}
	if !snap.Meta.UpdatedAt.IsZero() {
		s.UpdatedAt = snap.Meta.UpdatedAt
	}

	if snap.Progress.Day > 0 {
		s.Clock = snap.Progress
		if s.Clock.TotalDays <= 0 {
			s.Clock.TotalDays = cat.Settings.TotalDays
		}
		if s.Clock.PeriodsPerDay <= 0 {
			s.Clock.PeriodsPerDay = cat.Settings.PeriodsPerDay
		}
	}

	if len(snap.Attributes) > 0 {
		s.Attributes = attrs.NewSet(nil)
		s.Attributes.SetValues(snap.Attributes)
	}
	if len(snap.InitialAttributes) > 0 {
		s.Initial = copyValues(snap.InitialAttributes)
	}
	if snap.Inventory != nil {
		s.Inventory = append([]string(nil), snap.Inventory...)
	}
	if snap.EventHistory != nil {
		s.History = append([]HistoryRecord(nil), snap.EventHistory...)
	}
	if snap.Flags != nil {
		s.Flags = copyFlags(snap.Flags)
	}
	if snap.PendingEvents != nil {
		s.Pending = append([]PendingEvent(nil), snap.PendingEvents...)
		for _, p := range s.Pending {
			if p.Seq >= s.pendingSeq {
				s.pendingSeq = p.Seq + 1
			}
		}
	}
	for _, id := range snap.TriggeredOnceEvents {
		s.TriggeredOnce[id] = true
	}
	s.Stats = snap.Statistics

	return s
}

func copyValues(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyFlags(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
