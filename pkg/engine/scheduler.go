package engine

import (
	"slices"

	"github.com/jwebster45206/life-engine/pkg/catalog"
	"github.com/jwebster45206/life-engine/pkg/session"
)

// DefaultLockedReason is shown for locked options without an authored
// reason.
const DefaultLockedReason = "Requirements not met"

// OptionView is one selectable (or visibly locked) option. Index is
// the option's position in the event's full option list and is what
// Choose expects back.
type OptionView struct {
	Index        int    `json:"index"`
	ID           string `json:"id"`
	Text         string `json:"text"`
	Available    bool   `json:"available"`
	LockedReason string `json:"locked_reason,omitempty"`
}

// ScheduledEvent is the scheduler's product for one turn.
type ScheduledEvent struct {
	Event       *catalog.Event `json:"event"`
	Options     []OptionView   `json:"options"`
	FromPending bool           `json:"from_pending,omitempty"`
}

// NextEvent selects the event for the current clock slot. Pending
// entries due now win over the catalog; otherwise eligible catalog
// events are filtered and weighted-randomly picked; an empty field
// falls back to the built-in quiet moment.
func (e *Engine) NextEvent(s *session.Session) *ScheduledEvent {
	// Drain the pending queue first. Entries are delivered at most
	// once even when their event id no longer resolves.
	for {
		p := s.TakeDuePending()
		if p == nil {
			break
		}
		ev := s.Catalog.EventByID(p.EventID)
		if ev == nil {
			e.logger.Warn("Pending event no longer resolvable", "event_id", p.EventID)
			continue
		}
		return e.present(s, ev, true)
	}

	candidates := e.eligible(s)
	if len(candidates) == 0 {
		return e.present(s, catalog.QuietMoment(), false)
	}

	return e.present(s, e.weightedPick(candidates), false)
}

// eligible filters the catalog for the current session state,
// preserving catalog order.
func (e *Engine) eligible(s *session.Session) []*catalog.Event {
	var out []*catalog.Event
events:
	for i := range s.Catalog.Events {
		ev := &s.Catalog.Events[i]
		if ev.OnceOnly && s.EventTriggered(ev.ID) {
			continue
		}
		if !e.eval.EvalAll(ev.Triggers, s) {
			continue
		}
		for _, id := range ev.Excludes {
			if s.EventTriggered(id) {
				continue events
			}
		}
		for _, id := range ev.Requires {
			if !s.EventTriggered(id) {
				continue events
			}
		}
		if len(ev.Characters) > 0 && !slices.Contains(ev.Characters, s.CharacterID()) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// weightedPick draws uniformly in [0, totalWeight) and walks the
// candidates in catalog order, so each event's selection probability
// is proportional to its weight. The event whose weight drops the
// remainder to zero or below wins.
func (e *Engine) weightedPick(candidates []*catalog.Event) *catalog.Event {
	total := 0
	for _, ev := range candidates {
		total += ev.EffectiveWeight()
	}
	remaining := e.rand() * float64(total)
	for _, ev := range candidates {
		remaining -= float64(ev.EffectiveWeight())
		if remaining <= 0 {
			return ev
		}
	}
	// Floating point edge at the top of the range.
	return candidates[len(candidates)-1]
}

// present applies option visibility and availability to the event.
// Options failing visibility are dropped; options failing availability
// stay visible but locked, with a caller-facing reason.
func (e *Engine) present(s *session.Session, ev *catalog.Event, fromPending bool) *ScheduledEvent {
	views := make([]OptionView, 0, len(ev.Options))
	for i := range ev.Options {
		opt := &ev.Options[i]
		if len(opt.Visibility) > 0 && !e.eval.EvalAll(opt.Visibility, s) {
			continue
		}
		view := OptionView{
			Index:     i,
			ID:        opt.ID,
			Text:      opt.Text,
			Available: true,
		}
		if len(opt.Availability) > 0 && !e.eval.EvalAll(opt.Availability, s) {
			view.Available = false
			view.LockedReason = opt.LockedReason
			if view.LockedReason == "" {
				view.LockedReason = DefaultLockedReason
			}
		}
		views = append(views, view)
	}
	return &ScheduledEvent{Event: ev, Options: views, FromPending: fromPending}
}
