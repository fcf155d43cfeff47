package engine

import (
	"errors"
	"fmt"

	"github.com/jwebster45206/life-engine/pkg/attrs"
	"github.com/jwebster45206/life-engine/pkg/catalog"
	"github.com/jwebster45206/life-engine/pkg/session"
)

// ErrChoiceNotFound is returned for an out-of-range option index. The
// session is untouched in that case.
var ErrChoiceNotFound = errors.New("choice not found")

// ErrChoiceUnavailable is returned when the chosen option is hidden or
// locked for the current session state. The session is untouched in
// that case.
var ErrChoiceUnavailable = errors.New("choice unavailable")

// ChoiceResult is the outcome of applying one chosen option.
type ChoiceResult struct {
	Changes  []attrs.Change          `json:"changes"`
	Feedback string                  `json:"feedback,omitempty"`
	Outcome  *catalog.SpecialOutcome `json:"outcome,omitempty"`
	// EndsRun instructs the caller to skip the normal clock advance
	// and resolve the ending immediately.
	EndsRun bool `json:"ends_run,omitempty"`
}

// Choose applies the option at optionIndex on the given event: effects,
// history, statistics, once-only marking and follow-up scheduling. The
// index refers to the event's full option list (OptionView.Index).
func (e *Engine) Choose(s *session.Session, ev *catalog.Event, optionIndex int) (*ChoiceResult, error) {
	if optionIndex < 0 || optionIndex >= len(ev.Options) {
		return nil, fmt.Errorf("event %s option %d: %w", ev.ID, optionIndex, ErrChoiceNotFound)
	}
	opt := &ev.Options[optionIndex]

	// Gating is re-checked here, not trusted from presentation: the
	// index arrives from an untrusted caller.
	if len(opt.Visibility) > 0 && !e.eval.EvalAll(opt.Visibility, s) {
		return nil, fmt.Errorf("event %s option %d is hidden: %w", ev.ID, optionIndex, ErrChoiceUnavailable)
	}
	if len(opt.Availability) > 0 && !e.eval.EvalAll(opt.Availability, s) {
		return nil, fmt.Errorf("event %s option %d is locked: %w", ev.ID, optionIndex, ErrChoiceUnavailable)
	}

	changes := s.ApplyEffects(opt.Effects, e.eval, e.rand)
	s.RecordChoice(ev.ID, opt.ID, optionIndex)
	if ev.OnceOnly {
		s.MarkTriggered(ev.ID)
	}

	for _, fu := range opt.FollowUps {
		e.scheduleFollowUp(s, fu)
	}

	result := &ChoiceResult{
		Changes:  changes,
		Feedback: opt.Feedback,
		Outcome:  opt.Outcome,
	}
	if opt.Outcome != nil {
		switch opt.Outcome.Kind {
		case catalog.OutcomeEnding, catalog.OutcomeGameOver:
			result.EndsRun = true
		}
	}
	return result, nil
}

// scheduleFollowUp resolves a follow-up spec into a pending entry. A
// probability gate consumes one draw; skipping on a failed draw queues
// nothing.
func (e *Engine) scheduleFollowUp(s *session.Session, fu catalog.FollowUp) {
	if fu.Probability != nil && e.rand() >= *fu.Probability {
		return
	}

	switch fu.Delay {
	case catalog.DelayNextPeriod:
		day, period := s.Clock.Next(s.Clock.Day, s.Clock.Period)
		s.SchedulePending(fu.EventID, day, period, fu.Priority)
	case catalog.DelayNextDay:
		s.SchedulePending(fu.EventID, s.Clock.Day+1, 0, fu.Priority)
	case catalog.DelayImmediate:
		// Defined as a no-op: the delay kind exists in content but
		// schedules nothing. See catalog.DelayImmediate.
	default:
		e.logger.Warn("Unknown follow-up delay, skipping", "delay", fu.Delay, "event_id", fu.EventID)
	}
}
