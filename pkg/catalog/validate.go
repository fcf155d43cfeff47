package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrContentInvalid marks content that failed loading-time validation.
// Validation problems are a loader responsibility and never surface as
// core runtime faults.
var ErrContentInvalid = errors.New("content invalid")

// ContentError aggregates validation problems found in one catalog.
type ContentError struct {
	Problems []string
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("%v: %s", ErrContentInvalid, strings.Join(e.Problems, "; "))
}

func (e *ContentError) Unwrap() error {
	return ErrContentInvalid
}

// Normalize fills defaults so the core only ever sees well-formed
// entries: generated ids, a non-empty option list per event, default
// settings. Normalize never fails; use Validate for strict checking.
func (c *Catalog) Normalize() {
	if c.Settings.TotalDays <= 0 {
		c.Settings.TotalDays = DefaultSettings().TotalDays
	}
	if c.Settings.PeriodsPerDay <= 0 {
		c.Settings.PeriodsPerDay = DefaultSettings().PeriodsPerDay
	}

	for i := range c.Events {
		ev := &c.Events[i]
		if ev.ID == "" {
			ev.ID = "event_" + uuid.NewString()
		}
		if len(ev.Options) == 0 {
			ev.Options = []Option{{Text: "Continue"}}
		}
		for j := range ev.Options {
			if ev.Options[j].ID == "" {
				ev.Options[j].ID = fmt.Sprintf("%s_opt_%d", ev.ID, j)
			}
		}
	}

	for i := range c.Endings {
		if c.Endings[i].ID == "" {
			c.Endings[i].ID = "ending_" + uuid.NewString()
		}
	}

	// Drop any stale index so lookups see the normalized entries.
	c.eventsByID = nil
	c.charactersByID = nil
}

// Validate runs strict checks on a catalog. It returns a ContentError
// wrapping ErrContentInvalid listing every problem found.
func (c *Catalog) Validate() error {
	var problems []string

	seenEvents := make(map[string]bool, len(c.Events))
	for i, ev := range c.Events {
		if ev.ID == "" {
			problems = append(problems, fmt.Sprintf("event %d: missing id", i))
			continue
		}
		if seenEvents[ev.ID] {
			problems = append(problems, fmt.Sprintf("event %s: duplicate id", ev.ID))
		}
		seenEvents[ev.ID] = true
		if len(ev.Options) == 0 {
			problems = append(problems, fmt.Sprintf("event %s: no options", ev.ID))
		}
		if ev.Weight < 0 {
			problems = append(problems, fmt.Sprintf("event %s: negative weight", ev.ID))
		}
	}

	// Cross-references are id-based; dangling ids are authoring errors.
	for _, ev := range c.Events {
		for _, id := range append(append([]string{}, ev.Excludes...), ev.Requires...) {
			if !seenEvents[id] {
				problems = append(problems, fmt.Sprintf("event %s: unknown event reference %q", ev.ID, id))
			}
		}
		for _, opt := range ev.Options {
			for _, fu := range opt.FollowUps {
				if !seenEvents[fu.EventID] {
					problems = append(problems, fmt.Sprintf("event %s option %s: unknown follow-up event %q", ev.ID, opt.ID, fu.EventID))
				}
				switch fu.Delay {
				case DelayImmediate, DelayNextPeriod, DelayNextDay:
				default:
					problems = append(problems, fmt.Sprintf("event %s option %s: unknown delay %q", ev.ID, opt.ID, fu.Delay))
				}
			}
		}
	}

	seenEndings := make(map[string]bool, len(c.Endings))
	for i, en := range c.Endings {
		if en.ID == "" {
			problems = append(problems, fmt.Sprintf("ending %d: missing id", i))
			continue
		}
		if seenEndings[en.ID] {
			problems = append(problems, fmt.Sprintf("ending %s: duplicate id", en.ID))
		}
		seenEndings[en.ID] = true
	}

	for i, ch := range c.Characters {
		if ch.ID == "" {
			problems = append(problems, fmt.Sprintf("character %d: missing id", i))
		}
	}

	if len(problems) > 0 {
		return &ContentError{Problems: problems}
	}
	return nil
}
