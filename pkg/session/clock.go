package session

import "github.com/jwebster45206/life-engine/pkg/catalog"

// Clock tracks run progress: day in [1, TotalDays], period in
// [0, PeriodsPerDay). Advancing past the last period of the last day
// signals termination.
type Clock struct {
	Day           int `json:"day"`
	Period        int `json:"period"`
	TotalDays     int `json:"total_days"`
	PeriodsPerDay int `json:"periods_per_day"`
}

// NewClock starts a clock at day 1, period 0.
func NewClock(s catalog.Settings) Clock {
	return Clock{
		Day:           1,
		Period:        0,
		TotalDays:     s.TotalDays,
		PeriodsPerDay: s.PeriodsPerDay,
	}
}

// Advance moves to the next period. It returns true only when the
// period wraps back to 0, i.e. a day boundary was crossed.
func (c *Clock) Advance() bool {
	c.Period++
	if c.Period >= c.PeriodsPerDay {
		c.Period = 0
		c.Day++
		return true
	}
	return false
}

// Finished reports whether the clock has advanced past the last day.
func (c *Clock) Finished() bool {
	return c.Day > c.TotalDays
}

// Next returns the day and period one slot ahead of the given slot,
// carrying into the next day on overflow.
func (c *Clock) Next(day, period int) (int, int) {
	period++
	if period >= c.PeriodsPerDay {
		return day + 1, 0
	}
	return day, period
}
