package engine

import (
	"math"
	"sort"

	"github.com/jwebster45206/life-engine/pkg/attrs"
	"github.com/jwebster45206/life-engine/pkg/catalog"
	"github.com/jwebster45206/life-engine/pkg/session"
)

// EndingResult is the terminal product of a run.
type EndingResult struct {
	Ending  *catalog.Ending `json:"ending"`
	Score   int             `json:"score"`
	Summary string          `json:"summary"`
}

// ResolveEnding picks the run's ending: endings in scope for the
// character, highest priority first (catalog order on ties), first
// satisfied unlock wins. Resolution is total: if nothing in the
// catalog unlocks, the built-in fallback ending is returned.
func (e *Engine) ResolveEnding(s *session.Session) *EndingResult {
	var scoped []*catalog.Ending
	for i := range s.Catalog.Endings {
		en := &s.Catalog.Endings[i]
		if en.AppliesTo(s.CharacterID()) {
			scoped = append(scoped, en)
		}
	}
	sort.SliceStable(scoped, func(i, j int) bool {
		return scoped[i].Priority > scoped[j].Priority
	})

	// Short-circuiting scan, not a best-match search.
	for _, en := range scoped {
		if en.Default || e.eval.EvalAnyGroup(en.Unlocks, s) {
			return e.finish(s, en)
		}
	}
	return e.finish(s, catalog.FallbackEnding())
}

// ForcedEnding resolves a specific ending id, as requested by a
// special outcome. An unknown id falls back to normal resolution.
func (e *Engine) ForcedEnding(s *session.Session, endingID string) *EndingResult {
	for i := range s.Catalog.Endings {
		if s.Catalog.Endings[i].ID == endingID {
			return e.finish(s, &s.Catalog.Endings[i])
		}
	}
	e.logger.Warn("Forced ending not in catalog, resolving normally", "ending_id", endingID)
	return e.ResolveEnding(s)
}

func (e *Engine) finish(s *session.Session, en *catalog.Ending) *EndingResult {
	return &EndingResult{
		Ending:  en,
		Score:   e.score(s, en),
		Summary: BuildSummary(s),
	}
}

// score is the ending's base score, plus every modifier whose condition
// holds, plus the attribute bonus: deposit/1000 + (face+mood+health)/2.
// The result is floored to an integer.
func (e *Engine) score(s *session.Session, en *catalog.Ending) int {
	total := en.BaseScore
	for _, mod := range en.Modifiers {
		if e.eval.EvalAll(mod.If, s) {
			total += mod.Value
		}
	}
	total += s.Attribute(attrs.Deposit) / 1000
	total += (s.Attribute(attrs.Face) + s.Attribute(attrs.Mood) + s.Attribute(attrs.Health)) / 2
	return int(math.Floor(total))
}
