package engine

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/life-engine/pkg/attrs"
	"github.com/jwebster45206/life-engine/pkg/session"
)

var titleCaser = cases.Title(language.English)

// BuildSummary derives the narrative run summary from the final vs
// initial attribute values. It is flavor text, not gameplay, but it is
// deterministic given the same before/after values.
func BuildSummary(s *session.Session) string {
	name := displayName(s)
	lines := []string{
		depositLine(name, s.Attribute(attrs.Deposit)-s.Initial[attrs.Deposit]),
		weightLine(s.Attribute(attrs.Weight)-s.Initial[attrs.Weight]),
		moodLine(s.Attribute(attrs.Mood)-s.Initial[attrs.Mood]),
		healthLine(s.Attribute(attrs.Health)-s.Initial[attrs.Health]),
		faceLine(s.Attribute(attrs.Face)-s.Initial[attrs.Face]),
	}
	return strings.Join(lines, " ")
}

func displayName(s *session.Session) string {
	if ch := s.Catalog.CharacterByID(s.Character); ch != nil && ch.Name != "" {
		return ch.Name
	}
	if s.Character == "" {
		return "The player"
	}
	return titleCaser.String(strings.ReplaceAll(s.Character, "_", " "))
}

func depositLine(name string, delta float64) string {
	switch {
	case delta > 10000:
		return name + " amassed a small fortune."
	case delta > 0:
		return name + " put a little money aside."
	case delta == 0:
		return name + " broke exactly even."
	case delta >= -10000:
		return name + " spent more than came in."
	default:
		return name + " burned through the savings."
	}
}

func weightLine(delta float64) string {
	switch {
	case delta > 10:
		return "The scales tell a heavier story than before."
	case delta > 0:
		return "A few extra pounds crept on."
	case delta == 0:
		return "The waistline held its ground."
	case delta >= -10:
		return "A little weight quietly came off."
	default:
		return "The mirror shows a much leaner figure."
	}
}

func moodLine(delta float64) string {
	switch {
	case delta > 20:
		return "Spirits ended far higher than they began."
	case delta > 0:
		return "Most days ended with a smile."
	case delta == 0:
		return "The mood never really moved."
	case delta >= -20:
		return "Some gloom settled in along the way."
	default:
		return "The cheerfulness of day one is a distant memory."
	}
}

func healthLine(delta float64) string {
	switch {
	case delta > 20:
		return "The body is in noticeably better shape."
	case delta > 0:
		return "Health improved a touch."
	case delta == 0:
		return "Health held steady throughout."
	case delta >= -20:
		return "The body paid a modest price."
	default:
		return "Health took a serious beating."
	}
}

func faceLine(delta float64) string {
	switch {
	case delta > 20:
		return "People say the change in appearance is striking."
	case delta > 0:
		return "Something about the reflection looks brighter."
	case delta == 0:
		return "The face in the mirror is unchanged."
	case delta >= -20:
		return "The days left faint marks on the face."
	default:
		return "The mirror has become an unkind companion."
	}
}
