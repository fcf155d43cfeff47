package catalog

import "github.com/jwebster45206/life-engine/pkg/attrs"

// QuietMomentID identifies the built-in fallback event.
const QuietMomentID = "quiet_moment"

// FallbackEndingID identifies the built-in default ending.
const FallbackEndingID = "ordinary_days"

// QuietMoment is the built-in event returned when no catalog event is
// eligible. It behaves like a normal, repeatable, non-tracked event and
// belongs to no catalog.
func QuietMoment() *Event {
	return &Event{
		ID:    QuietMomentID,
		Title: "A Quiet Moment",
		Text:  "Nothing in particular happens. The hours pass at their own pace.",
		Options: []Option{
			{
				ID:   QuietMomentID + "_rest",
				Text: "Rest at home",
				Effects: []Effect{
					{Attribute: attrs.Mood, Op: attrs.OpAdd, Value: EffectValue{Literal: 2}},
				},
			},
			{
				ID:   QuietMomentID + "_walk",
				Text: "Take a walk",
				Effects: []Effect{
					{Attribute: attrs.Health, Op: attrs.OpAdd, Value: EffectValue{Literal: 1}},
					{Attribute: attrs.Mood, Op: attrs.OpAdd, Value: EffectValue{Literal: 1}},
				},
			},
		},
	}
}

// FallbackEnding is the always-available ending used when nothing in
// the catalog unlocks. Ending resolution is total by construction, so
// this must exist even for an empty catalog.
func FallbackEnding() *Ending {
	return &Ending{
		ID:      FallbackEndingID,
		Title:   "Ordinary Days",
		Text:    "The days ran out the way they came: quietly, one after another.",
		Default: true,
	}
}
