package conditions

// Kind discriminates the condition variants. Conditions are a closed
// set: the evaluator dispatches exhaustively on Kind and treats
// anything else as false.
type Kind string

const (
	KindAttribute      Kind = "attribute"       // compare an attribute against a value
	KindFlag           Kind = "flag"            // equality check on a session flag
	KindRandom         Kind = "random"          // one uniform draw < probability
	KindTime           Kind = "time"            // day/period membership or day range
	KindProbability    Kind = "probability"     // like random, nudged by the luck attribute
	KindEventHistory   Kind = "event_history"   // has / has not an event been triggered
	KindCharacter      Kind = "character"       // active character is in the allow-list
	KindEventTriggered Kind = "event_triggered" // event triggered, optionally with a specific choice
	KindCombination    Kind = "combination"     // nested AND-list
)

// CompareOp is a comparison operator for attribute conditions.
type CompareOp string

const (
	OpGT  CompareOp = ">"
	OpLT  CompareOp = "<"
	OpGTE CompareOp = ">="
	OpLTE CompareOp = "<="
	OpEQ  CompareOp = "=="
	OpNEQ CompareOp = "!="
)

// Condition is one predicate in the condition DSL. Only the fields for
// its Kind are meaningful; the content loader is responsible for
// populating them consistently.
type Condition struct {
	Kind Kind `json:"kind"`

	// attribute
	Attribute string    `json:"attribute,omitempty"`
	Op        CompareOp `json:"op,omitempty"` // defaults to >= when omitted
	Value     float64   `json:"value,omitempty"`

	// flag
	Flag      string `json:"flag,omitempty"`
	FlagValue string `json:"flag_value,omitempty"`

	// random, probability
	Probability float64 `json:"probability,omitempty"`

	// time
	Days    []int `json:"days,omitempty"`     // exact day membership
	DayFrom *int  `json:"day_from,omitempty"` // inclusive day range
	DayTo   *int  `json:"day_to,omitempty"`
	Periods []int `json:"periods,omitempty"` // exact period membership

	// event_history, event_triggered
	EventID     string `json:"event_id,omitempty"`
	Triggered   *bool  `json:"triggered,omitempty"`    // event_history: expected state, default true
	ChoiceIndex *int   `json:"choice_index,omitempty"` // event_triggered: require this recorded choice

	// character
	Characters []string `json:"characters,omitempty"`

	// combination
	All []Condition `json:"all,omitempty"`
}

// Group is an AND-combined set of conditions. Ending unlock rules are
// OR-across-groups of these.
type Group struct {
	All []Condition `json:"all"`
}

// View provides the minimal session surface needed to evaluate
// conditions. This avoids an import cycle with the session package.
type View interface {
	Attribute(name string) float64
	Flag(name string) (string, bool)
	Day() int
	Period() int
	EventTriggered(eventID string) bool
	ChoiceIndex(eventID string) (int, bool)
	CharacterID() string
}
