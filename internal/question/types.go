// Package question holds the authoring model of a single assessment question:
// its type-keyed shape, the transition function used while a question is being
// composed, the answer-slot synchronizer for fill-in-the-blanks prompts and the
// validation rules that gate a commit.
package question

type Type string

const (
	TypeSingleChoice    Type = "single_choice"
	TypeMultipleChoice  Type = "multiple_choice"
	TypeFillInTheBlanks Type = "fill_in_the_blanks"
	TypeTrueOrFalse     Type = "true_or_false"
	TypeIdentification  Type = "identification"
)

// Types lists every supported question type in display order.
var Types = []Type{
	TypeSingleChoice,
	TypeMultipleChoice,
	TypeFillInTheBlanks,
	TypeTrueOrFalse,
	TypeIdentification,
}

const (
	MinChoices    = 2
	MaxChoices    = 4
	DefaultPoints = 1
)

func (t Type) Valid() bool {
	switch t {
	case TypeSingleChoice, TypeMultipleChoice, TypeFillInTheBlanks, TypeTrueOrFalse, TypeIdentification:
		return true
	}
	return false
}

func (t Type) HasChoices() bool {
	return t == TypeSingleChoice || t == TypeMultipleChoice
}

type Choice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// AnswerSlot is one blank of a fill-in-the-blanks prompt. Label is the number
// written between brackets in the prompt, e.g. "3" for "[3]".
type AnswerSlot struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Body is the type-specific part of a question. The set of implementations is
// closed: SingleChoice, MultipleChoice, FillInTheBlanks, TrueOrFalse and
// Identification.
type Body interface {
	Type() Type
	sealed()
}

// ChoiceSet is shared by both choice-based bodies. Answers holds choice ids.
type ChoiceSet struct {
	Choices        []Choice
	Answers        []string
	RandomPosition bool
}

type SingleChoice struct{ ChoiceSet }

type MultipleChoice struct{ ChoiceSet }

type FillInTheBlanks struct {
	Answers []AnswerSlot
}

type TrueOrFalse struct {
	Answer bool
}

type Identification struct {
	Answer string
}

func (SingleChoice) Type() Type    { return TypeSingleChoice }
func (MultipleChoice) Type() Type  { return TypeMultipleChoice }
func (FillInTheBlanks) Type() Type { return TypeFillInTheBlanks }
func (TrueOrFalse) Type() Type     { return TypeTrueOrFalse }
func (Identification) Type() Type  { return TypeIdentification }

func (SingleChoice) sealed()    {}
func (MultipleChoice) sealed()  {}
func (FillInTheBlanks) sealed() {}
func (TrueOrFalse) sealed()     {}
func (Identification) sealed()  {}

// Question is an immutable value; every transition returns a new one.
type Question struct {
	ID       string
	Question string // prompt markup as produced by the rich-text editor
	Points   int
	Body     Body
}

func (q Question) Type() Type {
	if q.Body == nil {
		return ""
	}
	return q.Body.Type()
}

// Choices returns the choice set of a choice-based question.
func (q Question) Choices() (ChoiceSet, bool) {
	return choiceSetOf(q.Body)
}

// Slots returns the answer slots of a fill-in-the-blanks question, nil otherwise.
func (q Question) Slots() []AnswerSlot {
	if b, ok := q.Body.(FillInTheBlanks); ok {
		return b.Answers
	}
	return nil
}

func choiceSetOf(b Body) (ChoiceSet, bool) {
	switch v := b.(type) {
	case SingleChoice:
		return v.ChoiceSet, true
	case MultipleChoice:
		return v.ChoiceSet, true
	}
	return ChoiceSet{}, false
}

// withChoiceSet rebuilds b around cs, keeping its single/multiple kind.
func withChoiceSet(b Body, cs ChoiceSet) Body {
	switch b.(type) {
	case SingleChoice:
		return SingleChoice{cs}
	case MultipleChoice:
		return MultipleChoice{cs}
	}
	return b
}

func (cs ChoiceSet) indexOf(choiceID string) int {
	for i, c := range cs.Choices {
		if c.ID == choiceID {
			return i
		}
	}
	return -1
}

func (cs ChoiceSet) selected(choiceID string) bool {
	for _, id := range cs.Answers {
		if id == choiceID {
			return true
		}
	}
	return false
}

// WellFormed reports whether q satisfies the structural invariants that every
// transition keeps: a known type, 2 to 4 uniquely identified choices whose
// answers reference existing choices (at most one for single choice), and
// uniquely labelled answer slots.
func WellFormed(q Question) bool {
	if q.ID == "" {
		return false
	}
	switch b := q.Body.(type) {
	case SingleChoice:
		return wellFormedChoices(b.ChoiceSet) && len(b.Answers) <= 1
	case MultipleChoice:
		return wellFormedChoices(b.ChoiceSet)
	case FillInTheBlanks:
		seen := make(map[string]bool, len(b.Answers))
		for _, s := range b.Answers {
			if s.ID == "" || seen[s.Label] {
				return false
			}
			seen[s.Label] = true
		}
		return true
	case TrueOrFalse, Identification:
		return true
	}
	return false
}

func wellFormedChoices(cs ChoiceSet) bool {
	if len(cs.Choices) < MinChoices || len(cs.Choices) > MaxChoices {
		return false
	}
	ids := make(map[string]bool, len(cs.Choices))
	for _, c := range cs.Choices {
		if c.ID == "" || ids[c.ID] {
			return false
		}
		ids[c.ID] = true
	}
	picked := make(map[string]bool, len(cs.Answers))
	for _, a := range cs.Answers {
		if !ids[a] || picked[a] {
			return false
		}
		picked[a] = true
	}
	return true
}
