package question

import "assessment_builder/internal/ident"

// New builds a question of type t in its default shape. It is the only place
// default bodies are constructed; switching type goes through it as well.
func New(t Type, ids ident.Generator) (Question, bool) {
	body, ok := DefaultBody(t, ids)
	if !ok {
		return Question{}, false
	}
	return Question{
		ID:     ids.NewID(),
		Points: DefaultPoints,
		Body:   body,
	}, true
}

// DefaultBody returns the initial body for t: two empty choices for the choice
// types, no slots for fill-in-the-blanks, true for true-or-false and an empty
// answer for identification.
func DefaultBody(t Type, ids ident.Generator) (Body, bool) {
	switch t {
	case TypeSingleChoice:
		return SingleChoice{defaultChoiceSet(ids)}, true
	case TypeMultipleChoice:
		return MultipleChoice{defaultChoiceSet(ids)}, true
	case TypeFillInTheBlanks:
		return FillInTheBlanks{Answers: []AnswerSlot{}}, true
	case TypeTrueOrFalse:
		return TrueOrFalse{Answer: true}, true
	case TypeIdentification:
		return Identification{Answer: ""}, true
	}
	return nil, false
}

func defaultChoiceSet(ids ident.Generator) ChoiceSet {
	choices := make([]Choice, MinChoices)
	for i := range choices {
		choices[i] = Choice{ID: ids.NewID()}
	}
	return ChoiceSet{
		Choices: choices,
		Answers: []string{},
	}
}
