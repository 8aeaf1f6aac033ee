package question

import "strings"

// Error keys surfaced to the composer.
const (
	KeyQuestion               = "question"
	KeyFillInTheBlankQuestion = "fillInTheBlankQuestion"
	KeyChoices                = "choices"
	KeyAnswer                 = "answer"
	KeyMultiChoiceAnswer      = "multiChoiceAnswer"
)

const (
	msgQuestionRequired  = "Question is required"
	msgBlankRequired     = "Add at least one blank, e.g. [1], to the question"
	msgAnswerRequired    = "Select the correct answer"
	msgDistractorMissing = "At least one choice must be left unselected"
)

// Errors is the result of Validate. Choices carries the indices of every choice
// with empty text so each field can be flagged on its own.
type Errors struct {
	Question               string `json:"question,omitempty"`
	FillInTheBlankQuestion string `json:"fillInTheBlankQuestion,omitempty"`
	Choices                []int  `json:"choices,omitempty"`
	Answer                 string `json:"answer,omitempty"`
	MultiChoiceAnswer      string `json:"multiChoiceAnswer,omitempty"`
}

// Validate checks every rule for the question's type and reports all failures
// at once. It does not modify q.
func Validate(q Question) Errors {
	var errs Errors

	switch b := q.Body.(type) {
	case FillInTheBlanks:
		if len(b.Answers) == 0 {
			errs.FillInTheBlankQuestion = msgBlankRequired
		}
		return errs
	case SingleChoice:
		validateChoiceSet(b.ChoiceSet, &errs)
	case MultipleChoice:
		validateChoiceSet(b.ChoiceSet, &errs)
		if len(b.Choices) > 0 && allSelected(b.ChoiceSet) {
			errs.MultiChoiceAnswer = msgDistractorMissing
		}
	}

	if strings.TrimSpace(PlainText(q.Question)) == "" {
		errs.Question = msgQuestionRequired
	}
	return errs
}

func validateChoiceSet(cs ChoiceSet, errs *Errors) {
	for i, c := range cs.Choices {
		if strings.TrimSpace(c.Text) == "" {
			errs.Choices = append(errs.Choices, i)
		}
	}
	if len(cs.Answers) == 0 {
		errs.Answer = msgAnswerRequired
	}
}

func allSelected(cs ChoiceSet) bool {
	for _, c := range cs.Choices {
		if !cs.selected(c.ID) {
			return false
		}
	}
	return true
}

// OK reports whether no rule failed.
func (e Errors) OK() bool {
	return len(e.Keys()) == 0
}

// Keys lists the failing rules in a fixed order.
func (e Errors) Keys() []string {
	var keys []string
	if e.Question != "" {
		keys = append(keys, KeyQuestion)
	}
	if e.FillInTheBlankQuestion != "" {
		keys = append(keys, KeyFillInTheBlankQuestion)
	}
	if len(e.Choices) > 0 {
		keys = append(keys, KeyChoices)
	}
	if e.Answer != "" {
		keys = append(keys, KeyAnswer)
	}
	if e.MultiChoiceAnswer != "" {
		keys = append(keys, KeyMultiChoiceAnswer)
	}
	return keys
}
