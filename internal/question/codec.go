package question

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownType   = errors.New("unknown question type")
	ErrUnknownAction = errors.New("unknown question action")
)

type wireQuestion struct {
	ID             string          `json:"id"`
	Type           Type            `json:"type"`
	Question       string          `json:"question"`
	Points         int             `json:"points"`
	Choices        []Choice        `json:"choices,omitempty"`
	Answers        json.RawMessage `json:"answers"`
	RandomPosition *bool           `json:"randomPosition,omitempty"`
}

func (q Question) MarshalJSON() ([]byte, error) {
	w := wireQuestion{
		ID:       q.ID,
		Type:     q.Type(),
		Question: q.Question,
		Points:   q.Points,
	}

	var answers any
	switch b := q.Body.(type) {
	case SingleChoice:
		answers = w.fillChoices(b.ChoiceSet)
	case MultipleChoice:
		answers = w.fillChoices(b.ChoiceSet)
	case FillInTheBlanks:
		answers = nonNil(b.Answers)
	case TrueOrFalse:
		answers = b.Answer
	case Identification:
		answers = b.Answer
	default:
		return nil, fmt.Errorf("question %s: %w", q.ID, ErrUnknownType)
	}

	raw, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}
	w.Answers = raw
	return json.Marshal(w)
}

func (w *wireQuestion) fillChoices(cs ChoiceSet) []string {
	w.Choices = nonNil(cs.Choices)
	random := cs.RandomPosition
	w.RandomPosition = &random
	return nonNil(cs.Answers)
}

func (q *Question) UnmarshalJSON(data []byte) error {
	var w wireQuestion
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var body Body
	switch w.Type {
	case TypeSingleChoice, TypeMultipleChoice:
		cs := ChoiceSet{Choices: nonNil(w.Choices), Answers: []string{}}
		if w.RandomPosition != nil {
			cs.RandomPosition = *w.RandomPosition
		}
		if err := decodeAnswers(w.Answers, &cs.Answers); err != nil {
			return err
		}
		if w.Type == TypeSingleChoice {
			body = SingleChoice{cs}
		} else {
			body = MultipleChoice{cs}
		}
	case TypeFillInTheBlanks:
		b := FillInTheBlanks{Answers: []AnswerSlot{}}
		if err := decodeAnswers(w.Answers, &b.Answers); err != nil {
			return err
		}
		body = b
	case TypeTrueOrFalse:
		b := TrueOrFalse{Answer: true}
		if err := decodeAnswers(w.Answers, &b.Answer); err != nil {
			return err
		}
		body = b
	case TypeIdentification:
		var b Identification
		if err := decodeAnswers(w.Answers, &b.Answer); err != nil {
			return err
		}
		body = b
	default:
		return fmt.Errorf("%q: %w", w.Type, ErrUnknownType)
	}

	*q = Question{ID: w.ID, Question: w.Question, Points: w.Points, Body: body}
	return nil
}

func decodeAnswers(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode answers: %w", err)
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Envelope is the wire form of an action: {"type": "SET_POINTS", "payload": {"points": 2}}.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

var actionDecoders = map[string]func(json.RawMessage) (Action, error){
	ActionSetType:           decodeAction[SetType],
	ActionSetPoints:         decodeAction[SetPoints],
	ActionSetText:           decodeAction[SetText],
	ActionSetChoices:        decodeAction[SetChoices],
	ActionAddChoice:         decodeAction[AddChoice],
	ActionDeleteChoice:      decodeAction[DeleteChoice],
	ActionSetChoiceText:     decodeAction[SetChoiceText],
	ActionSetAnswers:        decodeAction[SetAnswers],
	ActionToggleAnswer:      decodeAction[ToggleAnswer],
	ActionSetRandomPosition: decodeAction[SetRandomPosition],
	ActionSetTrueOrFalse:    decodeAction[SetTrueOrFalse],
	ActionSetIdentification: decodeAction[SetIdentification],
	ActionSetBlankValue:     decodeAction[SetBlankValue],
}

// DecodeAction turns an envelope into a typed action.
func DecodeAction(env Envelope) (Action, error) {
	dec, ok := actionDecoders[env.Type]
	if !ok {
		return nil, fmt.Errorf("%q: %w", env.Type, ErrUnknownAction)
	}
	return dec(env.Payload)
}

func decodeAction[T Action](raw json.RawMessage) (Action, error) {
	var a T
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", a.ActionType(), err)
		}
	}
	return a, nil
}
