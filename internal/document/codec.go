package document

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownContentType = errors.New("unknown content type")

type wireContent struct {
	ID   string          `json:"id"`
	Type ContentType     `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (c Content) MarshalJSON() ([]byte, error) {
	var data any
	switch c.Type {
	case ContentQuestion:
		data = c.Question
	case ContentImage:
		data = c.Image
	case ContentText:
		data = c.Text
	default:
		return nil, fmt.Errorf("content %s: %w", c.ID, ErrUnknownContentType)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("content %s: %w", c.ID, err)
	}
	return json.Marshal(wireContent{ID: c.ID, Type: c.Type, Data: raw})
}

func (c *Content) UnmarshalJSON(data []byte) error {
	var w wireContent
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	next := Content{ID: w.ID, Type: w.Type}
	var target any
	switch w.Type {
	case ContentQuestion:
		target = &next.Question
	case ContentImage:
		target = &next.Image
	case ContentText:
		target = &next.Text
	default:
		return fmt.Errorf("%q: %w", w.Type, ErrUnknownContentType)
	}
	if len(w.Data) > 0 && string(w.Data) != "null" {
		if err := json.Unmarshal(w.Data, target); err != nil {
			return fmt.Errorf("content %s: %w", w.ID, err)
		}
	}

	*c = next
	return nil
}

// Decode parses a persisted draft and fills in empty lists so the result is
// ready for Reduce.
func Decode(data []byte) (Assessment, error) {
	var a Assessment
	if err := json.Unmarshal(data, &a); err != nil {
		return Assessment{}, err
	}
	if a.Sections == nil {
		a.Sections = []string{}
	}
	for i := range a.Pages {
		if a.Pages[i].Contents == nil {
			a.Pages[i].Contents = []Content{}
		}
	}
	return a, nil
}

var ErrUnknownAction = errors.New("unknown document action")

// Envelope is the wire form of an action: {"type": "SET_TITLE", "payload": {"title": "Quiz 1"}}.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

var actionDecoders = map[string]func(json.RawMessage) (Action, error){
	ActionSetTitle:        decodeAction[SetTitle],
	ActionSetTopic:        decodeAction[SetTopic],
	ActionSetDescription:  decodeAction[SetDescription],
	ActionSetTeacher:      decodeAction[SetTeacher],
	ActionSetSections:     decodeAction[SetSections],
	ActionSetPassingScore: decodeAction[SetPassingScore],
	ActionSetAttemptLimit: decodeAction[SetAttemptLimit],
	ActionSetTimeLimit:    decodeAction[SetTimeLimit],
	ActionSetDate:         decodeAction[SetDate],
	ActionAddPage:         decodeAction[AddPage],
	ActionDeletePage:      decodeAction[DeletePage],
	ActionSetPages:        decodeAction[SetPages],
	ActionMovePage:        decodeAction[MovePage],
	ActionSetPageContents: decodeAction[SetPageContents],
	ActionSetPageTitle:    decodeAction[SetPageTitle],
	ActionAddContent:      decodeAction[AddContent],
	ActionUpdateContent:   decodeAction[UpdateContent],
	ActionDeleteContent:   decodeAction[DeleteContent],
	ActionMoveContent:     decodeAction[MoveContent],
}

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
