package question

// Action is a change requested by the question composer.
type Action interface {
	ActionType() string
}

const (
	ActionSetType           = "SET_TYPE"
	ActionSetPoints         = "SET_POINTS"
	ActionSetText           = "SET_QUESTION"
	ActionSetChoices        = "SET_CHOICES"
	ActionAddChoice         = "ADD_CHOICE"
	ActionDeleteChoice      = "DELETE_CHOICE"
	ActionSetChoiceText     = "SET_CHOICE_TEXT"
	ActionSetAnswers        = "SET_ANSWERS"
	ActionToggleAnswer      = "TOGGLE_ANSWER"
	ActionSetRandomPosition = "SET_RANDOM_POSITION"
	ActionSetTrueOrFalse    = "SET_TRUE_OR_FALSE"
	ActionSetIdentification = "SET_IDENTIFICATION"
	ActionSetBlankValue     = "SET_BLANK_VALUE"
)

type SetType struct {
	Type Type `json:"type"`
}

type SetPoints struct {
	Points int `json:"points"`
}

// SetText replaces the prompt markup.
type SetText struct {
	Text string `json:"question"`
}

type SetChoices struct {
	Choices []Choice `json:"choices"`
}

type AddChoice struct {
	Text string `json:"text"`
}

type DeleteChoice struct {
	ChoiceID string `json:"choiceId"`
}

type SetChoiceText struct {
	ChoiceID string `json:"choiceId"`
	Text     string `json:"text"`
}

// SetAnswers replaces the selected choice ids.
type SetAnswers struct {
	Answers []string `json:"answers"`
}

type ToggleAnswer struct {
	ChoiceID string `json:"choiceId"`
}

type SetRandomPosition struct {
	RandomPosition bool `json:"randomPosition"`
}

type SetTrueOrFalse struct {
	Answer bool `json:"answer"`
}

type SetIdentification struct {
	Answer string `json:"answer"`
}

type SetBlankValue struct {
	SlotID string `json:"slotId"`
	Value  string `json:"value"`
}

func (SetType) ActionType() string           { return ActionSetType }
func (SetPoints) ActionType() string         { return ActionSetPoints }
func (SetText) ActionType() string           { return ActionSetText }
func (SetChoices) ActionType() string        { return ActionSetChoices }
func (AddChoice) ActionType() string         { return ActionAddChoice }
func (DeleteChoice) ActionType() string      { return ActionDeleteChoice }
func (SetChoiceText) ActionType() string     { return ActionSetChoiceText }
func (SetAnswers) ActionType() string        { return ActionSetAnswers }
func (ToggleAnswer) ActionType() string      { return ActionToggleAnswer }
func (SetRandomPosition) ActionType() string { return ActionSetRandomPosition }
func (SetTrueOrFalse) ActionType() string    { return ActionSetTrueOrFalse }
func (SetIdentification) ActionType() string { return ActionSetIdentification }
func (SetBlankValue) ActionType() string     { return ActionSetBlankValue }
