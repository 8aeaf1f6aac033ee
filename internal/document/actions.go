package document

import "time"

// Action is an authoring change to the document.
type Action interface {
	ActionType() string
}

const (
	ActionSetTitle        = "SET_TITLE"
	ActionSetTopic        = "SET_TOPIC"
	ActionSetDescription  = "SET_DESCRIPTION"
	ActionSetTeacher      = "SET_TEACHER"
	ActionSetSections     = "SET_SECTIONS"
	ActionSetPassingScore = "SET_PASSING_SCORE"
	ActionSetAttemptLimit = "SET_ATTEMPT_LIMIT"
	ActionSetTimeLimit    = "SET_TIME_LIMIT"
	ActionSetDate         = "SET_DATE"
	ActionAddPage         = "ADD_PAGE"
	ActionDeletePage      = "DELETE_PAGE"
	ActionSetPages        = "SET_PAGES"
	ActionMovePage        = "MOVE_PAGE"
	ActionSetPageContents = "SET_PAGE_CONTENTS"
	ActionSetPageTitle    = "SET_PAGE_TITLE"
	ActionAddContent      = "ADD_CONTENT"
	ActionUpdateContent   = "UPDATE_CONTENT"
	ActionDeleteContent   = "DELETE_CONTENT"
	ActionMoveContent     = "MOVE_CONTENT"
)

type SetTitle struct {
	Title string `json:"title"`
}

type SetTopic struct {
	Topic string `json:"topic"`
}

type SetDescription struct {
	Description string `json:"description"`
}

type SetTeacher struct {
	Teacher string `json:"teacher"`
}

type SetSections struct {
	Sections []string `json:"sections"`
}

type SetPassingScore struct {
	PassingScore int `json:"passingScore"`
}

type SetAttemptLimit struct {
	AttemptLimit int `json:"attemptLimit"`
}

type SetTimeLimit struct {
	TimeLimit int `json:"timeLimit"`
}

type SetDate struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// AddPage appends an empty page. PageID is filled by Prepare when blank.
type AddPage struct {
	PageID string  `json:"pageId"`
	Title  *string `json:"title"`
}

type DeletePage struct {
	PageID string `json:"pageId"`
}

// SetPages replaces the page list wholesale.
type SetPages struct {
	Pages []Page `json:"pages"`
}

// MovePage moves ActiveID to the slot held by OverID.
type MovePage struct {
	ActiveID string `json:"activeId"`
	OverID   string `json:"overId"`
}

type SetPageContents struct {
	PageID   string    `json:"pageId"`
	Contents []Content `json:"contents"`
}

type SetPageTitle struct {
	PageID string  `json:"pageId"`
	Title  *string `json:"title"`
}

// AddContent appends Content to the page. A blank Content.ID is filled by Prepare.
type AddContent struct {
	PageID  string  `json:"pageId"`
	Content Content `json:"content"`
}

// UpdateContent replaces the content with the same id on the page.
type UpdateContent struct {
	PageID  string  `json:"pageId"`
	Content Content `json:"content"`
}

type DeleteContent struct {
	PageID    string `json:"pageId"`
	ContentID string `json:"contentId"`
}

type MoveContent struct {
	PageID   string `json:"pageId"`
	ActiveID string `json:"activeId"`
	OverID   string `json:"overId"`
}

func (SetTitle) ActionType() string        { return ActionSetTitle }
func (SetTopic) ActionType() string        { return ActionSetTopic }
func (SetDescription) ActionType() string  { return ActionSetDescription }
func (SetTeacher) ActionType() string      { return ActionSetTeacher }
func (SetSections) ActionType() string     { return ActionSetSections }
func (SetPassingScore) ActionType() string { return ActionSetPassingScore }
func (SetAttemptLimit) ActionType() string { return ActionSetAttemptLimit }
func (SetTimeLimit) ActionType() string    { return ActionSetTimeLimit }
func (SetDate) ActionType() string         { return ActionSetDate }
func (AddPage) ActionType() string         { return ActionAddPage }
func (DeletePage) ActionType() string      { return ActionDeletePage }
func (SetPages) ActionType() string        { return ActionSetPages }
func (MovePage) ActionType() string        { return ActionMovePage }
func (SetPageContents) ActionType() string { return ActionSetPageContents }
func (SetPageTitle) ActionType() string    { return ActionSetPageTitle }
func (AddContent) ActionType() string      { return ActionAddContent }
func (UpdateContent) ActionType() string   { return ActionUpdateContent }
func (DeleteContent) ActionType() string   { return ActionDeleteContent }
func (MoveContent) ActionType() string     { return ActionMoveContent }
