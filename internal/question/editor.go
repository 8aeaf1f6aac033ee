package question

import (
	"reflect"

	"assessment_builder/internal/ident"
)

// Target says where a composed question lands on commit. An empty ContentID
// means the question is new and will be appended to the page.
type Target struct {
	PageID    string `json:"pageId"`
	ContentID string `json:"contentId,omitempty"`
}

func (t Target) IsUpdate() bool {
	return t.ContentID != ""
}

// Editor owns the question being composed. It is independent of the document
// until the caller commits Question() into a page.
type Editor struct {
	ids      ident.Generator
	target   Target
	question Question

	validated *Question
	errs      Errors
}

func NewEditor(target Target, q Question, ids ident.Generator) *Editor {
	return &Editor{ids: ids, target: target, question: q}
}

func (e *Editor) Target() Target     { return e.target }
func (e *Editor) Question() Question { return e.question }

func (e *Editor) Dispatch(a Action) Question {
	e.question = Reduce(e.question, a, e.ids)
	return e.question
}

// Errors validates the current question, reusing the last result while the
// question value is unchanged.
func (e *Editor) Errors() Errors {
	if e.validated != nil && reflect.DeepEqual(*e.validated, e.question) {
		return e.errs
	}
	q := e.question
	e.validated = &q
	e.errs = Validate(q)
	return e.errs
}
