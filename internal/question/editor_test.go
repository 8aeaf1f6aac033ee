package question

import (
	"testing"

	"assessment_builder/internal/ident"
	"github.com/stretchr/testify/assert"
)

func TestEditor_DispatchAndErrors(t *testing.T) {
	ids := ident.NewSequence("id")
	q, _ := New(TypeIdentification, ids)
	e := NewEditor(Target{PageID: "p1"}, q, ids)

	assert.False(t, e.Target().IsUpdate())
	assert.Equal(t, []string{KeyQuestion}, e.Errors().Keys())

	e.Dispatch(SetText{Text: "Capital of France?"})
	e.Dispatch(SetIdentification{Answer: "Paris"})

	assert.True(t, e.Errors().OK())
	assert.Equal(t, Identification{Answer: "Paris"}, e.Question().Body)
}

func TestEditor_ErrorsFollowQuestion(t *testing.T) {
	ids := ident.NewSequence("id")
	q, _ := New(TypeFillInTheBlanks, ids)
	e := NewEditor(Target{PageID: "p1", ContentID: "c1"}, q, ids)

	assert.True(t, e.Target().IsUpdate())
	assert.False(t, e.Errors().OK())
	assert.False(t, e.Errors().OK())

	e.Dispatch(SetText{Text: "[1]"})
	assert.True(t, e.Errors().OK())

	e.Dispatch(SetText{Text: "none"})
	assert.Equal(t, []string{KeyFillInTheBlankQuestion}, e.Errors().Keys())
}
