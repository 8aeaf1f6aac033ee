package question

import (
	"testing"

	"assessment_builder/internal/ident"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuestion(t *testing.T, typ Type, ids ident.Generator) Question {
	t.Helper()
	q, ok := New(typ, ids)
	require.True(t, ok)
	return q
}

func choiceQuestion(t *testing.T, typ Type, texts ...string) (Question, ident.Generator) {
	t.Helper()
	ids := ident.NewSequence("id")
	q := newQuestion(t, typ, ids)
	cs, _ := q.Choices()
	for i, text := range texts {
		if i < len(cs.Choices) {
			q = Reduce(q, SetChoiceText{ChoiceID: cs.Choices[i].ID, Text: text}, ids)
			continue
		}
		q = Reduce(q, AddChoice{Text: text}, ids)
	}
	return q, ids
}

func TestNew_DefaultShapes(t *testing.T) {
	ids := ident.NewSequence("id")

	tests := []struct {
		name string
		typ  Type
		want Body
	}{
		{
			name: "single choice",
			typ:  TypeSingleChoice,
			want: SingleChoice{ChoiceSet{Choices: []Choice{{ID: "id-1"}, {ID: "id-2"}}, Answers: []string{}}},
		},
		{
			name: "multiple choice",
			typ:  TypeMultipleChoice,
			want: MultipleChoice{ChoiceSet{Choices: []Choice{{ID: "id-4"}, {ID: "id-5"}}, Answers: []string{}}},
		},
		{
			name: "fill in the blanks",
			typ:  TypeFillInTheBlanks,
			want: FillInTheBlanks{Answers: []AnswerSlot{}},
		},
		{
			name: "true or false",
			typ:  TypeTrueOrFalse,
			want: TrueOrFalse{Answer: true},
		},
		{
			name: "identification",
			typ:  TypeIdentification,
			want: Identification{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newQuestion(t, tt.typ, ids)
			assert.Equal(t, tt.want, q.Body)
			assert.Equal(t, DefaultPoints, q.Points)
			assert.True(t, WellFormed(q))
		})
	}

	_, ok := New(Type("essay"), ids)
	assert.False(t, ok)
}

func TestReduce_SetTypeResetsBody(t *testing.T) {
	for _, from := range Types {
		for _, to := range Types {
			if from == to {
				continue
			}
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				ids := ident.NewSequence("id")
				q := newQuestion(t, from, ids)
				q = Reduce(q, SetText{Text: "What is 2 + 2?"}, ids)
				q = Reduce(q, SetChoiceText{ChoiceID: "id-2", Text: "four"}, ids)
				q = Reduce(q, ToggleAnswer{ChoiceID: "id-2"}, ids)
				q = Reduce(q, SetIdentification{Answer: "four"}, ids)
				q = Reduce(q, SetTrueOrFalse{Answer: false}, ids)

				next := Reduce(q, SetType{Type: to}, ids)

				want, _ := DefaultBody(to, ident.NewSequence("fresh"))
				assert.Equal(t, to, next.Type())
				assert.Equal(t, q.ID, next.ID)
				assert.Equal(t, q.Question, next.Question)
				switch w := want.(type) {
				case SingleChoice, MultipleChoice:
					cs, ok := next.Choices()
					require.True(t, ok)
					assert.Len(t, cs.Choices, MinChoices)
					for _, c := range cs.Choices {
						assert.Empty(t, c.Text)
					}
					assert.Empty(t, cs.Answers)
					assert.False(t, cs.RandomPosition)
				default:
					assert.Equal(t, w, next.Body)
				}
			})
		}
	}
}

func TestReduce_SetTypeSameTypeIsNoop(t *testing.T) {
	q, ids := choiceQuestion(t, TypeSingleChoice, "a", "b")
	q = Reduce(q, ToggleAnswer{ChoiceID: "id-1"}, ids)

	next := Reduce(q, SetType{Type: TypeSingleChoice}, ids)
	assert.Equal(t, q, next)
}

func TestReduce_SetTypeUnknownIsNoop(t *testing.T) {
	q, ids := choiceQuestion(t, TypeSingleChoice, "a", "b")
	assert.Equal(t, q, Reduce(q, SetType{Type: "essay"}, ids))
}

func TestReduce_SetTypeToBlanksDerivesSlots(t *testing.T) {
	ids := ident.NewSequence("id")
	q := newQuestion(t, TypeIdentification, ids)
	q = Reduce(q, SetText{Text: "[1] and [2]"}, ids)

	next := Reduce(q, SetType{Type: TypeFillInTheBlanks}, ids)

	slots := next.Slots()
	require.Len(t, slots, 2)
	assert.Equal(t, "1", slots[0].Label)
	assert.Equal(t, "2", slots[1].Label)
	assert.Empty(t, slots[0].Value)

	// without placeholders the body is exactly the default one
	plain := Reduce(q, SetText{Text: "Name the capital"}, ids)
	next = Reduce(plain, SetType{Type: TypeFillInTheBlanks}, ids)
	assert.Equal(t, FillInTheBlanks{Answers: []AnswerSlot{}}, next.Body)
	assert.Equal(t, plain.Question, next.Question)
}

func TestReduce_SetPoints(t *testing.T) {
	ids := ident.NewSequence("id")
	for _, typ := range Types {
		q := newQuestion(t, typ, ids)
		next := Reduce(q, SetPoints{Points: 5}, ids)
		assert.Equal(t, 5, next.Points)
		assert.Equal(t, q.Body, next.Body)
	}
}

func TestReduce_ChoiceBounds(t *testing.T) {
	q, ids := choiceQuestion(t, TypeMultipleChoice, "a", "b")

	q = Reduce(q, AddChoice{Text: "c"}, ids)
	q = Reduce(q, AddChoice{Text: "d"}, ids)
	full := Reduce(q, AddChoice{Text: "e"}, ids)
	cs, _ := full.Choices()
	assert.Len(t, cs.Choices, MaxChoices)
	assert.Equal(t, q, full)

	two, ids := choiceQuestion(t, TypeSingleChoice, "a", "b")
	cs, _ = two.Choices()
	after := Reduce(two, DeleteChoice{ChoiceID: cs.Choices[0].ID}, ids)
	assert.Equal(t, two, after)
}

func TestReduce_DeleteChoiceRemovesAnswer(t *testing.T) {
	q, ids := choiceQuestion(t, TypeMultipleChoice, "a", "b", "c")
	cs, _ := q.Choices()
	q = Reduce(q, ToggleAnswer{ChoiceID: cs.Choices[0].ID}, ids)
	q = Reduce(q, ToggleAnswer{ChoiceID: cs.Choices[2].ID}, ids)

	next := Reduce(q, DeleteChoice{ChoiceID: cs.Choices[2].ID}, ids)

	ncs, _ := next.Choices()
	assert.Equal(t, []Choice{{ID: cs.Choices[0].ID, Text: "a"}, {ID: cs.Choices[1].ID, Text: "b"}}, ncs.Choices)
	assert.Equal(t, []string{cs.Choices[0].ID}, ncs.Answers)

	// the input value is left alone
	ocs, _ := q.Choices()
	assert.Len(t, ocs.Choices, 3)
	assert.Len(t, ocs.Answers, 2)
}

func TestReduce_DeleteMissingChoiceIsNoop(t *testing.T) {
	q, ids := choiceQuestion(t, TypeMultipleChoice, "a", "b", "c")
	assert.Equal(t, q, Reduce(q, DeleteChoice{ChoiceID: "nope"}, ids))
}

func TestReduce_SingleChoiceAnswerCardinality(t *testing.T) {
	q, ids := choiceQuestion(t, TypeSingleChoice, "a", "b", "c")
	cs, _ := q.Choices()

	q = Reduce(q, ToggleAnswer{ChoiceID: cs.Choices[0].ID}, ids)
	q = Reduce(q, ToggleAnswer{ChoiceID: cs.Choices[1].ID}, ids)
	got, _ := q.Choices()
	assert.Equal(t, []string{cs.Choices[1].ID}, got.Answers)

	rejected := Reduce(q, SetAnswers{Answers: []string{cs.Choices[0].ID, cs.Choices[1].ID}}, ids)
	assert.Equal(t, q, rejected)
}

func TestReduce_SetAnswersRejectsUnknownChoice(t *testing.T) {
	q, ids := choiceQuestion(t, TypeMultipleChoice, "a", "b")
	assert.Equal(t, q, Reduce(q, SetAnswers{Answers: []string{"ghost"}}, ids))
}

func TestReduce_ToggleAnswerKeepsChoiceOrder(t *testing.T) {
	q, ids := choiceQuestion(t, TypeMultipleChoice, "a", "b", "c")
	cs, _ := q.Choices()
	q = Reduce(q, ToggleAnswer{ChoiceID: cs.Choices[2].ID}, ids)
	q = Reduce(q, ToggleAnswer{ChoiceID: cs.Choices[0].ID}, ids)
	got, _ := q.Choices()
	assert.Equal(t, []string{cs.Choices[0].ID, cs.Choices[2].ID}, got.Answers)

	q = Reduce(q, ToggleAnswer{ChoiceID: cs.Choices[2].ID}, ids)
	got, _ = q.Choices()
	assert.Equal(t, []string{cs.Choices[0].ID}, got.Answers)
}

func TestReduce_SetChoices(t *testing.T) {
	q, ids := choiceQuestion(t, TypeMultipleChoice, "a", "b", "c")
	cs, _ := q.Choices()
	q = Reduce(q, ToggleAnswer{ChoiceID: cs.Choices[1].ID}, ids)
	q = Reduce(q, ToggleAnswer{ChoiceID: cs.Choices[2].ID}, ids)

	reordered := []Choice{cs.Choices[2], cs.Choices[0]}
	next := Reduce(q, SetChoices{Choices: reordered}, ids)
	got, _ := next.Choices()
	assert.Equal(t, reordered, got.Choices)
	assert.Equal(t, []string{cs.Choices[2].ID}, got.Answers)

	tooFew := Reduce(q, SetChoices{Choices: []Choice{cs.Choices[0]}}, ids)
	assert.Equal(t, q, tooFew)

	dup := Reduce(q, SetChoices{Choices: []Choice{cs.Choices[0], cs.Choices[0]}}, ids)
	assert.Equal(t, q, dup)
}

func TestReduce_StaleFieldActionsAreNoops(t *testing.T) {
	ids := ident.NewSequence("id")
	tf := newQuestion(t, TypeTrueOrFalse, ids)

	for _, a := range []Action{
		AddChoice{Text: "x"},
		DeleteChoice{ChoiceID: "id-1"},
		SetChoiceText{ChoiceID: "id-1", Text: "x"},
		SetAnswers{Answers: []string{"id-1"}},
		ToggleAnswer{ChoiceID: "id-1"},
		SetRandomPosition{RandomPosition: true},
		SetIdentification{Answer: "x"},
		SetBlankValue{SlotID: "id-1", Value: "x"},
	} {
		assert.Equal(t, tf, Reduce(tf, a, ids), a.ActionType())
	}

	idq := newQuestion(t, TypeIdentification, ids)
	assert.Equal(t, idq, Reduce(idq, SetTrueOrFalse{Answer: false}, ids))
}

func TestReduce_SetRandomPosition(t *testing.T) {
	q, ids := choiceQuestion(t, TypeSingleChoice, "a", "b")
	next := Reduce(q, SetRandomPosition{RandomPosition: true}, ids)
	cs, _ := next.Choices()
	assert.True(t, cs.RandomPosition)
	assert.Equal(t, TypeSingleChoice, next.Type())
}

func TestReduce_FillInTheBlanksEditKeepsValues(t *testing.T) {
	ids := ident.NewSequence("id")
	q := newQuestion(t, TypeFillInTheBlanks, ids)
	q = Reduce(q, SetText{Text: "[1] plus [2] equals [3]"}, ids)

	slots := q.Slots()
	require.Len(t, slots, 3)
	for i, v := range []string{"2", "3", "5"} {
		q = Reduce(q, SetBlankValue{SlotID: slots[i].ID, Value: v}, ids)
	}

	q = Reduce(q, SetText{Text: "[1] plus [3]"}, ids)

	got := q.Slots()
	require.Len(t, got, 2)
	assert.Equal(t, AnswerSlot{ID: slots[0].ID, Label: "1", Value: "2"}, got[0])
	assert.Equal(t, AnswerSlot{ID: slots[2].ID, Label: "3", Value: "5"}, got[1])
}

func TestReduce_SetBlankValueUnknownSlot(t *testing.T) {
	ids := ident.NewSequence("id")
	q := newQuestion(t, TypeFillInTheBlanks, ids)
	q = Reduce(q, SetText{Text: "[1]"}, ids)
	assert.Equal(t, q, Reduce(q, SetBlankValue{SlotID: "missing", Value: "x"}, ids))
}

func TestReduce_UnknownActionIsIdentity(t *testing.T) {
	q, ids := choiceQuestion(t, TypeSingleChoice, "a", "b")
	assert.Equal(t, q, Reduce(q, nil, ids))
}
