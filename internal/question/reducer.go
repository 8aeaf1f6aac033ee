package question

import "assessment_builder/internal/ident"

// Reduce applies a to q and returns the next question. It never mutates q.
// Actions that do not fit the current type, reference a missing choice or slot,
// or would break the 2..4 choice bound return q unchanged. ids supplies ids for
// new choices and answer slots.
func Reduce(q Question, a Action, ids ident.Generator) Question {
	switch act := a.(type) {
	case SetType:
		return setType(q, act.Type, ids)
	case SetPoints:
		q.Points = act.Points
		return q
	case SetText:
		return setText(q, act.Text, ids)
	case SetChoices:
		return setChoices(q, act.Choices)
	case AddChoice:
		return addChoice(q, act.Text, ids)
	case DeleteChoice:
		return deleteChoice(q, act.ChoiceID)
	case SetChoiceText:
		return setChoiceText(q, act.ChoiceID, act.Text)
	case SetAnswers:
		return setAnswers(q, act.Answers)
	case ToggleAnswer:
		return toggleAnswer(q, act.ChoiceID)
	case SetRandomPosition:
		cs, ok := choiceSetOf(q.Body)
		if !ok || cs.RandomPosition == act.RandomPosition {
			return q
		}
		cs.RandomPosition = act.RandomPosition
		q.Body = withChoiceSet(q.Body, cs)
		return q
	case SetTrueOrFalse:
		if _, ok := q.Body.(TrueOrFalse); ok {
			q.Body = TrueOrFalse{Answer: act.Answer}
		}
		return q
	case SetIdentification:
		if _, ok := q.Body.(Identification); ok {
			q.Body = Identification{Answer: act.Answer}
		}
		return q
	case SetBlankValue:
		return setBlankValue(q, act.SlotID, act.Value)
	}
	return q
}

// setType swaps the body for the default of t, keeping id, prompt and points.
// The one departure from the default shape is fill-in-the-blanks: its slots are
// derived from the kept prompt at once, so a prompt that already holds [n]
// placeholders never sits next to an empty slot list.
func setType(q Question, t Type, ids ident.Generator) Question {
	if q.Type() == t {
		return q
	}
	body, ok := DefaultBody(t, ids)
	if !ok {
		return q
	}
	q.Body = body
	if t == TypeFillInTheBlanks {
		q.Body = FillInTheBlanks{Answers: SyncAnswerSlots(q.Question, []AnswerSlot{}, ids)}
	}
	return q
}

func setText(q Question, text string, ids ident.Generator) Question {
	q.Question = text
	if b, ok := q.Body.(FillInTheBlanks); ok {
		q.Body = FillInTheBlanks{Answers: SyncAnswerSlots(text, b.Answers, ids)}
	}
	return q
}

func setChoices(q Question, choices []Choice) Question {
	cs, ok := choiceSetOf(q.Body)
	if !ok {
		return q
	}
	next := ChoiceSet{
		Choices:        append([]Choice(nil), choices...),
		RandomPosition: cs.RandomPosition,
	}
	next.Answers = keepAnswers(cs.Answers, next)
	if !wellFormedChoices(next) {
		return q
	}
	q.Body = withChoiceSet(q.Body, next)
	return q
}

func addChoice(q Question, text string, ids ident.Generator) Question {
	cs, ok := choiceSetOf(q.Body)
	if !ok || len(cs.Choices) >= MaxChoices {
		return q
	}
	choices := make([]Choice, 0, len(cs.Choices)+1)
	choices = append(choices, cs.Choices...)
	choices = append(choices, Choice{ID: ids.NewID(), Text: text})
	cs.Choices = choices
	q.Body = withChoiceSet(q.Body, cs)
	return q
}

func deleteChoice(q Question, choiceID string) Question {
	cs, ok := choiceSetOf(q.Body)
	if !ok || len(cs.Choices) <= MinChoices {
		return q
	}
	idx := cs.indexOf(choiceID)
	if idx < 0 {
		return q
	}
	choices := make([]Choice, 0, len(cs.Choices)-1)
	choices = append(choices, cs.Choices[:idx]...)
	choices = append(choices, cs.Choices[idx+1:]...)
	next := ChoiceSet{Choices: choices, RandomPosition: cs.RandomPosition}
	next.Answers = keepAnswers(cs.Answers, next)
	q.Body = withChoiceSet(q.Body, next)
	return q
}

func setChoiceText(q Question, choiceID, text string) Question {
	cs, ok := choiceSetOf(q.Body)
	if !ok {
		return q
	}
	idx := cs.indexOf(choiceID)
	if idx < 0 || cs.Choices[idx].Text == text {
		return q
	}
	choices := append([]Choice(nil), cs.Choices...)
	choices[idx].Text = text
	cs.Choices = choices
	q.Body = withChoiceSet(q.Body, cs)
	return q
}

func setAnswers(q Question, answers []string) Question {
	cs, ok := choiceSetOf(q.Body)
	if !ok {
		return q
	}
	if q.Type() == TypeSingleChoice && len(answers) > 1 {
		return q
	}
	next := cs
	next.Answers = append([]string{}, answers...)
	if !wellFormedChoices(next) {
		return q
	}
	q.Body = withChoiceSet(q.Body, next)
	return q
}

// toggleAnswer selects choiceID on a single choice question (radio semantics)
// and flips its selection on a multiple choice one.
func toggleAnswer(q Question, choiceID string) Question {
	cs, ok := choiceSetOf(q.Body)
	if !ok || cs.indexOf(choiceID) < 0 {
		return q
	}
	switch q.Body.(type) {
	case SingleChoice:
		if len(cs.Answers) == 1 && cs.Answers[0] == choiceID {
			return q
		}
		cs.Answers = []string{choiceID}
	case MultipleChoice:
		if cs.selected(choiceID) {
			answers := make([]string, 0, len(cs.Answers))
			for _, id := range cs.Answers {
				if id != choiceID {
					answers = append(answers, id)
				}
			}
			cs.Answers = answers
		} else {
			// keep answers in choice order
			answers := make([]string, 0, len(cs.Answers)+1)
			for _, c := range cs.Choices {
				if c.ID == choiceID || cs.selected(c.ID) {
					answers = append(answers, c.ID)
				}
			}
			cs.Answers = answers
		}
	}
	q.Body = withChoiceSet(q.Body, cs)
	return q
}

func setBlankValue(q Question, slotID, value string) Question {
	b, ok := q.Body.(FillInTheBlanks)
	if !ok {
		return q
	}
	for i, s := range b.Answers {
		if s.ID != slotID {
			continue
		}
		if s.Value == value {
			return q
		}
		slots := append([]AnswerSlot(nil), b.Answers...)
		slots[i].Value = value
		q.Body = FillInTheBlanks{Answers: slots}
		return q
	}
	return q
}

// keepAnswers drops answers that no longer name a choice of cs.
func keepAnswers(answers []string, cs ChoiceSet) []string {
	kept := make([]string, 0, len(answers))
	for _, id := range answers {
		if cs.indexOf(id) >= 0 {
			kept = append(kept, id)
		}
	}
	return kept
}
