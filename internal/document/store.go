package document

import (
	"assessment_builder/internal/ident"
	"assessment_builder/internal/question"
)

// Reduce applies a to doc. It never mutates doc and never fails: an action that
// would break an invariant (deleting the last page, duplicating an id, naming a
// page or content that no longer exists) returns doc unchanged, as does an
// action it does not know.
func Reduce(doc Assessment, a Action) Assessment {
	switch act := a.(type) {
	case SetTitle:
		doc.Title = act.Title
	case SetTopic:
		doc.Topic = act.Topic
	case SetDescription:
		doc.Description = act.Description
	case SetTeacher:
		doc.Teacher = act.Teacher
	case SetSections:
		doc.Sections = append([]string{}, act.Sections...)
	case SetPassingScore:
		doc.PassingScore = act.PassingScore
	case SetAttemptLimit:
		doc.AttemptLimit = act.AttemptLimit
	case SetTimeLimit:
		doc.TimeLimit = act.TimeLimit
	case SetDate:
		doc.Date = DateRange{Start: act.Start, End: act.End}
	case AddPage:
		if act.PageID == "" || indexOf(doc.Pages, act.PageID, pageID) >= 0 {
			return doc
		}
		pages := make([]Page, 0, len(doc.Pages)+1)
		pages = append(pages, doc.Pages...)
		doc.Pages = append(pages, Page{ID: act.PageID, Title: act.Title, Contents: []Content{}})
	case DeletePage:
		idx := indexOf(doc.Pages, act.PageID, pageID)
		if idx < 0 || len(doc.Pages) <= 1 {
			return doc
		}
		pages := make([]Page, 0, len(doc.Pages)-1)
		pages = append(pages, doc.Pages[:idx]...)
		doc.Pages = append(pages, doc.Pages[idx+1:]...)
	case SetPages:
		if !validPages(act.Pages) {
			return doc
		}
		doc.Pages = append([]Page(nil), act.Pages...)
	case MovePage:
		doc.Pages = MoveByID(doc.Pages, pageID, act.ActiveID, act.OverID)
	case SetPageTitle:
		idx := indexOf(doc.Pages, act.PageID, pageID)
		if idx < 0 {
			return doc
		}
		pages := append([]Page(nil), doc.Pages...)
		pages[idx].Title = act.Title
		doc.Pages = pages
	case SetPageContents:
		if !validContents(act.Contents) {
			return doc
		}
		doc.Pages = UpdatePageContents(doc.Pages, act.PageID, func([]Content) []Content {
			return append([]Content{}, act.Contents...)
		})
	case AddContent:
		doc.Pages = UpdatePageContents(doc.Pages, act.PageID, func(cs []Content) []Content {
			if !wellFormed(act.Content) || indexOf(cs, act.Content.ID, contentID) >= 0 {
				return cs
			}
			out := make([]Content, 0, len(cs)+1)
			out = append(out, cs...)
			return append(out, act.Content)
		})
	case UpdateContent:
		doc.Pages = UpdatePageContents(doc.Pages, act.PageID, func(cs []Content) []Content {
			idx := indexOf(cs, act.Content.ID, contentID)
			if idx < 0 || !wellFormed(act.Content) {
				return cs
			}
			out := append([]Content(nil), cs...)
			out[idx] = act.Content
			return out
		})
	case DeleteContent:
		doc.Pages = UpdatePageContents(doc.Pages, act.PageID, func(cs []Content) []Content {
			idx := indexOf(cs, act.ContentID, contentID)
			if idx < 0 {
				return cs
			}
			out := make([]Content, 0, len(cs)-1)
			out = append(out, cs[:idx]...)
			return append(out, cs[idx+1:]...)
		})
	case MoveContent:
		doc.Pages = UpdatePageContents(doc.Pages, act.PageID, func(cs []Content) []Content {
			return MoveByID(cs, contentID, act.ActiveID, act.OverID)
		})
	}
	return doc
}

// Prepare assigns generated ids to an AddPage or AddContent that arrived
// without them. Other actions are returned as is.
func Prepare(a Action, ids ident.Generator) Action {
	switch act := a.(type) {
	case AddPage:
		if act.PageID == "" {
			act.PageID = ids.NewID()
		}
		return act
	case AddContent:
		if act.Content.ID == "" {
			act.Content.ID = ids.NewID()
		}
		if act.Content.Type == ContentQuestion && act.Content.Question.ID == "" {
			act.Content.Question.ID = ids.NewID()
		}
		return act
	}
	return a
}

func wellFormed(c Content) bool {
	if c.ID == "" {
		return false
	}
	switch c.Type {
	case ContentQuestion:
		return question.WellFormed(c.Question)
	case ContentImage:
		return c.Image.URL != ""
	case ContentText:
		return true
	}
	return false
}

func validContents(cs []Content) bool {
	seen := make(map[string]bool, len(cs))
	for _, c := range cs {
		if !wellFormed(c) || seen[c.ID] {
			return false
		}
		seen[c.ID] = true
	}
	return true
}

func validPages(pages []Page) bool {
	if len(pages) == 0 {
		return false
	}
	seen := make(map[string]bool, len(pages))
	for _, p := range pages {
		if p.ID == "" || seen[p.ID] || !validContents(p.Contents) {
			return false
		}
		seen[p.ID] = true
	}
	return true
}
