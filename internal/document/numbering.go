package document

// StartingQuestionNumber returns the display number of the first question on
// page pageID: one more than the number of question blocks on the pages before
// it. It returns 0 when the page is not in pages.
func StartingQuestionNumber(pageID string, pages []Page) int {
	seen := 0
	for _, p := range pages {
		if p.ID == pageID {
			return seen + 1
		}
		seen += countQuestions(p)
	}
	return 0
}

func countQuestions(p Page) int {
	n := 0
	for _, c := range p.Contents {
		if c.Type == ContentQuestion {
			n++
		}
	}
	return n
}

// PageNumbers is the numbering of one page: where it starts and the number of
// each question block keyed by content id.
type PageNumbers struct {
	PageID    string         `json:"pageId"`
	Start     int            `json:"start"`
	Questions map[string]int `json:"questions"`
}

// Number computes display numbers for the whole document in one pass.
func Number(pages []Page) []PageNumbers {
	out := make([]PageNumbers, 0, len(pages))
	next := 1
	for _, p := range pages {
		pn := PageNumbers{PageID: p.ID, Start: next, Questions: make(map[string]int)}
		for _, c := range p.Contents {
			if c.Type == ContentQuestion {
				pn.Questions[c.ID] = next
				next++
			}
		}
		out = append(out, pn)
	}
	return out
}
