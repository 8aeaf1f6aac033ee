// Package document is the in-memory model of an assessment draft: pages of
// ordered content blocks, the pure transition function that edits it, and the
// numbering derived from document order.
package document

import (
	"time"

	"assessment_builder/internal/ident"
	"assessment_builder/internal/question"
)

type ContentType string

const (
	ContentQuestion ContentType = "question"
	ContentImage    ContentType = "image"
	ContentText     ContentType = "text"
)

type ImageRef struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// Content is one block of a page. Only the field matching Type is meaningful.
type Content struct {
	ID       string
	Type     ContentType
	Question question.Question
	Image    ImageRef
	Text     string
}

func NewQuestionContent(id string, q question.Question) Content {
	return Content{ID: id, Type: ContentQuestion, Question: q}
}

func NewImageContent(id string, img ImageRef) Content {
	return Content{ID: id, Type: ContentImage, Image: img}
}

func NewTextContent(id, text string) Content {
	return Content{ID: id, Type: ContentText, Text: text}
}

type Page struct {
	ID       string    `json:"id"`
	Title    *string   `json:"title"`
	Contents []Content `json:"contents"`
}

type DateRange struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

type Assessment struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Topic        string    `json:"topic"`
	Description  string    `json:"description"`
	Teacher      string    `json:"teacher"`
	Sections     []string  `json:"sections"`
	Pages        []Page    `json:"pages"`
	PassingScore int       `json:"passingScore"`
	AttemptLimit int       `json:"attemptLimit"`
	Date         DateRange `json:"date"`
	TimeLimit    int       `json:"timeLimit"` // minutes
}

// New returns a fresh draft with a single empty page.
func New(id string, ids ident.Generator) Assessment {
	return Assessment{
		ID:       id,
		Sections: []string{},
		Pages:    []Page{{ID: ids.NewID(), Contents: []Content{}}},
	}
}

func (a Assessment) Page(pageID string) (Page, bool) {
	for _, p := range a.Pages {
		if p.ID == pageID {
			return p, true
		}
	}
	return Page{}, false
}

func (p Page) Content(contentID string) (Content, bool) {
	for _, c := range p.Contents {
		if c.ID == contentID {
			return c, true
		}
	}
	return Content{}, false
}

func pageID(p Page) string       { return p.ID }
func contentID(c Content) string { return c.ID }
