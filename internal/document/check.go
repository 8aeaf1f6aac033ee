package document

import (
	"errors"
	"fmt"

	"assessment_builder/internal/question"
)

var ErrNoPages = errors.New("document has no pages")

// Check reports every invariant a loaded document violates. Documents built
// only through Reduce always pass.
func Check(doc Assessment) error {
	var errs []error
	if len(doc.Pages) == 0 {
		errs = append(errs, ErrNoPages)
	}

	pages := make(map[string]bool, len(doc.Pages))
	for i, p := range doc.Pages {
		switch {
		case p.ID == "":
			errs = append(errs, fmt.Errorf("page %d: missing id", i))
		case pages[p.ID]:
			errs = append(errs, fmt.Errorf("page %s: duplicate id", p.ID))
		}
		pages[p.ID] = true

		contents := make(map[string]bool, len(p.Contents))
		for j, c := range p.Contents {
			if c.ID == "" {
				errs = append(errs, fmt.Errorf("page %s content %d: missing id", p.ID, j))
			} else if contents[c.ID] {
				errs = append(errs, fmt.Errorf("page %s content %s: duplicate id", p.ID, c.ID))
			}
			contents[c.ID] = true

			switch c.Type {
			case ContentQuestion:
				if !question.WellFormed(c.Question) {
					errs = append(errs, fmt.Errorf("page %s content %s: malformed %s question", p.ID, c.ID, c.Question.Type()))
				}
			case ContentImage:
				if c.Image.URL == "" {
					errs = append(errs, fmt.Errorf("page %s content %s: image without url", p.ID, c.ID))
				}
			case ContentText:
			default:
				errs = append(errs, fmt.Errorf("page %s content %s: %w", p.ID, c.ID, ErrUnknownContentType))
			}
		}
	}
	return errors.Join(errs...)
}
