package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"assessment_builder/internal/document"
	"assessment_builder/internal/question"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <draft.json>",
	Short: "Lint a draft file offline",
	Long:  "Decode a draft, report broken document structure and question validation errors, and print question numbering.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		doc, err := document.Decode(data)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		if n := lintDraft(cmd.OutOrStdout(), doc); n > 0 {
			return fmt.Errorf("%d problem(s) found", n)
		}
		return nil
	},
}

// lintDraft writes a report for doc and returns the number of problems.
func lintDraft(w io.Writer, doc document.Assessment) int {
	problems := 0

	if err := document.Check(doc); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Fprintf(w, "structure: %s\n", line)
			problems++
		}
	}

	numbers := document.Number(doc.Pages)
	for i, page := range doc.Pages {
		title := "(untitled)"
		if page.Title != nil && *page.Title != "" {
			title = *page.Title
		}
		fmt.Fprintf(w, "page %d %s: starts at question %d\n", i+1, title, numbers[i].Start)

		for _, c := range page.Contents {
			if c.Type != document.ContentQuestion {
				continue
			}
			n := numbers[i].Questions[c.ID]
			errs := question.Validate(c.Question)
			if errs.OK() {
				fmt.Fprintf(w, "  Q%d %s ok\n", n, c.Question.Type())
				continue
			}
			problems++
			fmt.Fprintf(w, "  Q%d %s: %s\n", n, c.Question.Type(), describe(errs))
		}
	}
	return problems
}

func describe(errs question.Errors) string {
	var parts []string
	if errs.Question != "" {
		parts = append(parts, errs.Question)
	}
	if errs.FillInTheBlankQuestion != "" {
		parts = append(parts, errs.FillInTheBlankQuestion)
	}
	if len(errs.Choices) > 0 {
		idx := make([]string, len(errs.Choices))
		for i, c := range errs.Choices {
			idx[i] = fmt.Sprint(c + 1)
		}
		parts = append(parts, "empty choice(s) "+strings.Join(idx, ", "))
	}
	if errs.Answer != "" {
		parts = append(parts, errs.Answer)
	}
	if errs.MultiChoiceAnswer != "" {
		parts = append(parts, errs.MultiChoiceAnswer)
	}
	return strings.Join(parts, "; ")
}
