package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"assessment_builder/internal/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lintDraftJSON = `{
  "id": "d1",
  "title": "Quiz",
  "pages": [
    {"id": "p1", "title": "Warm-up", "contents": [
      {"id": "c1", "type": "question", "data": {"id": "q1", "type": "true_or_false", "question": "Ice is cold", "points": 1, "answers": true}},
      {"id": "c2", "type": "question", "data": {"id": "q2", "type": "single_choice", "question": "",
        "points": 1, "choices": [{"id": "a", "text": "Yes"}, {"id": "b", "text": ""}], "answers": [], "randomPosition": false}}
    ]},
    {"id": "p2", "title": null, "contents": [
      {"id": "c1", "type": "question", "data": {"id": "q3", "type": "fill_in_the_blanks", "question": "[1] + [1] = [2]",
        "points": 2, "answers": [{"id": "s1", "label": "1", "value": "1"}, {"id": "s2", "label": "2", "value": "2"}]}}
    ]}
  ]
}`

func TestLintDraft(t *testing.T) {
	doc, err := document.Decode([]byte(lintDraftJSON))
	require.NoError(t, err)

	var out bytes.Buffer
	problems := lintDraft(&out, doc)
	assert.Equal(t, 1, problems)

	report := out.String()
	assert.Contains(t, report, "page 1 Warm-up: starts at question 1")
	assert.Contains(t, report, "Q1 true_or_false ok")
	assert.Contains(t, report, "Q2 single_choice: Question is required; empty choice(s) 2; Select the correct answer")
	assert.Contains(t, report, "page 2 (untitled): starts at question 3")
	assert.Contains(t, report, "Q3 fill_in_the_blanks ok")
}

func TestLintDraftStructure(t *testing.T) {
	doc := document.Assessment{ID: "d"}
	var out bytes.Buffer
	assert.Equal(t, 1, lintDraft(&out, doc))
	assert.Contains(t, out.String(), "structure: document has no pages")
}

func TestCheckCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.json")
	require.NoError(t, os.WriteFile(path, []byte(lintDraftJSON), 0o644))

	var out bytes.Buffer
	checkCmd.SetOut(&out)
	err := checkCmd.RunE(checkCmd, []string{path})
	assert.EqualError(t, err, "1 problem(s) found")
	assert.Contains(t, out.String(), "Q2 single_choice")
}
