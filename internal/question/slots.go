package question

import (
	"regexp"

	"assessment_builder/internal/ident"
)

var blankLabelRE = regexp.MustCompile(`\[([1-9][0-9]*)\]`)

// Labels returns the distinct blank labels of a prompt in order of first
// appearance. The scan runs on the plain text, so markup splitting a
// placeholder ("[<b>1</b>]") still counts.
func Labels(markup string) []string {
	matches := blankLabelRE.FindAllStringSubmatch(PlainText(markup), -1)
	labels := make([]string, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		labels = append(labels, m[1])
	}
	return labels
}

// SyncAnswerSlots derives the slot list for markup from the previous one. A
// label that already had a slot keeps its id and value; a new label gets a fresh
// slot with an empty value; slots whose label is gone are dropped. When nothing
// changes the prior slice itself is returned.
func SyncAnswerSlots(markup string, prior []AnswerSlot, ids ident.Generator) []AnswerSlot {
	labels := Labels(markup)

	byLabel := make(map[string]AnswerSlot, len(prior))
	for _, s := range prior {
		if _, dup := byLabel[s.Label]; !dup {
			byLabel[s.Label] = s
		}
	}

	next := make([]AnswerSlot, 0, len(labels))
	for _, l := range labels {
		if s, ok := byLabel[l]; ok {
			next = append(next, s)
			continue
		}
		next = append(next, AnswerSlot{ID: ids.NewID(), Label: l})
	}

	if sameSlots(prior, next) {
		return prior
	}
	return next
}

func sameSlots(a, b []AnswerSlot) bool {
	if a == nil || len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
