package question

import (
	"strings"

	"golang.org/x/net/html"
)

// PlainText strips markup from the rich-text editor output and returns the text
// a reader would see. Entities are decoded; script and style bodies are dropped.
func PlainText(markup string) string {
	if !strings.ContainsAny(markup, "<&") {
		return markup
	}

	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(markup))
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or malformed input; either way keep what was read
			return sb.String()
		case html.StartTagToken:
			name, _ := z.TagName()
			if isRawTag(name) {
				skip++
			}
			if isBreakTag(name) {
				sb.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if isRawTag(name) && skip > 0 {
				skip--
			}
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			if isBreakTag(name) {
				sb.WriteByte(' ')
			}
		case html.TextToken:
			if skip == 0 {
				sb.Write(z.Text())
			}
		}
	}
}

func isRawTag(name []byte) bool {
	s := string(name)
	return s == "script" || s == "style"
}

func isBreakTag(name []byte) bool {
	return string(name) == "br"
}
