package document

import (
	"encoding/json"
	"testing"

	"assessment_builder/internal/question"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const draftJSON = `{
  "id": "d1",
  "title": "Week 1",
  "topic": "Science",
  "description": "",
  "teacher": "t1",
  "pages": [
    {"id": "p1", "title": null, "contents": [
      {"id": "c1", "type": "text", "data": "<p>Read carefully</p>"},
      {"id": "c2", "type": "image", "data": {"url": "/uploads/x.png", "publicId": "x"}},
      {"id": "c3", "type": "question", "data": {"id": "q1", "type": "true_or_false", "question": "Water boils at 100C", "points": 1, "answers": true}}
    ]},
    {"id": "p2", "title": "Part 2"}
  ],
  "passingScore": 60,
  "attemptLimit": 2,
  "date": {"start": null, "end": null},
  "timeLimit": 30
}`

func TestDecode(t *testing.T) {
	doc, err := Decode([]byte(draftJSON))
	require.NoError(t, err)
	require.NoError(t, Check(doc))

	require.Len(t, doc.Pages, 2)
	assert.Equal(t, []string{}, doc.Sections)
	assert.Equal(t, []Content{}, doc.Pages[1].Contents)

	cs := doc.Pages[0].Contents
	assert.Equal(t, NewTextContent("c1", "<p>Read carefully</p>"), cs[0])
	assert.Equal(t, ImageRef{URL: "/uploads/x.png", PublicID: "x"}, cs[1].Image)
	assert.Equal(t, question.TrueOrFalse{Answer: true}, cs[2].Question.Body)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	again, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, doc, again)
}

func TestDecode_UnknownContentType(t *testing.T) {
	_, err := Decode([]byte(`{"id":"d","pages":[{"id":"p","contents":[{"id":"c","type":"video","data":{}}]}]}`))
	assert.ErrorIs(t, err, ErrUnknownContentType)
}

func TestDecodeAction(t *testing.T) {
	a, err := DecodeAction(Envelope{
		Type:    ActionAddContent,
		Payload: json.RawMessage(`{"pageId":"p1","content":{"type":"text","data":"hello"}}`),
	})
	require.NoError(t, err)
	assert.Equal(t, AddContent{PageID: "p1", Content: Content{Type: ContentText, Text: "hello"}}, a)

	_, err = DecodeAction(Envelope{Type: "NOPE"})
	assert.ErrorIs(t, err, ErrUnknownAction)
}
