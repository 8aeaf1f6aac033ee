package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMove(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{name: "forward", from: 1, to: 3, want: []string{"a", "c", "d", "b", "e"}},
		{name: "backward", from: 3, to: 1, want: []string{"a", "d", "b", "c", "e"}},
		{name: "to front", from: 4, to: 0, want: []string{"e", "a", "b", "c", "d"}},
		{name: "to back", from: 0, to: 4, want: []string{"b", "c", "d", "e", "a"}},
		{name: "neighbours", from: 2, to: 3, want: []string{"a", "b", "d", "c", "e"}},
		{name: "same index", from: 2, to: 2, want: []string{"a", "b", "c", "d", "e"}},
		{name: "out of range", from: 7, to: 1, want: []string{"a", "b", "c", "d", "e"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := []string{"a", "b", "c", "d", "e"}
			got := Move(list, tt.from, tt.to)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []string{"a", "b", "c", "d", "e"}, list)
		})
	}
}

func TestMove_SameIndexReturnsSameSlice(t *testing.T) {
	list := []string{"a", "b", "c"}
	got := Move(list, 1, 1)
	assert.True(t, sameSlice(list, got))
}

func TestMoveByID(t *testing.T) {
	id := func(s string) string { return s }
	list := []string{"a", "b", "c", "d"}

	assert.Equal(t, []string{"b", "c", "a", "d"}, MoveByID(list, id, "a", "c"))
	assert.True(t, sameSlice(list, MoveByID(list, id, "a", "gone")))
	assert.True(t, sameSlice(list, MoveByID(list, id, "gone", "a")))
	assert.True(t, sameSlice(list, MoveByID(list, id, "b", "b")))
}

func TestMoveByID_PreviewThenDropIsStable(t *testing.T) {
	id := func(s string) string { return s }
	list := []string{"a", "b", "c", "d"}

	preview := MoveByID(list, id, "a", "c")
	dropped := MoveByID(preview, id, "a", "a")

	assert.Equal(t, []string{"b", "c", "a", "d"}, dropped)
}
