package document

// UpdatePageContents returns pages with fn applied to the contents of the page
// target. Every other page is carried over as is, sharing its content slice.
// If the page does not exist, or fn hands back the very same slice, pages
// itself is returned.
func UpdatePageContents(pages []Page, target string, fn func([]Content) []Content) []Page {
	idx := indexOf(pages, target, pageID)
	if idx < 0 {
		return pages
	}

	contents := fn(pages[idx].Contents)
	if sameSlice(contents, pages[idx].Contents) {
		return pages
	}

	out := make([]Page, len(pages))
	copy(out, pages)
	out[idx].Contents = contents
	return out
}

func indexOf[T any](list []T, id string, idOf func(T) string) int {
	for i, v := range list {
		if idOf(v) == id {
			return i
		}
	}
	return -1
}

func sameSlice[T any](a, b []T) bool {
	if len(a) != len(b) || cap(a) != cap(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}
