package document

// Move returns list with the element at from removed and reinserted at to.
// Elements strictly between the two positions shift by one and nothing else
// moves. Equal or out-of-range indices return list itself.
func Move[T any](list []T, from, to int) []T {
	if from == to || from < 0 || to < 0 || from >= len(list) || to >= len(list) {
		return list
	}

	rest := make([]T, 0, len(list)-1)
	rest = append(rest, list[:from]...)
	rest = append(rest, list[from+1:]...)

	out := make([]T, 0, len(list))
	out = append(out, rest[:to]...)
	out = append(out, list[from])
	out = append(out, rest[to:]...)
	return out
}

// MoveByID moves the element identified by activeID to the position currently
// held by overID, the way a drop target is resolved during a drag. Either id
// missing (e.g. deleted mid-gesture) leaves the list unchanged, which makes a
// preview move followed by the same move on drop safe.
func MoveByID[T any](list []T, id func(T) string, activeID, overID string) []T {
	from, to := -1, -1
	for i, v := range list {
		switch id(v) {
		case activeID:
			from = i
		case overID:
			to = i
		}
	}
	if from < 0 || to < 0 {
		return list
	}
	return Move(list, from, to)
}
