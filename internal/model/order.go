package model

// Order helpers shared by the server-side board config and the client-side
// drag engine. None of them mutate their input.

// Clone returns a copy of s backed by its own array. The copy is never nil,
// so an empty input yields an empty, non-nil slice.
func Clone[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// Move returns a copy of s with the element at from relocated so that it ends
// up at index to. Indices are clamped into range.
func Move[T any](s []T, from, to int) []T {
	out := Clone(s)
	if len(out) == 0 || from < 0 || from >= len(out) {
		return out
	}
	to = clamp(to, 0, len(out)-1)
	if from == to {
		return out
	}
	item := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]T{item}, out[to:]...)...)
	return out
}

// InsertAt returns a copy of s with v inserted at index at. A negative or
// out-of-range index appends.
func InsertAt[T any](s []T, v T, at int) []T {
	out := make([]T, 0, len(s)+1)
	if at < 0 || at >= len(s) {
		out = append(out, s...)
		return append(out, v)
	}
	out = append(out, s[:at]...)
	out = append(out, v)
	return append(out, s[at:]...)
}

// RemoveAt returns a copy of s without the element at index at. An
// out-of-range index returns an unchanged copy.
func RemoveAt[T any](s []T, at int) []T {
	if at < 0 || at >= len(s) {
		return Clone(s)
	}
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:at]...)
	return append(out, s[at+1:]...)
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
