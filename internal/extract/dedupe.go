package extract

// PurgeAmbiguous drops every value that occurs more than once, keeping the values that
// occur exactly once in their original order. A duplicate is treated as ambiguity, so
// no copy of it survives.
func PurgeAmbiguous[T comparable](items []T) []T {
	if len(items) == 0 {
		return nil
	}

	counts := make(map[T]int, len(items))
	for _, item := range items {
		counts[item]++
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if counts[item] == 1 {
			out = append(out, item)
		}
	}
	return out
}
