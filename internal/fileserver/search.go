package fileserver

import (
	"cmp"
	"slices"
	"strings"
)

// SearchLimit is the maximum number of results a search returns.
const SearchLimit = 10

// rank orders items by size descending, then name descending, and keeps at
// most SearchLimit of them. The input slice is sorted in place.
func rank[T any](items []T, entry func(T) Entry) []T {
	slices.SortFunc(items, func(a, b T) int {
		ea, eb := entry(a), entry(b)
		if c := cmp.Compare(eb.Size, ea.Size); c != 0 {
			return c
		}
		return strings.Compare(eb.Name, ea.Name)
	})
	if len(items) > SearchLimit {
		items = items[:SearchLimit]
	}
	return items
}
