package search

import (
	"slices"
	"strings"

	"github.com/poiesic/wayfind/core"
)

// substring returns the items whose normalized name contains query. An empty
// query matches everything.
func substring(items []core.Item, query string) []core.Item {
	out := make([]core.Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(item.Normalized, query) {
			out = append(out, item)
		}
	}
	return out
}

// prefix returns the items of kind whose normalized name starts with query.
func prefix(items []core.Item, kind core.Kind, query string) []core.Item {
	var out []core.Item
	for _, item := range items {
		if item.Kind == kind && strings.HasPrefix(item.Normalized, query) {
			out = append(out, item)
		}
	}
	return out
}

// byRecency stably moves items found in history to the front, most recent
// first. Items without history keep their relative order after them.
func byRecency(items []core.Item, history []string) {
	if len(history) == 0 {
		return
	}
	rank := make(map[string]int, len(history))
	for i, name := range history {
		if _, ok := rank[name]; !ok {
			rank[name] = i
		}
	}
	slices.SortStableFunc(items, func(a, b core.Item) int {
		ra, ok := rank[a.Name]
		if !ok {
			ra = len(history)
		}
		rb, ok := rank[b.Name]
		if !ok {
			rb = len(history)
		}
		return ra - rb
	})
}

// pickBest returns the index of the best match among candidates.
//
// A single prefix match wins outright. Among several prefix matches, the
// most recently launched one whose name starts with the query wins.
// Otherwise the first candidate in natural order wins, prefix match or not.
func pickBest(candidates []core.Item, query string, history []string) int {
	var matches []int
	for i, item := range candidates {
		if strings.HasPrefix(item.Normalized, query) {
			matches = append(matches, i)
		}
	}

	switch len(matches) {
	case 0:
		return 0
	case 1:
		return matches[0]
	}

	for _, name := range history {
		if !strings.HasPrefix(core.Normalize(name), query) {
			continue
		}
		for _, i := range matches {
			if candidates[i].Name == name {
				return i
			}
		}
	}
	return 0
}
