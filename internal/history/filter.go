// ABOUTME: Fuzzy filtering of history entries by action name
// ABOUTME: Thin adapter from Entry slices to sahilm/fuzzy sources

package history

import "github.com/sahilm/fuzzy"

// Match is an entry that matched a filter pattern.
type Match struct {
	Entry
	// MatchedIndexes are byte offsets into Label() that matched.
	MatchedIndexes []int
	Score          int
}

type labels []Entry

func (l labels) String(i int) string { return l[i].Label() }
func (l labels) Len() int            { return len(l) }

// Filter returns the entries whose label fuzzy-matches pattern, best match
// first. An empty pattern keeps every entry in its original order.
func Filter(entries []Entry, pattern string) []Match {
	if pattern == "" {
		out := make([]Match, len(entries))
		for i, e := range entries {
			out[i] = Match{Entry: e}
		}
		return out
	}
	results := fuzzy.FindFrom(pattern, labels(entries))
	out := make([]Match, len(results))
	for i, r := range results {
		out[i] = Match{
			Entry:          entries[r.Index],
			MatchedIndexes: r.MatchedIndexes,
			Score:          r.Score,
		}
	}
	return out
}
