package catalog

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// BestMatch returns the entry whose short name is the longest substring of
// candidate. Among equally long matches the earliest entry wins. Entries
// with an empty short name never match.
func (c *Catalog) BestMatch(candidate string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	if c.foldCase {
		candidate = strings.ToLower(candidate)
	}

	best, bestLen := -1, 0
	for i, e := range c.entries {
		short := e.ShortName
		if short == "" || len(short) <= bestLen {
			continue
		}
		if c.foldCase {
			short = strings.ToLower(short)
		}
		if strings.Contains(candidate, short) {
			best, bestLen = i, len(short)
		}
	}
	if best < 0 {
		return Entry{}, false
	}
	return c.entries[best], true
}

// Suggest returns up to n short names that look closest to candidate, for
// diagnostics when BestMatch finds nothing. Names whose letters appear in
// order inside candidate rank first; the rest follow by edit distance.
func (c *Catalog) Suggest(candidate string, n int) []string {
	if c.Len() == 0 || n <= 0 {
		return nil
	}

	type ranked struct {
		name     string
		inOrder  bool
		distance int
		index    int
	}
	folded := strings.ToLower(candidate)
	var rs []ranked
	for i, e := range c.entries {
		if e.ShortName == "" {
			continue
		}
		r := ranked{name: e.ShortName, index: i}
		if d := fuzzy.RankMatchFold(e.ShortName, candidate); d >= 0 {
			r.inOrder, r.distance = true, d
		} else {
			r.distance = fuzzy.LevenshteinDistance(strings.ToLower(e.ShortName), folded)
		}
		rs = append(rs, r)
	}
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].inOrder != rs[j].inOrder {
			return rs[i].inOrder
		}
		return rs[i].distance < rs[j].distance
	})

	out := make([]string, 0, min(n, len(rs)))
	for _, r := range rs[:min(n, len(rs))] {
		out = append(out, r.name)
	}
	return out
}
