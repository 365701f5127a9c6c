package stats

import (
	"sort"

	"github.com/verte-zerg/codetype/internal/model"
)

// SelectWeakChars ranks expected characters by how often they were mistyped, regardless of
// what was typed instead. At most top characters are returned; top <= 0 returns all.
func SelectWeakChars(errs []model.ErrorAggregate, top int) []string {
	totals := map[string]int{}
	for _, e := range errs {
		totals[e.Expected] += e.Count
	}
	chars := make([]string, 0, len(totals))
	for ch := range totals {
		chars = append(chars, ch)
	}
	sort.Slice(chars, func(i, j int) bool {
		if totals[chars[i]] == totals[chars[j]] {
			return chars[i] < chars[j]
		}
		return totals[chars[i]] > totals[chars[j]]
	})
	if top > 0 && top < len(chars) {
		chars = chars[:top]
	}
	return chars
}
