package stats

import (
	"sort"

	"github.com/verte-zerg/typetrack/internal/model"
)

// TopCharsByTyped returns the n most typed characters, ties broken by
// character. Spaces are skipped.
func TopCharsByTyped(aggs []model.CharAggregate, n int) []string {
	if n <= 0 {
		return nil
	}
	sorted := make([]model.CharAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Char != " " && agg.Char != "" {
			sorted = append(sorted, agg)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Typed == sorted[j].Typed {
			return sorted[i].Char < sorted[j].Char
		}
		return sorted[i].Typed > sorted[j].Typed
	})
	out := make([]string, 0, min(n, len(sorted)))
	for _, agg := range sorted[:min(n, len(sorted))] {
		out = append(out, agg.Char)
	}
	return out
}
