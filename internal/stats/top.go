// Package stats contains calculation history metrics and reporting.
package stats

import (
	"sort"

	"github.com/DavidDAndrews/ErastSieve/internal/model"
)

// TopBoundsByFrequency returns the n most frequently calculated bounds.
func TopBoundsByFrequency(calcs []model.Calculation, n int) []int {
	if n <= 0 || len(calcs) == 0 {
		return nil
	}
	counts := map[int]int{}
	for _, c := range calcs {
		counts[c.Bound]++
	}
	type item struct {
		bound int
		total int
	}
	items := make([]item, 0, len(counts))
	for bound, total := range counts {
		items = append(items, item{bound: bound, total: total})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].total == items[j].total {
			return items[i].bound < items[j].bound
		}
		return items[i].total > items[j].total
	})
	n = min(n, len(items))
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, items[i].bound)
	}
	return out
}
