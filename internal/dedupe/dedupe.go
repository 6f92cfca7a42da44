// Package dedupe collapses exact-duplicate allele calls.
package dedupe

import (
	"github.com/eitanfass/DNA-lab/internal/model"
)

// Merge appends fresh to prior and removes exact duplicates (every field
// equal). The last occurrence of a duplicate is kept, so survivors appear in
// the order of their final appearance. It returns the merged set and the
// number of calls removed.
func Merge(prior, fresh []model.AlleleCall) ([]model.AlleleCall, int) {
	all := make([]model.AlleleCall, 0, len(prior)+len(fresh))
	all = append(all, prior...)
	all = append(all, fresh...)
	return Unique(all)
}

// Unique removes exact duplicates from calls, keeping the last occurrence.
// It is idempotent.
func Unique(calls []model.AlleleCall) ([]model.AlleleCall, int) {
	last := make(map[model.AlleleCall]int, len(calls))
	for i, c := range calls {
		last[c] = i
	}

	out := make([]model.AlleleCall, 0, len(last))
	for i, c := range calls {
		if last[c] == i {
			out = append(out, c)
		}
	}
	return out, len(calls) - len(out)
}
