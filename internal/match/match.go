// Package match scores every pair of genetic profiles and keeps the pairs
// whose share of identical loci reaches the sensitivity threshold.
package match

import (
	"slices"
	"sort"

	"go.uber.org/zap"

	"github.com/eitanfass/DNA-lab/internal/model"
	"github.com/eitanfass/DNA-lab/internal/profile"
)

// Result is the outcome of one matching pass.
type Result struct {
	// New holds the matches found in this pass, in comparison order.
	New []model.Match
	// All holds prior and new matches sorted by LatestMatchTime.
	All []model.Match
	// Profiles is the number of profiles compared.
	Profiles int
	// Excluded is the number of specimens skipped because they already appear in a match.
	Excluded int
}

// Run excludes every specimen that already appears in prior, assembles the
// remaining profiles, compares each pair once and combines the new matches
// with prior.
//
// A specimen that appears in any stored match is never compared again, not
// even against specimens it was never compared with. This keeps reruns
// idempotent at the cost of never linking a specimen to a second partner.
func Run(calls []model.AlleleCall, sensitivity float64, prior []model.Match) Result {
	existing := ExistingIDs(prior)
	profiles := profile.Assemble(calls, existing)
	fresh := Find(profiles, sensitivity)

	excluded := 0
	seen := make(map[string]bool)
	for _, c := range calls {
		if existing[c.SpecimenID] && !seen[c.SpecimenID] {
			seen[c.SpecimenID] = true
			excluded++
		}
	}

	zap.L().Debug("match: pass complete",
		zap.Int("profiles", len(profiles)),
		zap.Int("excluded_specimens", excluded),
		zap.Int("new_matches", len(fresh)),
		zap.Float64("sensitivity", sensitivity),
	)

	return Result{
		New:      fresh,
		All:      Combine(prior, fresh),
		Profiles: len(profiles),
		Excluded: excluded,
	}
}

// ExistingIDs returns every specimen ID on either side of a stored match.
func ExistingIDs(matches []model.Match) map[string]bool {
	ids := make(map[string]bool, 2*len(matches))
	for _, m := range matches {
		ids[m.SpecimenID1] = true
		ids[m.SpecimenID2] = true
	}
	return ids
}

// Find compares every pair (i, j) with i < j once and returns the pairs
// scoring at least sensitivity. The boundary is inclusive. A pair without a
// shared locus is never a match, even at sensitivity 0.
func Find(profiles []model.Profile, sensitivity float64) []model.Match {
	var out []model.Match
	for i := range profiles {
		for j := i + 1; j < len(profiles); j++ {
			a, b := &profiles[i], &profiles[j]
			if !sharesLocus(a, b) {
				continue
			}
			score := Score(a, b)
			if score < sensitivity {
				continue
			}
			out = append(out, model.Match{
				SpecimenID1:      a.SpecimenID,
				SpecimenID2:      b.SpecimenID,
				MatchScore:       score,
				LatestMatchTime:  LatestTime(a.ReadingDateTime, b.ReadingDateTime),
				CaseID1:          a.CaseID,
				CaseID2:          b.CaseID,
				SpecimenComment1: a.SpecimenComment,
				SpecimenComment2: b.SpecimenComment,
				ReadingBy1:       a.ReadingBy,
				ReadingBy2:       b.ReadingBy,
			})
		}
	}
	return out
}

// Score is the number of shared loci whose allele lists are identical
// (same values in the same order), divided by the locus count of a.
// The denominator uses a only, so Score(a, b) and Score(b, a) can differ.
// A profile without loci scores 0, and so does a pair without shared loci.
func Score(a, b *model.Profile) float64 {
	total := len(a.Loci)
	if total == 0 {
		return 0
	}

	identical := 0
	for _, locus := range a.Loci {
		av := a.Alleles[locus]
		bv, ok := b.AllelesAt(locus)
		if ok && slices.Equal(av, bv) {
			identical++
		}
	}
	return float64(identical) / float64(total)
}

func sharesLocus(a, b *model.Profile) bool {
	for _, locus := range a.Loci {
		if _, ok := b.AllelesAt(locus); ok {
			return true
		}
	}
	return false
}

// Combine appends fresh to prior and sorts the result ascending by
// LatestMatchTime. Matches with equal times keep their relative order.
func Combine(prior, fresh []model.Match) []model.Match {
	all := make([]model.Match, 0, len(prior)+len(fresh))
	all = append(all, prior...)
	all = append(all, fresh...)
	sort.SliceStable(all, func(i, j int) bool {
		return CompareTimes(all[i].LatestMatchTime, all[j].LatestMatchTime) < 0
	})
	return all
}
