// Package profile groups flat allele calls into per-specimen genetic profiles.
package profile

import (
	"sort"

	"github.com/eitanfass/DNA-lab/internal/model"
)

type group struct {
	profile *model.Profile
	// first holds the first call seen for each locus.
	first map[string]model.AlleleCall
}

// Assemble groups calls by specimen and locus. Calls whose specimen is in
// exclude are dropped first. Profiles are ordered by specimen ID and loci by
// name; allele values keep the order in which they were observed.
//
// The descriptive fields of a profile (case, comment, reader, reading time)
// come from the first call of its alphabetically first locus, not from the
// first call seen for the specimen.
func Assemble(calls []model.AlleleCall, exclude map[string]bool) []model.Profile {
	byID := make(map[string]*group)
	var ids []string

	for _, c := range calls {
		if exclude[c.SpecimenID] {
			continue
		}
		g, ok := byID[c.SpecimenID]
		if !ok {
			g = &group{
				profile: &model.Profile{
					SpecimenID: c.SpecimenID,
					Alleles:    make(map[string][]string),
				},
				first: make(map[string]model.AlleleCall),
			}
			byID[c.SpecimenID] = g
			ids = append(ids, c.SpecimenID)
		}
		p := g.profile
		if _, seen := p.Alleles[c.LocusName]; !seen {
			p.Loci = append(p.Loci, c.LocusName)
			g.first[c.LocusName] = c
		}
		p.Alleles[c.LocusName] = append(p.Alleles[c.LocusName], c.AlleleValue)
	}

	sort.Strings(ids)
	out := make([]model.Profile, 0, len(ids))
	for _, id := range ids {
		g := byID[id]
		p := g.profile
		sort.Strings(p.Loci)
		lead := g.first[p.Loci[0]]
		p.CaseID = lead.CaseID
		p.SpecimenComment = lead.SpecimenComment
		p.ReadingBy = lead.ReadingBy
		p.ReadingDateTime = lead.ReadingDateTime
		out = append(out, *p)
	}
	return out
}
