package model

// Profile is the genetic profile of one specimen, assembled from its
// allele calls. It is rebuilt on every matching run and never persisted.
type Profile struct {
	SpecimenID      string
	CaseID          string
	SpecimenComment string
	ReadingBy       string
	ReadingDateTime string

	// Loci lists the locus names of the specimen in grouped order.
	Loci []string
	// Alleles maps a locus name to its allele values in observation order.
	Alleles map[string][]string
}

// AllelesAt returns the allele values recorded at the given locus.
func (p *Profile) AllelesAt(locus string) ([]string, bool) {
	v, ok := p.Alleles[locus]
	return v, ok
}
