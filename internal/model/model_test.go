package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlleleCall_RowRoundTrip(t *testing.T) {
	c := AlleleCall{
		FileName:        "run1/a.xml",
		CaseID:          "C1",
		SpecimenID:      "S1",
		SpecimenComment: "swab",
		LocusName:       "TH01",
		ReadingBy:       "analyst",
		ReadingDateTime: "2024-01-01T00:00:00",
		AlleleValue:     "9.3",
	}

	row := c.Row()
	assert.Len(t, row, len(AlleleCallColumns))
	assert.Equal(t, c, AlleleCallFromRow(row))
}

func TestAlleleCallFromRow_Short(t *testing.T) {
	c := AlleleCallFromRow([]string{"f", "c", "s"})
	assert.Equal(t, "s", c.SpecimenID)
	assert.Empty(t, c.LocusName)
	assert.Empty(t, c.AlleleValue)
}

func TestAlleleCall_Comparable(t *testing.T) {
	a := AlleleCall{SpecimenID: "S1", AlleleValue: "6"}
	b := AlleleCall{SpecimenID: "S1", AlleleValue: "6"}
	seen := map[AlleleCall]bool{a: true}
	assert.True(t, seen[b])

	b.ReadingBy = "other"
	assert.False(t, seen[b])
}

func TestMatch_Row(t *testing.T) {
	m := Match{SpecimenID1: "A", SpecimenID2: "B", MatchScore: 0.75, LatestMatchTime: "t"}
	row := m.Row()
	assert.Len(t, row, len(MatchColumns))
	assert.Equal(t, "0.75", row[2])
	assert.Equal(t, "t", row[3])
}

func TestProfile_AllelesAt(t *testing.T) {
	p := &Profile{Loci: []string{"TH01"}, Alleles: map[string][]string{"TH01": {"6", "9.3"}}}

	v, ok := p.AllelesAt("TH01")
	assert.True(t, ok)
	assert.Equal(t, []string{"6", "9.3"}, v)

	_, ok = p.AllelesAt("FGA")
	assert.False(t, ok)
}

func TestSettings_WithScanned(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, DefaultSensitivity, s.Sensitivity)

	next := s.WithScanned("run2/b.xml", "run1/a.xml", "", "run2/b.xml")
	assert.Equal(t, []string{"run1/a.xml", "run2/b.xml"}, next.ScannedFiles)
	assert.Empty(t, s.ScannedFiles, "receiver is not modified")

	assert.True(t, next.Ledger()["run1/a.xml"])
	assert.False(t, next.Ledger()["run3/c.xml"])

	again := next.WithScanned("run1/a.xml")
	assert.Equal(t, next.ScannedFiles, again.ScannedFiles)
}

func TestSettings_WithSensitivity(t *testing.T) {
	s := DefaultSettings().WithScanned("x").WithSensitivity(0.5)
	assert.Equal(t, 0.5, s.Sensitivity)
	assert.Equal(t, []string{"x"}, s.ScannedFiles)
}
