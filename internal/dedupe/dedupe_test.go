package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eitanfass/DNA-lab/internal/model"
)

func call(specimen, locus, allele string) model.AlleleCall {
	return model.AlleleCall{
		FileName:        "run/a.xml",
		CaseID:          "C1",
		SpecimenID:      specimen,
		LocusName:       locus,
		ReadingBy:       "N/A",
		ReadingDateTime: "2024-01-01T00:00:00",
		AlleleValue:     allele,
	}
}

func TestMerge_RemovesExactDuplicates(t *testing.T) {
	prior := []model.AlleleCall{call("S1", "TH01", "6"), call("S1", "TH01", "7")}
	fresh := []model.AlleleCall{call("S1", "TH01", "6"), call("S2", "TH01", "6")}

	got, removed := Merge(prior, fresh)

	assert.Equal(t, 1, removed)
	// The duplicate survives at the position of its last occurrence.
	assert.Equal(t, []model.AlleleCall{
		call("S1", "TH01", "7"),
		call("S1", "TH01", "6"),
		call("S2", "TH01", "6"),
	}, got)
}

func TestMerge_AnyFieldDifferenceIsNotADuplicate(t *testing.T) {
	a := call("S1", "TH01", "6")
	b := a
	b.FileName = "run/b.xml"

	got, removed := Merge([]model.AlleleCall{a}, []model.AlleleCall{b})
	assert.Equal(t, 0, removed)
	assert.Len(t, got, 2)
}

func TestUnique_Idempotent(t *testing.T) {
	calls := []model.AlleleCall{
		call("S1", "TH01", "6"),
		call("S1", "TH01", "6"),
		call("S2", "FGA", "22"),
		call("S1", "TH01", "6"),
	}

	once, removed := Unique(calls)
	assert.Equal(t, 2, removed)

	twice, removedAgain := Unique(once)
	assert.Equal(t, 0, removedAgain)
	assert.Equal(t, once, twice)
}

func TestMerge_Empty(t *testing.T) {
	got, removed := Merge(nil, nil)
	assert.Empty(t, got)
	assert.Equal(t, 0, removed)
}
