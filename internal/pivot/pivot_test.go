package pivot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eitanfass/DNA-lab/internal/model"
)

func call(specimen, when, locus, allele string) model.AlleleCall {
	return model.AlleleCall{
		FileName:        "run1/" + specimen + ".xml",
		CaseID:          "C1",
		SpecimenID:      specimen,
		SpecimenComment: "",
		LocusName:       locus,
		ReadingBy:       "GeneMapper",
		ReadingDateTime: when,
		AlleleValue:     allele,
	}
}

func TestUnmelt_Basic(t *testing.T) {
	calls := []model.AlleleCall{
		call("S1", "2024-02-01", "D8S1179", "14"),
		call("S1", "2024-02-01", "D8S1179", "12"),
		call("S1", "2024-02-01", " Amelogenin ", "X"),
		call("S1", "2024-02-01", "Amelogenin", "Y"),
		call("S2", "2024-01-01", "D8S1179", "13"),
	}

	tbl := Unmelt(calls, nil)

	assert.Equal(t, []string{"AMEL", "D8S1179"}, tbl.Loci)
	assert.Equal(t, []string{
		"FileName", "CaseID", "SpecimenID", "SpecimenComment", "ReadingBy", "ReadingDateTime",
		"AMEL_1", "AMEL_2", "D8S1179_1", "D8S1179_2",
	}, tbl.Columns())

	require.Len(t, tbl.Rows, 2)
	// Sorted by reading time, so S2 comes first.
	assert.Equal(t, "S2", tbl.Rows[0].Key.SpecimenID)
	assert.Equal(t, "S1", tbl.Rows[1].Key.SpecimenID)

	v, ok := tbl.Cell(1, "D8S1179", 1)
	assert.True(t, ok)
	assert.Equal(t, "12", v)
	v, ok = tbl.Cell(1, "D8S1179", 2)
	assert.True(t, ok)
	assert.Equal(t, "14", v)

	v, _ = tbl.Cell(1, "AMEL", 1)
	assert.Equal(t, "X", v)
	v, _ = tbl.Cell(1, "AMEL", 2)
	assert.Equal(t, "Y", v)

	// Homozygous and missing loci leave nulls.
	v, ok = tbl.Cell(0, "D8S1179", 1)
	assert.True(t, ok)
	assert.Equal(t, "13", v)
	_, ok = tbl.Cell(0, "D8S1179", 2)
	assert.False(t, ok)
	_, ok = tbl.Cell(0, "AMEL", 1)
	assert.False(t, ok)

	assert.Equal(t, 0, tbl.Truncated)
}

func TestUnmelt_Records(t *testing.T) {
	tbl := Unmelt([]model.AlleleCall{call("S1", "t", "TH01", "9.3")}, nil)

	assert.Equal(t, [][]string{
		{"run1/S1.xml", "C1", "S1", "", "GeneMapper", "t", "9.3", ""},
	}, tbl.Records())
}

func TestUnmelt_TruncatesExtraAlleles(t *testing.T) {
	calls := []model.AlleleCall{
		call("S1", "t", "FGA", "24"),
		call("S1", "t", "FGA", "21"),
		call("S1", "t", "FGA", "9"),
		call("S1", "t", "FGA", "22.2"),
	}

	tbl := Unmelt(calls, nil)

	require.Len(t, tbl.Rows, 1)
	first, _ := tbl.Cell(0, "FGA", 1)
	second, _ := tbl.Cell(0, "FGA", 2)
	assert.Equal(t, "9", first, "numeric order, not lexical")
	assert.Equal(t, "21", second)
	assert.Equal(t, 1, tbl.Truncated)
}

func TestUnmelt_RowKeySeparatesReadings(t *testing.T) {
	a := call("S1", "t1", "TPOX", "8")
	b := call("S1", "t2", "TPOX", "11")
	b.FileName = "run2/S1.xml"

	tbl := Unmelt([]model.AlleleCall{a, b}, nil)
	assert.Len(t, tbl.Rows, 2)
}

func TestUnmelt_Deterministic(t *testing.T) {
	calls := []model.AlleleCall{
		call("S3", "same", "vWA", "17"),
		call("S1", "same", "vWA", "16"),
		call("S2", "same", "CSF1PO", "10"),
		call("S1", "same", "CSF1PO", "12"),
	}

	first := Unmelt(calls, nil)
	second := Unmelt(calls, nil)
	assert.Equal(t, first, second)

	// Equal reading times keep key order.
	var ids []string
	for _, r := range first.Rows {
		ids = append(ids, r.Key.SpecimenID)
	}
	assert.Equal(t, []string{"S1", "S2", "S3"}, ids)
}

func TestUnmelt_Empty(t *testing.T) {
	tbl := Unmelt(nil, nil)
	assert.Empty(t, tbl.Rows)
	assert.Equal(t, KeyColumns, tbl.Columns())
}

func TestLessCell(t *testing.T) {
	sorted, truncated := split([]string{"Y", "X", "10", "9.3"})
	assert.True(t, truncated)
	assert.Equal(t, "9.3", sorted[0].String)
	assert.Equal(t, "10", sorted[1].String)

	sorted, _ = split([]string{"Y", "X"})
	assert.Equal(t, "X", sorted[0].String)
	assert.Equal(t, "Y", sorted[1].String)

	sorted, truncated = split(nil)
	assert.False(t, truncated)
	assert.False(t, sorted[0].Valid)
	assert.False(t, sorted[1].Valid)
}
