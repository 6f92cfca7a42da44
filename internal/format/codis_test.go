package format

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eitanfass/DNA-lab/internal/model"
)

const codisDoc = `<?xml version="1.0" encoding="UTF-8"?>
<CODISImportFile xmlns="urn:CODISImportFile-schema">
  <HEADERVERSION>3.2</HEADERVERSION>
  <SPECIMEN CASEID="CASE-7">
    <SPECIMENID>S-100</SPECIMENID>
    <SPECIMENCOMMENT>swab</SPECIMENCOMMENT>
    <LOCUS>
      <LOCUSNAME>D8S1179</LOCUSNAME>
      <READINGBY>analyst1</READINGBY>
      <READINGDATETIME>2024-03-01T10:00:00</READINGDATETIME>
      <ALLELE><ALLELEVALUE>13</ALLELEVALUE></ALLELE>
      <ALLELE><ALLELEVALUE>14</ALLELEVALUE></ALLELE>
    </LOCUS>
    <LOCUS>
      <LOCUSNAME>AMEL</LOCUSNAME>
      <ALLELE><ALLELEVALUE>X</ALLELEVALUE></ALLELE>
    </LOCUS>
  </SPECIMEN>
  <SPECIMEN CASEID="CASE-7">
    <SPECIMENID>S-101</SPECIMENID>
    <LOCUS>
      <LOCUSNAME>TH01</LOCUSNAME>
      <ALLELE><ALLELEVALUE>9.3</ALLELEVALUE></ALLELE>
    </LOCUS>
  </SPECIMEN>
</CODISImportFile>`

func TestCODIS_Parse(t *testing.T) {
	src := writeSource(t, "codis.xml", codisDoc)

	calls, err := (&CODIS{}).Parse(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, calls, 4)

	assert.Equal(t, model.AlleleCall{
		FileName:        "run1/codis.xml",
		CaseID:          "CASE-7",
		SpecimenID:      "S-100",
		SpecimenComment: "swab",
		LocusName:       "D8S1179",
		ReadingBy:       "analyst1",
		ReadingDateTime: "2024-03-01T10:00:00",
		AlleleValue:     "13",
	}, calls[0])
	assert.Equal(t, "14", calls[1].AlleleValue)

	// Optional reader and time default to N/A.
	assert.Equal(t, "AMEL", calls[2].LocusName)
	assert.Equal(t, model.NotAvailable, calls[2].ReadingBy)
	assert.Equal(t, model.NotAvailable, calls[2].ReadingDateTime)

	// Optional comment defaults to N/A.
	assert.Equal(t, "S-101", calls[3].SpecimenID)
	assert.Equal(t, model.NotAvailable, calls[3].SpecimenComment)
	assert.Equal(t, "9.3", calls[3].AlleleValue)
}

func TestCODIS_MissingAlleleValue(t *testing.T) {
	src := writeSource(t, "bad.xml", `<CODISImportFile>
  <SPECIMEN CASEID="C"><SPECIMENID>S</SPECIMENID>
    <LOCUS><LOCUSNAME>TH01</LOCUSNAME><ALLELE></ALLELE></LOCUS>
  </SPECIMEN>
</CODISImportFile>`)

	_, err := (&CODIS{}).Parse(context.Background(), src)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrMalformed))
	assert.Equal(t, model.FailureMalformed, FailureKind(err))
}

func TestCODIS_MissingSpecimenID(t *testing.T) {
	src := writeSource(t, "bad.xml", `<CODISImportFile><SPECIMEN CASEID="C"></SPECIMEN></CODISImportFile>`)

	_, err := (&CODIS{}).Parse(context.Background(), src)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrMalformed))
}

func TestCODIS_MissingLocusName(t *testing.T) {
	src := writeSource(t, "bad.xml", `<CODISImportFile><SPECIMEN><SPECIMENID>S</SPECIMENID><LOCUS></LOCUS></SPECIMEN></CODISImportFile>`)

	_, err := (&CODIS{}).Parse(context.Background(), src)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrMalformed))
}

func TestCODIS_Truncated(t *testing.T) {
	src := writeSource(t, "trunc.xml", `<CODISImportFile><SPECIMEN CASEID="C"><SPECIMENID>S`)

	_, err := (&CODIS{}).Parse(context.Background(), src)
	require.Error(t, err)
	assert.Equal(t, model.FailureMalformed, FailureKind(err))
}

func TestCODIS_NoSpecimens(t *testing.T) {
	src := writeSource(t, "empty.xml", `<CODISImportFile></CODISImportFile>`)

	calls, err := (&CODIS{}).Parse(context.Background(), src)
	require.NoError(t, err)
	assert.Empty(t, calls)
}

func TestCODIS_Latin1Charset(t *testing.T) {
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<CODISImportFile><SPECIMEN CASEID=\"C\"><SPECIMENID>S</SPECIMENID>" +
		"<SPECIMENCOMMENT>r\xe9f</SPECIMENCOMMENT>" +
		"<LOCUS><LOCUSNAME>TH01</LOCUSNAME><ALLELE><ALLELEVALUE>6</ALLELEVALUE></ALLELE></LOCUS>" +
		"</SPECIMEN></CODISImportFile>"
	src := writeSource(t, "latin1.xml", doc)

	calls, err := (&CODIS{}).Parse(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, "réf", calls[0].SpecimenComment)
}
