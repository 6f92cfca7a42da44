package format

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eitanfass/DNA-lab/internal/model"
)

const niemDoc = `<?xml version="1.0" encoding="UTF-8"?>
<itl:DNADataTransaction
    xmlns:itl="http://biometrics.nist.gov/standard/2011"
    xmlns:biom="http://release.niem.gov/niem/domains/biometrics/5.1/"
    xmlns:nc="http://release.niem.gov/niem/niem-core/5.0/">
  <nc:Case>
    <nc:ActivityIdentification><nc:IdentificationID>CASE-9</nc:IdentificationID></nc:ActivityIdentification>
  </nc:Case>
  <biom:DNASample>
    <biom:DNASourceIdentification><nc:IdentificationID>SP-1</nc:IdentificationID></biom:DNASourceIdentification>
    <biom:DNADevice><biom:DeviceName>3500xL</biom:DeviceName></biom:DNADevice>
    <biom:DNALocus>
      <biom:DNALocusName>D3S1358</biom:DNALocusName>
      <biom:ProcessUTCDate><nc:DateTime>2024-05-02T08:30:00Z</nc:DateTime></biom:ProcessUTCDate>
      <biom:DNAAllele><biom:DNAAlleleCall1Text>15</biom:DNAAlleleCall1Text></biom:DNAAllele>
      <biom:DNAAllele><biom:DNAAlleleCall1Text>16</biom:DNAAlleleCall1Text></biom:DNAAllele>
    </biom:DNALocus>
    <biom:DNALocus>
      <biom:DNALocusName>vWA</biom:DNALocusName>
      <biom:DNAAllele><biom:DNAAlleleCall1Text>17</biom:DNAAlleleCall1Text></biom:DNAAllele>
    </biom:DNALocus>
  </biom:DNASample>
</itl:DNADataTransaction>`

func TestNIEM_Parse(t *testing.T) {
	src := writeSource(t, "niem.xml", niemDoc)

	calls, err := (&NIEM{}).Parse(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, calls, 2)

	assert.Equal(t, model.AlleleCall{
		FileName:        "run1/niem.xml",
		CaseID:          "CASE-9",
		SpecimenID:      "SP-1",
		SpecimenComment: model.NIEMComment,
		LocusName:       "D3S1358",
		ReadingBy:       "3500xL",
		ReadingDateTime: "2024-05-02T08:30:00Z",
		AlleleValue:     "15",
	}, calls[0])

	assert.Equal(t, "vWA", calls[1].LocusName)
	assert.Equal(t, model.UnknownTime, calls[1].ReadingDateTime)
	assert.Equal(t, "17", calls[1].AlleleValue)
}

func TestNIEM_NoDevice(t *testing.T) {
	src := writeSource(t, "niem.xml", `<DNADataTransaction>
  <IdentificationID>C1</IdentificationID>
  <DNASourceIdentification><IdentificationID>S1</IdentificationID></DNASourceIdentification>
  <DNALocus><DNALocusName>TH01</DNALocusName><DNAAllele><DNAAlleleCall1Text>6</DNAAlleleCall1Text></DNAAllele></DNALocus>
</DNADataTransaction>`)

	calls, err := (&NIEM{}).Parse(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, "C1", calls[0].CaseID)
	assert.Equal(t, "S1", calls[0].SpecimenID)
	assert.Equal(t, model.NotAvailable, calls[0].ReadingBy)
}

func TestNIEM_MissingPieces(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "no identification",
			doc:  `<DNADataTransaction><DNALocus><DNALocusName>TH01</DNALocusName></DNALocus></DNADataTransaction>`,
		},
		{
			name: "no source identification",
			doc:  `<DNADataTransaction><IdentificationID>C</IdentificationID></DNADataTransaction>`,
		},
		{
			name: "locus without name",
			doc: `<DNADataTransaction><DNASourceIdentification><IdentificationID>S</IdentificationID></DNASourceIdentification>
<DNALocus><DNAAllele><DNAAlleleCall1Text>6</DNAAlleleCall1Text></DNAAllele></DNALocus></DNADataTransaction>`,
		},
		{
			name: "locus without allele",
			doc: `<DNADataTransaction><DNASourceIdentification><IdentificationID>S</IdentificationID></DNASourceIdentification>
<DNALocus><DNALocusName>TH01</DNALocusName></DNALocus></DNADataTransaction>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := writeSource(t, "niem.xml", tt.doc)
			_, err := (&NIEM{}).Parse(context.Background(), src)
			require.Error(t, err)
			assert.True(t, eris.Is(err, ErrMalformed))
		})
	}
}
