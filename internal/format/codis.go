package format

import (
	"context"
	"strings"

	"github.com/eitanfass/DNA-lab/internal/model"
)

// CODIS reads CODIS import files (root element CODISImportFile).
type CODIS struct{}

func (c *CODIS) Kind() Kind { return KindCODIS }
func (c *CODIS) Extensions() []string { return []string{".xml"} }
func (c *CODIS) MatchesRoot(l string) bool { return strings.Contains(l, "CODISImportFile") }

type codisSpecimen struct {
	CaseID     string       `xml:"CASEID,attr"`
	SpecimenID *string      `xml:"SPECIMENID"`
	Comment    *string      `xml:"SPECIMENCOMMENT"`
	Loci       []codisLocus `xml:"LOCUS"`
}

type codisLocus struct {
	Name            *string       `xml:"LOCUSNAME"`
	ReadingBy       *string       `xml:"READINGBY"`
	ReadingDateTime *string       `xml:"READINGDATETIME"`
	Alleles         []codisAllele `xml:"ALLELE"`
}

type codisAllele struct {
	Value *string `xml:"ALLELEVALUE"`
}

// Parse emits one call per ALLELE of every LOCUS of every SPECIMEN.
func (c *CODIS) Parse(ctx context.Context, src Source) ([]model.AlleleCall, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck

	specCh, errCh := StreamXML[codisSpecimen](ctx, rc, "SPECIMEN")

	var calls []model.AlleleCall
	var parseErr error
	for spec := range specCh {
		if parseErr != nil {
			continue // drain
		}
		got, err := spec.calls(src.FileName)
		if err != nil {
			parseErr = err
			continue
		}
		calls = append(calls, got...)
	}
	for err := range errCh {
		if err != nil && parseErr == nil {
			parseErr = err
		}
	}
	if parseErr != nil {
		return nil, parseErr
	}
	return calls, nil
}

func (s codisSpecimen) calls(fileName string) ([]model.AlleleCall, error) {
	if s.SpecimenID == nil {
		return nil, malformed("codis: %s: specimen without SPECIMENID (case %q)", fileName, s.CaseID)
	}
	specimenID := strings.TrimSpace(*s.SpecimenID)

	var out []model.AlleleCall
	for _, locus := range s.Loci {
		if locus.Name == nil {
			return nil, malformed("codis: %s: specimen %q has a LOCUS without LOCUSNAME", fileName, specimenID)
		}
		name := strings.TrimSpace(*locus.Name)
		for _, allele := range locus.Alleles {
			if allele.Value == nil {
				return nil, malformed("codis: %s: specimen %q locus %q has an ALLELE without ALLELEVALUE", fileName, specimenID, name)
			}
			out = append(out, model.AlleleCall{
				FileName:        fileName,
				CaseID:          strings.TrimSpace(s.CaseID),
				SpecimenID:      specimenID,
				SpecimenComment: orDefault(s.Comment, model.NotAvailable),
				LocusName:       name,
				ReadingBy:       orDefault(locus.ReadingBy, model.NotAvailable),
				ReadingDateTime: orDefault(locus.ReadingDateTime, model.NotAvailable),
				AlleleValue:     strings.TrimSpace(*allele.Value),
			})
		}
	}
	return out, nil
}

// orDefault returns the trimmed value of an optional element, or def when absent.
func orDefault(v *string, def string) string {
	if v == nil {
		return def
	}
	return strings.TrimSpace(*v)
}
