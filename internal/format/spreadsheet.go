package format

import (
	"context"
	"fmt"
	"strings"

	"github.com/eitanfass/DNA-lab/internal/model"
	"github.com/eitanfass/DNA-lab/internal/tabular"
)

// Spreadsheet reads per-marker genotype tables exported as CSV or XLSX by
// capillary instruments. One row holds the alleles of one marker for one
// sample file; the export carries no timestamp.
type Spreadsheet struct{}

func (s *Spreadsheet) Kind() Kind { return KindSpreadsheet }
func (s *Spreadsheet) Extensions() []string { return []string{".csv", ".xlsx"} }

const (
	colSampleName = "Sample Name"
	colSampleFile = "Sample File"
	colMarker     = "Marker"

	// maxAlleleColumns is the number of "Allele N" columns read per row.
	maxAlleleColumns = 2
)

// Parse emits one call per non-empty allele cell.
func (s *Spreadsheet) Parse(ctx context.Context, src Source) ([]model.AlleleCall, error) {
	var (
		rows [][]string
		err  error
	)
	if src.Ext() == ".xlsx" {
		rows, err = tabular.ReadXLSX(src.Path, tabular.XLSXOptions{})
	} else {
		rows, err = s.readCSV(ctx, src)
	}
	if err != nil {
		return nil, err
	}
	return parseSpreadsheetRows(rows, src.FileName)
}

func (s *Spreadsheet) readCSV(ctx context.Context, src Source) ([][]string, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck

	rows, err := tabular.ReadCSV(ctx, rc, tabular.CSVOptions{TrimSpace: true, LazyQuotes: true})
	if err != nil {
		return nil, malformed("spreadsheet: %s: %v", src.FileName, err)
	}
	return rows, nil
}

func parseSpreadsheetRows(rows [][]string, fileName string) ([]model.AlleleCall, error) {
	if len(rows) == 0 {
		return nil, unrecognized("spreadsheet: %s: empty file", fileName)
	}

	hdr := tabular.NewHeader(rows[0])
	if missing := hdr.Missing(colSampleName, colSampleFile, colMarker); len(missing) > 0 {
		return nil, unrecognized("spreadsheet: %s: missing columns %s", fileName, strings.Join(missing, ", "))
	}

	var calls []model.AlleleCall
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}

		caseTokens := strings.Fields(hdr.Get(row, colSampleName))
		if len(caseTokens) == 0 {
			return nil, malformed("spreadsheet: %s: row %d: empty %s", fileName, i+2, colSampleName)
		}
		sampleFile := strings.TrimSpace(hdr.Get(row, colSampleFile))
		marker := strings.TrimSpace(hdr.Get(row, colMarker))

		for n := 1; n <= maxAlleleColumns; n++ {
			allele := strings.TrimSpace(hdr.Get(row, fmt.Sprintf("Allele %d", n)))
			if allele == "" {
				continue
			}
			calls = append(calls, model.AlleleCall{
				FileName:        sampleFile,
				CaseID:          caseTokens[0],
				SpecimenID:      sampleFile,
				SpecimenComment: fileName,
				LocusName:       marker,
				ReadingBy:       model.SpreadsheetReader,
				ReadingDateTime: model.UndatedSentinel,
				AlleleValue:     allele,
			})
		}
	}
	return calls, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
