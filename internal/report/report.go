// Package report writes the wide pivot table for analysts.
package report

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/eitanfass/DNA-lab/internal/model"
	"github.com/eitanfass/DNA-lab/internal/pivot"
	"github.com/eitanfass/DNA-lab/internal/tabular"
)

// Output file names.
const (
	CSVFile      = "final_DNA_sequencing_summary.csv"
	XLSXFile     = "final_DNA_sequencing_summary.xlsx"
	FailuresFile = "failed_files.csv"
	SheetName    = "Summary"
)

// FailureColumns is the header of the failed-files report.
var FailureColumns = []string{"FileName", "Kind", "Reason", "Path"}

// WriteCSV writes t to path. Null cells are written empty.
func WriteCSV(t *pivot.Table, path string) error {
	if err := tabular.WriteCSVFile(path, t.Columns(), t.Records()); err != nil {
		return eris.Wrap(err, "report: write csv")
	}
	return nil
}

// WriteXLSX writes t to a single-sheet workbook at path.
func WriteXLSX(t *pivot.Table, path string) error {
	if err := tabular.WriteXLSX(path, SheetName, t.Columns(), t.Records()); err != nil {
		return eris.Wrap(err, "report: write xlsx")
	}
	return nil
}

// Write writes the CSV report, and the workbook when withXLSX is set, into
// dir. It returns the written paths.
func Write(t *pivot.Table, dir string, withXLSX bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "report: create %s", dir)
	}

	paths := []string{filepath.Join(dir, CSVFile)}
	if err := WriteCSV(t, paths[0]); err != nil {
		return nil, err
	}
	if withXLSX {
		p := filepath.Join(dir, XLSXFile)
		if err := WriteXLSX(t, p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}

	zap.L().Info("report: written",
		zap.Strings("paths", paths),
		zap.Int("rows", len(t.Rows)),
		zap.Int("loci", len(t.Loci)),
		zap.Int("truncated_cells", t.Truncated),
	)
	return paths, nil
}

// WriteFailures replaces the failed-files report in dir with the failures
// of the latest run. Failed files are not ledgered, so each run lists every
// file that still does not parse.
func WriteFailures(failures []model.FileFailure, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "report: create %s", dir)
	}

	rows := make([][]string, 0, len(failures))
	for _, f := range failures {
		rows = append(rows, []string{f.FileName, string(f.Kind), f.Reason, f.Path})
	}
	p := filepath.Join(dir, FailuresFile)
	if err := tabular.WriteCSVFile(p, FailureColumns, rows); err != nil {
		return "", eris.Wrap(err, "report: write failures")
	}
	return p, nil
}
