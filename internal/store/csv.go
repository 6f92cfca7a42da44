package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/eitanfass/DNA-lab/internal/model"
	"github.com/eitanfass/DNA-lab/internal/tabular"
)

// File names written to the output folder.
const (
	RecordsFile  = "sequencing_summary.csv"
	MatchesFile  = "DNA_matches.csv"
	SettingsFile = "settings.csv"
)

// SettingsColumns is the settings file header. Sensitivity is written on
// the first row only; every row carries one scanned file name.
var SettingsColumns = []string{"Sensitivity", "ScannedFiles"}

// CSVStore keeps each collection in a CSV file under Dir.
type CSVStore struct {
	Dir string
}

// NewCSV returns a CSVStore rooted at dir.
func NewCSV(dir string) *CSVStore {
	return &CSVStore{Dir: dir}
}

var _ Store = (*CSVStore)(nil)

func (s *CSVStore) path(name string) string {
	return filepath.Join(s.Dir, name)
}

// Init creates the output folder and writes any missing file with its
// header. Existing files are left untouched.
func (s *CSVStore) Init(ctx context.Context) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return eris.Wrapf(err, "store: create %s", s.Dir)
	}

	files := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{RecordsFile, model.AlleleCallColumns, nil},
		{MatchesFile, model.MatchColumns, nil},
		{SettingsFile, SettingsColumns, settingsRows(model.DefaultSettings())},
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := s.path(f.name)
		if _, err := os.Stat(p); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return eris.Wrapf(err, "store: stat %s", p)
		}
		if err := tabular.WriteCSVFile(p, f.header, f.rows); err != nil {
			return eris.Wrapf(err, "store: bootstrap %s", f.name)
		}
		zap.L().Info("store: created file", zap.String("path", p))
	}
	return nil
}

// read returns the header and data rows of name. A missing or empty file
// yields no rows.
func (s *CSVStore) read(ctx context.Context, name string) (tabular.Header, [][]string, error) {
	p := s.path(name)
	if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
		return tabular.Header{}, nil, nil
	}
	rows, err := tabular.ReadCSVFile(ctx, p, tabular.CSVOptions{})
	if err != nil {
		return nil, nil, eris.Wrapf(err, "store: read %s", name)
	}
	if len(rows) == 0 {
		return tabular.Header{}, nil, nil
	}
	return tabular.NewHeader(rows[0]), rows[1:], nil
}

func (s *CSVStore) write(name string, header []string, rows [][]string) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return eris.Wrapf(err, "store: create %s", s.Dir)
	}
	if err := tabular.WriteCSVFile(s.path(name), header, rows); err != nil {
		return eris.Wrapf(err, "store: write %s", name)
	}
	return nil
}

// LoadRecords reads the consolidated record set. Columns are matched by name.
func (s *CSVStore) LoadRecords(ctx context.Context) ([]model.AlleleCall, error) {
	h, rows, err := s.read(ctx, RecordsFile)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		if missing := h.Missing(model.AlleleCallColumns...); len(missing) > 0 {
			return nil, eris.Errorf("store: %s missing columns %s", RecordsFile, strings.Join(missing, ", "))
		}
	}

	calls := make([]model.AlleleCall, 0, len(rows))
	for _, row := range rows {
		ordered := make([]string, len(model.AlleleCallColumns))
		for i, col := range model.AlleleCallColumns {
			ordered[i] = h.Get(row, col)
		}
		calls = append(calls, model.AlleleCallFromRow(ordered))
	}
	return calls, nil
}

// SaveRecords replaces the record file.
func (s *CSVStore) SaveRecords(_ context.Context, calls []model.AlleleCall) error {
	rows := make([][]string, 0, len(calls))
	for _, c := range calls {
		rows = append(rows, c.Row())
	}
	return s.write(RecordsFile, model.AlleleCallColumns, rows)
}

// LoadMatches reads the stored match set.
func (s *CSVStore) LoadMatches(ctx context.Context) ([]model.Match, error) {
	h, rows, err := s.read(ctx, MatchesFile)
	if err != nil {
		return nil, err
	}

	matches := make([]model.Match, 0, len(rows))
	for i, row := range rows {
		score, err := strconv.ParseFloat(strings.TrimSpace(h.Get(row, "MatchScore")), 64)
		if err != nil {
			return nil, eris.Wrapf(err, "store: %s row %d: bad MatchScore", MatchesFile, i+2)
		}
		matches = append(matches, model.Match{
			SpecimenID1:      h.Get(row, "SpecimenID1"),
			SpecimenID2:      h.Get(row, "SpecimenID2"),
			MatchScore:       score,
			LatestMatchTime:  h.Get(row, "LatestMatchTime"),
			CaseID1:          h.Get(row, "CaseID1"),
			CaseID2:          h.Get(row, "CaseID2"),
			SpecimenComment1: h.Get(row, "SpecimenComment1"),
			SpecimenComment2: h.Get(row, "SpecimenComment2"),
			ReadingBy1:       h.Get(row, "ReadingBy1"),
			ReadingBy2:       h.Get(row, "ReadingBy2"),
		})
	}
	return matches, nil
}

// SaveMatches replaces the match file.
func (s *CSVStore) SaveMatches(_ context.Context, matches []model.Match) error {
	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, m.Row())
	}
	return s.write(MatchesFile, model.MatchColumns, rows)
}

// LoadSettings reads the sensitivity and the scanned-file ledger. A missing
// file or blank sensitivity yields the defaults.
func (s *CSVStore) LoadSettings(ctx context.Context) (model.Settings, error) {
	out := model.DefaultSettings()
	h, rows, err := s.read(ctx, SettingsFile)
	if err != nil {
		return out, err
	}
	if len(rows) == 0 {
		return out, nil
	}

	if raw := strings.TrimSpace(h.Get(rows[0], "Sensitivity")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return out, eris.Wrapf(err, "store: %s: bad Sensitivity %q", SettingsFile, raw)
		}
		out.Sensitivity = v
	}

	var names []string
	for _, row := range rows {
		if name := strings.TrimSpace(h.Get(row, "ScannedFiles")); name != "" {
			names = append(names, name)
		}
	}
	return out.WithScanned(names...), nil
}

// SaveSettings replaces the settings file.
func (s *CSVStore) SaveSettings(_ context.Context, st model.Settings) error {
	return s.write(SettingsFile, SettingsColumns, settingsRows(st))
}

func settingsRows(st model.Settings) [][]string {
	sensitivity := strconv.FormatFloat(st.Sensitivity, 'f', -1, 64)
	if len(st.ScannedFiles) == 0 {
		return [][]string{{sensitivity, ""}}
	}
	rows := make([][]string, 0, len(st.ScannedFiles))
	for i, name := range st.ScannedFiles {
		if i == 0 {
			rows = append(rows, []string{sensitivity, name})
			continue
		}
		rows = append(rows, []string{"", name})
	}
	return rows
}
