// Package pivot turns the long allele-call set into the wide report table:
// one row per reading, two allele columns per locus.
package pivot

import (
	"database/sql"
	"sort"
	"strconv"
	"strings"

	"github.com/eitanfass/DNA-lab/internal/model"
)

// AllelesPerLocus is the number of columns each locus gets in the table.
const AllelesPerLocus = 2

// Key identifies one row of the wide table.
type Key struct {
	FileName        string
	CaseID          string
	SpecimenID      string
	SpecimenComment string
	ReadingBy       string
	ReadingDateTime string
}

// KeyColumns are the leading columns of every table, in Key field order.
var KeyColumns = []string{
	"FileName",
	"CaseID",
	"SpecimenID",
	"SpecimenComment",
	"ReadingBy",
	"ReadingDateTime",
}

func (k Key) values() []string {
	return []string{k.FileName, k.CaseID, k.SpecimenID, k.SpecimenComment, k.ReadingBy, k.ReadingDateTime}
}

func keyOf(c model.AlleleCall) Key {
	return Key{
		FileName:        c.FileName,
		CaseID:          c.CaseID,
		SpecimenID:      c.SpecimenID,
		SpecimenComment: c.SpecimenComment,
		ReadingBy:       c.ReadingBy,
		ReadingDateTime: c.ReadingDateTime,
	}
}

// Row is one reading with its allele cells, AllelesPerLocus per locus in
// Table.Loci order. An invalid cell is a null.
type Row struct {
	Key   Key
	Cells []sql.NullString
}

// Table is the wide report.
type Table struct {
	Loci []string
	Rows []Row
	// Truncated counts (row, locus) cells that held more than
	// AllelesPerLocus alleles. Only the lowest-sorting values were kept.
	Truncated int
}

// Unmelt builds the wide table from calls. Locus names are canonicalized
// with aliases (DefaultAliases when nil). Rows start in key order and are
// then stable-sorted by ReadingDateTime. The result depends only on calls
// and aliases.
func Unmelt(calls []model.AlleleCall, aliases Aliases) *Table {
	if aliases == nil {
		aliases = DefaultAliases()
	}

	cells := make(map[Key]map[string][]string)
	lociSet := make(map[string]bool)
	for _, c := range calls {
		locus := aliases.Canonical(c.LocusName)
		k := keyOf(c)
		byLocus, ok := cells[k]
		if !ok {
			byLocus = make(map[string][]string)
			cells[k] = byLocus
		}
		byLocus[locus] = append(byLocus[locus], c.AlleleValue)
		lociSet[locus] = true
	}

	t := &Table{Loci: make([]string, 0, len(lociSet))}
	for l := range lociSet {
		t.Loci = append(t.Loci, l)
	}
	sort.Strings(t.Loci)

	keys := make([]Key, 0, len(cells))
	for k := range cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return lessKey(keys[i], keys[j]) })

	t.Rows = make([]Row, 0, len(keys))
	for _, k := range keys {
		row := Row{Key: k, Cells: make([]sql.NullString, 0, AllelesPerLocus*len(t.Loci))}
		for _, locus := range t.Loci {
			pair, truncated := split(cells[k][locus])
			if truncated {
				t.Truncated++
			}
			row.Cells = append(row.Cells, pair...)
		}
		t.Rows = append(t.Rows, row)
	}

	sort.SliceStable(t.Rows, func(i, j int) bool {
		return t.Rows[i].Key.ReadingDateTime < t.Rows[j].Key.ReadingDateTime
	})
	return t
}

// split pads alleles with nulls, sorts them and keeps the first
// AllelesPerLocus. It reports whether values were dropped.
func split(alleles []string) ([]sql.NullString, bool) {
	vals := make([]sql.NullString, 0, max(len(alleles), AllelesPerLocus))
	for _, a := range alleles {
		vals = append(vals, sql.NullString{String: a, Valid: true})
	}
	for len(vals) < AllelesPerLocus {
		vals = append(vals, sql.NullString{})
	}
	sort.SliceStable(vals, func(i, j int) bool { return lessCell(vals[i], vals[j]) })
	return vals[:AllelesPerLocus], len(alleles) > AllelesPerLocus
}

// lessCell orders nulls last, numbers numerically before other values, and
// everything else lexically.
func lessCell(a, b sql.NullString) bool {
	if !a.Valid || !b.Valid {
		return a.Valid && !b.Valid
	}
	fa, errA := strconv.ParseFloat(strings.TrimSpace(a.String), 64)
	fb, errB := strconv.ParseFloat(strings.TrimSpace(b.String), 64)
	switch {
	case errA == nil && errB == nil:
		if fa != fb {
			return fa < fb
		}
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a.String < b.String
}

func lessKey(a, b Key) bool {
	av, bv := a.values(), b.values()
	for i := range av {
		if av[i] != bv[i] {
			return av[i] < bv[i]
		}
	}
	return false
}

// Columns returns the header: the key columns followed by
// <Locus>_1 and <Locus>_2 for every locus.
func (t *Table) Columns() []string {
	cols := make([]string, 0, len(KeyColumns)+AllelesPerLocus*len(t.Loci))
	cols = append(cols, KeyColumns...)
	for _, l := range t.Loci {
		for i := 1; i <= AllelesPerLocus; i++ {
			cols = append(cols, l+"_"+strconv.Itoa(i))
		}
	}
	return cols
}

// Records returns every row as strings in Columns order. Nulls become empty
// strings.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		rec := append(r.Key.values(), make([]string, len(r.Cells))...)
		for i, c := range r.Cells {
			if c.Valid {
				rec[len(KeyColumns)+i] = c.String
			}
		}
		out = append(out, rec)
	}
	return out
}

// Cell returns the value of locus column n (1-based) in row, and whether it
// is non-null.
func (t *Table) Cell(row int, locus string, n int) (string, bool) {
	idx := sort.SearchStrings(t.Loci, locus)
	if idx == len(t.Loci) || t.Loci[idx] != locus || n < 1 || n > AllelesPerLocus {
		return "", false
	}
	c := t.Rows[row].Cells[idx*AllelesPerLocus+n-1]
	return c.String, c.Valid
}
