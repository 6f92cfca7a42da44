package format

import (
	"context"
	"strings"

	"github.com/eitanfass/DNA-lab/internal/model"
	"github.com/eitanfass/DNA-lab/internal/tabular"
)

// Text reads tab-delimited allele tables exported by genotyping software.
//
// The header carries the case (inside the project path), the software
// package and the export time. The body starts after the line beginning
// with a tab followed by "Sample". A row whose first token is a number opens
// a specimen: counter, specimen ID, locus, alleles. Other rows continue the
// current specimen: locus, alleles.
type Text struct{}

func (t *Text) Kind() Kind { return KindText }
func (t *Text) Extensions() []string { return []string{".txt"} }

const (
	projectMarker  = "Project:"
	softwareMarker = "Software Package:"
	dateTimeMarker = "Date/Time:"
	bodyMarker     = "\tSample"
)

// textHeader holds the values shared by every call in a text export.
type textHeader struct {
	caseID      string
	readingBy   string
	readingTime string
}

// rowState is the body parser state.
type rowState int

const (
	expectSpecimenHeader rowState = iota
	expectLocusRow
)

// Parse emits one call per retained allele token.
func (t *Text) Parse(ctx context.Context, src Source) ([]model.AlleleCall, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck

	lines, err := tabular.ReadLines(rc)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return parseTextLines(lines, src.FileName)
}

func parseTextLines(lines []string, fileName string) ([]model.AlleleCall, error) {
	hdr := extractTextHeader(lines)

	var (
		calls    []model.AlleleCall
		inBody   bool
		state    = expectSpecimenHeader
		specimen string
	)
	for i, line := range lines {
		if strings.HasPrefix(line, bodyMarker) {
			inBody = true
			continue
		}
		if !inBody || strings.TrimSpace(line) == "" {
			continue
		}

		tokens := splitTabs(line)
		var locus string
		var rest []string

		if isCounter(tokens[0]) {
			if len(tokens) < 3 {
				return nil, malformed("text: %s: line %d: specimen row needs counter, specimen and locus", fileName, i+1)
			}
			specimen, locus, rest = tokens[1], tokens[2], tokens[3:]
			state = expectLocusRow
		} else {
			locus, rest = tokens[0], tokens[1:]
		}

		alleles := alleleTokens(rest)
		if state == expectSpecimenHeader {
			if len(alleles) > 0 {
				return nil, malformed("text: %s: line %d: locus %q before any specimen", fileName, i+1, locus)
			}
			continue
		}

		for _, a := range alleles {
			calls = append(calls, model.AlleleCall{
				FileName:        fileName,
				CaseID:          hdr.caseID,
				SpecimenID:      specimen,
				SpecimenComment: "",
				LocusName:       locus,
				ReadingBy:       hdr.readingBy,
				ReadingDateTime: hdr.readingTime,
				AlleleValue:     a,
			})
		}
	}
	return calls, nil
}

// extractTextHeader scans every line for the header markers. A marker that
// appears more than once takes its last value.
func extractTextHeader(lines []string) textHeader {
	var h textHeader
	for _, line := range lines {
		if strings.Contains(line, projectMarker) {
			h.caseID = caseFromProject(line)
		}
		if strings.Contains(line, softwareMarker) {
			h.readingBy = afterFirstColon(line)
		}
		if strings.Contains(line, dateTimeMarker) {
			h.readingTime = afterFirstColon(line)
		}
	}
	return h
}

// caseFromProject takes the path segment before the trailing separator of
// the project path, e.g. `Project: C:\Runs\CASE-42\` yields "CASE-42".
// Backslash separators are preferred; forward slashes are used when the
// path has none. A value without separators is returned whole.
func caseFromProject(line string) string {
	value := line[strings.Index(line, projectMarker)+len(projectMarker):]
	sep := `\`
	if !strings.Contains(value, sep) {
		sep = "/"
	}
	parts := strings.Split(value, sep)
	if len(parts) < 2 {
		return strings.TrimSpace(value)
	}
	return strings.TrimSpace(parts[len(parts)-2])
}

func afterFirstColon(line string) string {
	_, after, _ := strings.Cut(line, ":")
	return strings.TrimSpace(after)
}

// splitTabs splits a body line on tabs and drops blank tokens. The line is
// known to be non-blank, so at least one token is returned.
func splitTabs(line string) []string {
	var out []string
	for _, part := range strings.Split(strings.TrimSpace(line), "\t") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// isCounter reports whether s is a specimen sequence number.
func isCounter(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isAlleleToken reports whether s is a number with at most one decimal
// point, or one of the sex markers X and Y.
func isAlleleToken(s string) bool {
	if s == "X" || s == "Y" {
		return true
	}
	return isCounter(strings.Replace(s, ".", "", 1))
}

func alleleTokens(tokens []string) []string {
	var out []string
	for _, tok := range tokens {
		if isAlleleToken(tok) {
			out = append(out, tok)
		}
	}
	return out
}
