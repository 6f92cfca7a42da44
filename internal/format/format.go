// Package format normalizes DNA-typing instrument exports into canonical
// allele calls. Each supported export is one Format variant; a Registry
// selects the variant for a file once, by extension and, for XML, by the
// name of the document's root element.
package format

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/eitanfass/DNA-lab/internal/model"
)

// Kind names a format variant.
type Kind string

const (
	KindCODIS       Kind = "codis_xml"
	KindNIEM        Kind = "niem_xml"
	KindText        Kind = "tab_text"
	KindSpreadsheet Kind = "spreadsheet"
)

var (
	// ErrUnrecognizedFormat is returned when a file matches no known schema signature.
	ErrUnrecognizedFormat = eris.New("unrecognized format")
	// ErrUnsupportedExtension is returned when no variant handles the file extension.
	ErrUnsupportedExtension = eris.New("unsupported extension")
	// ErrMalformed is returned when a required field is missing from a file.
	ErrMalformed = eris.New("malformed record")
)

// Format converts one kind of instrument export into allele calls.
type Format interface {
	// Kind returns the variant name.
	Kind() Kind

	// Extensions returns the lower-case file extensions the variant reads, with the dot.
	Extensions() []string

	// Parse reads src and returns every allele call in it. Any error abandons the whole file.
	Parse(ctx context.Context, src Source) ([]model.AlleleCall, error)
}

// rootMatcher is implemented by XML variants that are selected by root element name.
type rootMatcher interface {
	MatchesRoot(local string) bool
}

// Source is a file handed to a parser.
type Source struct {
	// Path is the location on disk.
	Path string
	// FileName is the provenance name recorded on each call: "<parent dir>/<base name>".
	FileName string
}

// NewSource builds a Source for path with the default provenance name.
func NewSource(path string) Source {
	return Source{Path: path, FileName: ProvenanceName(path)}
}

// ProvenanceName joins the name of the file's parent directory and its base name.
func ProvenanceName(path string) string {
	parent := filepath.Base(filepath.Dir(path))
	if parent == "." || parent == string(filepath.Separator) {
		return filepath.Base(path)
	}
	return parent + "/" + filepath.Base(path)
}

// Ext returns the lower-case extension of the source path.
func (s Source) Ext() string {
	return strings.ToLower(filepath.Ext(s.Path))
}

// Open opens the source for reading.
func (s Source) Open() (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, eris.Wrapf(err, "format: open %s", s.Path)
	}
	return f, nil
}

// FailureKind maps a parse error to the failure taxonomy.
func FailureKind(err error) model.FailureKind {
	switch {
	case eris.Is(err, ErrUnrecognizedFormat), eris.Is(err, ErrUnsupportedExtension):
		return model.FailureUnrecognized
	case eris.Is(err, ErrMalformed):
		return model.FailureMalformed
	default:
		return model.FailureIO
	}
}

func malformed(format string, args ...any) error {
	return eris.Wrapf(ErrMalformed, format, args...)
}

func unrecognized(format string, args ...any) error {
	return eris.Wrapf(ErrUnrecognizedFormat, format, args...)
}
