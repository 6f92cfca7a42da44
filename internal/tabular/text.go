package tabular

import (
	"bufio"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadLines decodes r and splits it into lines without their terminators.
// A UTF-16 or UTF-8 byte order mark selects the encoding; without one the
// input is read as UTF-8. Carriage returns before a newline are dropped.
func ReadLines(r io.Reader) ([]string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	sc := bufio.NewScanner(transform.NewReader(r, dec))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var lines []string
	for sc.Scan() {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return lines, eris.Wrap(err, "text: read lines")
	}
	return lines, nil
}
