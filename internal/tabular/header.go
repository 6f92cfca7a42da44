package tabular

import "strings"

// Header maps trimmed column names to their index in a row.
type Header map[string]int

// NewHeader builds a Header from a header row. Surrounding whitespace
// (and a UTF-8 BOM on the first cell) is ignored. The first occurrence of
// a repeated name wins.
func NewHeader(row []string) Header {
	h := make(Header, len(row))
	for i, col := range row {
		name := strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		if _, dup := h[name]; !dup {
			h[name] = i
		}
	}
	return h
}

// Has reports whether every name is present.
func (h Header) Has(names ...string) bool {
	for _, n := range names {
		if _, ok := h[n]; !ok {
			return false
		}
	}
	return true
}

// Missing returns the names that are not present, in argument order.
func (h Header) Missing(names ...string) []string {
	var out []string
	for _, n := range names {
		if _, ok := h[n]; !ok {
			out = append(out, n)
		}
	}
	return out
}

// Get returns the value of the named column, or "" if the column is absent
// or the row is short.
func (h Header) Get(row []string, name string) string {
	idx, ok := h[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
