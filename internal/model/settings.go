package model

import "sort"

// DefaultSensitivity is used when no settings have been stored yet.
const DefaultSensitivity = 0.8

// Settings holds the matching threshold and the ledger of files already
// ingested. It is a value type: methods return a modified copy.
type Settings struct {
	Sensitivity  float64  `json:"sensitivity"`
	ScannedFiles []string `json:"scanned_files"`
}

// DefaultSettings returns settings with the default sensitivity and an empty ledger.
func DefaultSettings() Settings {
	return Settings{Sensitivity: DefaultSensitivity}
}

// Ledger returns the scanned files as a set.
func (s Settings) Ledger() map[string]bool {
	set := make(map[string]bool, len(s.ScannedFiles))
	for _, f := range s.ScannedFiles {
		set[f] = true
	}
	return set
}

// WithScanned returns a copy of s whose ledger also contains names.
// The ledger is kept sorted and free of duplicates.
func (s Settings) WithScanned(names ...string) Settings {
	set := s.Ledger()
	for _, n := range names {
		if n != "" {
			set[n] = true
		}
	}
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	s.ScannedFiles = out
	return s
}

// WithSensitivity returns a copy of s using the given threshold.
func (s Settings) WithSensitivity(v float64) Settings {
	s.Sensitivity = v
	return s
}
