package pivot

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Aliases maps instrument-specific locus names to their canonical column name.
type Aliases map[string]string

// DefaultAliases returns the built-in locus aliases.
func DefaultAliases() Aliases {
	return Aliases{"Amelogenin": "AMEL"}
}

// Canonical trims locus and applies the alias table.
func (a Aliases) Canonical(locus string) string {
	locus = strings.TrimSpace(locus)
	if c, ok := a[locus]; ok {
		return c
	}
	return locus
}

// LoadAliases reads extra aliases from a YAML file and layers them over the
// built-in ones. An empty path returns the defaults.
//
//	aliases:
//	  D8S1179_ABI: D8S1179
func LoadAliases(path string) (Aliases, error) {
	out := DefaultAliases()
	if path == "" {
		return out, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "pivot: read aliases %s", path)
	}

	var wrapper struct {
		Aliases map[string]string `yaml:"aliases"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "pivot: parse aliases")
	}

	for from, to := range wrapper.Aliases {
		from, to = strings.TrimSpace(from), strings.TrimSpace(to)
		if from == "" || to == "" {
			return nil, eris.Errorf("pivot: empty alias entry %q -> %q", from, to)
		}
		out[from] = to
	}
	return out, nil
}
