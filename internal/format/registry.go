package format

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/eitanfass/DNA-lab/internal/model"
)

// Registry maps variant kinds to their implementations.
type Registry struct {
	formats map[Kind]Format
	order   []Kind // insertion order for deterministic iteration
}

// NewRegistry creates a registry populated with every supported variant.
func NewRegistry() *Registry {
	r := &Registry{formats: make(map[Kind]Format)}

	r.Register(&CODIS{})
	r.Register(&NIEM{})
	r.Register(&Text{})
	r.Register(&Spreadsheet{})

	return r
}

// Register adds a variant to the registry, replacing one of the same kind.
func (r *Registry) Register(f Format) {
	kind := f.Kind()
	if _, ok := r.formats[kind]; !ok {
		r.order = append(r.order, kind)
	}
	r.formats[kind] = f
}

// Get returns a variant by kind.
func (r *Registry) Get(kind Kind) (Format, error) {
	f, ok := r.formats[kind]
	if !ok {
		return nil, eris.Errorf("format: unknown kind %q", kind)
	}
	return f, nil
}

// All returns every variant in registration order.
func (r *Registry) All() []Format {
	out := make([]Format, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.formats[k])
	}
	return out
}

// ForExtension returns the variants that read files with the given extension.
func (r *Registry) ForExtension(ext string) []Format {
	var out []Format
	for _, k := range r.order {
		f := r.formats[k]
		for _, e := range f.Extensions() {
			if e == ext {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

// Supports reports whether any variant reads the given extension.
func (r *Registry) Supports(ext string) bool {
	return len(r.ForExtension(ext)) > 0
}

// Detect selects the variant for src. XML sources are matched on the local
// name of their root element; other extensions have exactly one reader.
func (r *Registry) Detect(ctx context.Context, src Source) (Format, error) {
	candidates := r.ForExtension(src.Ext())
	if len(candidates) == 0 {
		return nil, eris.Wrapf(ErrUnsupportedExtension, "format: %s", src.FileName)
	}

	var matchers []rootMatcher
	var plain []Format
	for _, f := range candidates {
		if m, ok := f.(rootMatcher); ok {
			matchers = append(matchers, m)
		} else {
			plain = append(plain, f)
		}
	}
	if len(matchers) == 0 {
		return plain[0], nil
	}

	root, err := sniffRoot(ctx, src)
	if err != nil {
		return nil, err
	}
	for _, m := range matchers {
		if m.MatchesRoot(root) {
			return m.(Format), nil
		}
	}
	return nil, unrecognized("format: %s: unknown XML root element %q", src.FileName, root)
}

// Parse detects the variant for src and parses it.
func (r *Registry) Parse(ctx context.Context, src Source) (Kind, []model.AlleleCall, error) {
	f, err := r.Detect(ctx, src)
	if err != nil {
		return "", nil, err
	}
	calls, err := f.Parse(ctx, src)
	if err != nil {
		return f.Kind(), nil, err
	}
	return f.Kind(), calls, nil
}
