package ingest

import (
	"archive/zip"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/eitanfass/DNA-lab/internal/format"
)

// bundle is the parseable content of one ZIP archive.
type bundle struct {
	members []format.Source
	ignored int
}

// openBundle copies the members of the archive at zipPath that reg can parse
// into destDir and returns them in archive order, named
// "<key>/<member base>". Unsupported members are counted and left packed. An
// entry that would escape destDir rejects the whole bundle.
func openBundle(zipPath, key, destDir string, reg *format.Registry) (*bundle, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open bundle")
	}
	defer r.Close() //nolint:errcheck

	b := &bundle{}
	for i, f := range r.File {
		if !filepath.IsLocal(filepath.FromSlash(f.Name)) {
			return nil, eris.Errorf("ingest: illegal path %q in bundle", f.Name)
		}
		if f.FileInfo().IsDir() {
			continue
		}

		base := path.Base(f.Name)
		if !reg.Supports(strings.ToLower(path.Ext(base))) {
			b.ignored++
			zap.L().Debug("ingest: ignoring unsupported bundle member",
				zap.String("bundle", key),
				zap.String("member", f.Name),
			)
			continue
		}

		// One directory per entry keeps same-named members from colliding.
		dest := filepath.Join(destDir, strconv.Itoa(i), base)
		if err := unpackMember(f, dest); err != nil {
			return nil, err
		}
		b.members = append(b.members, format.Source{Path: dest, FileName: key + "/" + base})
	}
	return b, nil
}

func unpackMember(f *zip.File, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return eris.Wrap(err, "ingest: create bundle directory")
	}

	rc, err := f.Open()
	if err != nil {
		return eris.Wrapf(err, "ingest: open bundle member %s", f.Name)
	}
	defer rc.Close() //nolint:errcheck

	out, err := os.Create(dest)
	if err != nil {
		return eris.Wrapf(err, "ingest: create bundle member %s", f.Name)
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return eris.Wrapf(err, "ingest: unpack bundle member %s", f.Name)
	}
	if err := out.Close(); err != nil {
		return eris.Wrapf(err, "ingest: close bundle member %s", f.Name)
	}
	return nil
}
