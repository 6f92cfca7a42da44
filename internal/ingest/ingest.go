// Package ingest walks an input tree, skips files already in the scanned
// ledger and parses the rest into allele calls.
package ingest

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eitanfass/DNA-lab/internal/format"
	"github.com/eitanfass/DNA-lab/internal/model"
)

// DefaultWorkers bounds concurrent parses when Options.Workers is unset.
const DefaultWorkers = 4

// OutputFiles are the files this tool writes. They are never read as input,
// so the output folder may sit inside the input tree.
var OutputFiles = map[string]bool{
	"sequencing_summary.csv":            true,
	"dna_matches.csv":                   true,
	"settings.csv":                      true,
	"failed_files.csv":                  true,
	"final_dna_sequencing_summary.csv":  true,
	"final_dna_sequencing_summary.xlsx": true,
}

// Options configures a scan.
type Options struct {
	// Workers bounds concurrent parses.
	Workers int
	// Registry selects the parser per file. Defaults to format.NewRegistry().
	Registry *format.Registry
}

// Result is the outcome of a scan.
type Result struct {
	// Calls holds every parsed call, in walk order.
	Calls []model.AlleleCall
	// Scanned lists the ledger keys of files parsed successfully in this scan.
	Scanned []string
	// Failures lists files whose parse was abandoned. They are not in Scanned.
	Failures []model.FileFailure
	// Ignored counts files with an extension no format reads.
	Ignored int
	// Skipped counts files already present in the ledger.
	Skipped int
}

// job is one ledger entry: a plain file, or a bundle with its members.
type job struct {
	key     string
	path    string
	members []format.Source
	err     error
}

type outcome struct {
	calls    []model.AlleleCall
	failures []model.FileFailure
}

// LedgerKey is the name under which a file is recorded as scanned.
func LedgerKey(path string) string {
	return format.ProvenanceName(path)
}

// Scan walks root and parses every supported file whose ledger key is not in
// ledger. ZIP bundles are extracted and their members parsed; a bundle is
// ledgered only when none of its members failed. A failing file never aborts
// the scan; only a walk error or cancellation does.
func Scan(ctx context.Context, root string, ledger map[string]bool, opts Options) (*Result, error) {
	reg := opts.Registry
	if reg == nil {
		reg = format.NewRegistry()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	if _, err := os.Stat(root); err != nil {
		return nil, eris.Wrapf(err, "ingest: stat input %s", root)
	}

	tmpDir, err := os.MkdirTemp("", "dnalab-bundles-")
	if err != nil {
		return nil, eris.Wrap(err, "ingest: create temp dir")
	}
	defer os.RemoveAll(tmpDir) //nolint:errcheck

	res := &Result{}
	var jobs []job

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if OutputFiles[strings.ToLower(d.Name())] {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		isBundle := ext == ".zip"
		if !isBundle && !reg.Supports(ext) {
			res.Ignored++
			zap.L().Debug("ingest: ignoring unsupported file", zap.String("path", path))
			return nil
		}

		key := LedgerKey(path)
		if ledger[key] {
			res.Skipped++
			return nil
		}

		j := job{key: key, path: path}
		if isBundle {
			b, err := openBundle(path, key, filepath.Join(tmpDir, bundleDir(len(jobs))), reg)
			if err != nil {
				j.err = err
			} else {
				j.members = b.members
				res.Ignored += b.ignored
			}
		} else {
			j.members = []format.Source{format.NewSource(path)}
		}
		jobs = append(jobs, j)
		return nil
	})
	if walkErr != nil {
		return nil, eris.Wrapf(walkErr, "ingest: walk %s", root)
	}

	outcomes := make([]outcome, len(jobs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, j := range jobs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			outcomes[i] = runJob(gCtx, reg, j)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "ingest: scan cancelled")
	}

	for i, j := range jobs {
		o := outcomes[i]
		res.Calls = append(res.Calls, o.calls...)
		if len(o.failures) > 0 {
			res.Failures = append(res.Failures, o.failures...)
			continue
		}
		res.Scanned = append(res.Scanned, j.key)
	}

	for _, f := range res.Failures {
		zap.L().Warn("ingest: file skipped",
			zap.String("file", f.FileName),
			zap.String("kind", string(f.Kind)),
			zap.String("reason", f.Reason),
		)
	}
	zap.L().Info("ingest: scan complete",
		zap.String("root", root),
		zap.Int("parsed", len(res.Scanned)),
		zap.Int("failed", len(res.Failures)),
		zap.Int("skipped", res.Skipped),
		zap.Int("ignored", res.Ignored),
		zap.Int("calls", len(res.Calls)),
	)
	return res, nil
}

func bundleDir(n int) string {
	return "bundle-" + strconv.Itoa(n)
}

func runJob(ctx context.Context, reg *format.Registry, j job) outcome {
	var o outcome
	if j.err != nil {
		o.failures = append(o.failures, failure(j.path, j.key, j.err))
		return o
	}
	for _, src := range j.members {
		kind, calls, err := reg.Parse(ctx, src)
		if err != nil {
			o.failures = append(o.failures, failure(src.Path, src.FileName, err))
			continue
		}
		zap.L().Debug("ingest: parsed file",
			zap.String("file", src.FileName),
			zap.String("format", string(kind)),
			zap.Int("calls", len(calls)),
		)
		o.calls = append(o.calls, calls...)
	}
	return o
}

func failure(path, name string, err error) model.FileFailure {
	return model.FileFailure{
		Path:     path,
		FileName: name,
		Kind:     format.FailureKind(err),
		Reason:   err.Error(),
	}
}
