// Package pipeline runs one batch: ingest new files, merge them into the
// record set, match the merged set and pivot it into the report table.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eitanfass/DNA-lab/internal/dedupe"
	"github.com/eitanfass/DNA-lab/internal/format"
	"github.com/eitanfass/DNA-lab/internal/ingest"
	"github.com/eitanfass/DNA-lab/internal/match"
	"github.com/eitanfass/DNA-lab/internal/model"
	"github.com/eitanfass/DNA-lab/internal/pivot"
)

// ErrInvalidSensitivity is returned when the threshold is outside [0, 1].
var ErrInvalidSensitivity = eris.New("pipeline: sensitivity must be between 0 and 1")

// State is everything carried between runs. Run never mutates its input
// State; it returns a new one.
type State struct {
	Settings model.Settings
	Records  []model.AlleleCall
	Matches  []model.Match
}

// Options configures a run.
type Options struct {
	// InputDir is the tree to scan for instrument exports.
	InputDir string
	// Workers bounds concurrent parses.
	Workers int
	// Aliases canonicalizes locus names in the report. Defaults to pivot.DefaultAliases().
	Aliases pivot.Aliases
	// Registry selects parsers. Defaults to format.NewRegistry().
	Registry *format.Registry
}

// Phase records the outcome of one step of a run.
type Phase struct {
	Name     string
	Duration time.Duration
}

// Result is the outcome of a run.
type Result struct {
	RunID string
	// State is the updated state for the caller to persist.
	State State
	// NewMatches holds the matches found in this run only.
	NewMatches []model.Match
	Table      *pivot.Table
	Failures   []model.FileFailure
	Phases     []Phase

	NewRecords        int
	DuplicatesRemoved int
	FilesParsed       int
	FilesSkipped      int
	FilesIgnored      int
	ProfilesCompared  int
}

// ValidateSensitivity checks that v is a usable threshold.
func ValidateSensitivity(v float64) error {
	if v < 0 || v > 1 {
		return eris.Wrapf(ErrInvalidSensitivity, "got %v", v)
	}
	return nil
}

// Run executes one batch against state. Per-file parse failures are
// reported in the result and never abort the run.
func Run(ctx context.Context, state State, opts Options) (*Result, error) {
	if err := ValidateSensitivity(state.Settings.Sensitivity); err != nil {
		return nil, err
	}

	res := &Result{RunID: uuid.New().String()}
	log := zap.L().With(zap.String("run_id", res.RunID))
	log.Info("pipeline: starting run",
		zap.String("input", opts.InputDir),
		zap.Float64("sensitivity", state.Settings.Sensitivity),
		zap.Int("known_files", len(state.Settings.ScannedFiles)),
	)

	var phasesMu sync.Mutex
	track := func(name string, fn func() error) error {
		start := time.Now()
		err := fn()
		d := time.Since(start)
		if err != nil {
			log.Error("pipeline: phase failed", zap.String("phase", name), zap.Duration("duration", d), zap.Error(err))
		} else {
			log.Info("pipeline: phase complete", zap.String("phase", name), zap.Duration("duration", d))
		}
		phasesMu.Lock()
		res.Phases = append(res.Phases, Phase{Name: name, Duration: d})
		phasesMu.Unlock()
		return err
	}

	// Ingest.
	var scan *ingest.Result
	if err := track("ingest", func() error {
		var err error
		scan, err = ingest.Scan(ctx, opts.InputDir, state.Settings.Ledger(), ingest.Options{
			Workers:  opts.Workers,
			Registry: opts.Registry,
		})
		return err
	}); err != nil {
		return nil, eris.Wrap(err, "pipeline: ingest")
	}
	res.Failures = scan.Failures
	res.FilesParsed = len(scan.Scanned)
	res.FilesSkipped = scan.Skipped
	res.FilesIgnored = scan.Ignored

	// Merge.
	var records []model.AlleleCall
	if err := track("dedupe", func() error {
		var removed int
		records, removed = dedupe.Merge(state.Records, scan.Calls)
		res.DuplicatesRemoved = removed
		res.NewRecords = len(records) - len(state.Records)
		log.Info("pipeline: merged records",
			zap.Int("prior", len(state.Records)),
			zap.Int("parsed", len(scan.Calls)),
			zap.Int("duplicates_removed", removed),
		)
		return nil
	}); err != nil {
		return nil, eris.Wrap(err, "pipeline: dedupe")
	}

	// Match and pivot read the same merged snapshot.
	matched, table, err := analyze(ctx, records, state, opts.Aliases, track)
	if err != nil {
		return nil, err
	}

	res.NewMatches = matched.New
	res.ProfilesCompared = matched.Profiles
	res.Table = table
	res.State = State{
		Settings: state.Settings.WithScanned(scan.Scanned...),
		Records:  records,
		Matches:  matched.All,
	}

	log.Info("pipeline: run complete",
		zap.Int("records", len(records)),
		zap.Int("new_matches", len(matched.New)),
		zap.Int("total_matches", len(matched.All)),
		zap.Int("failures", len(res.Failures)),
		zap.Int("truncated_cells", table.Truncated),
	)
	return res, nil
}

// Rematch matches state.Records against state.Matches without ingesting.
// It returns the updated state and the new matches.
func Rematch(state State) (State, []model.Match, error) {
	if err := ValidateSensitivity(state.Settings.Sensitivity); err != nil {
		return state, nil, err
	}
	r := match.Run(state.Records, state.Settings.Sensitivity, state.Matches)
	state.Matches = r.All
	return state, r.New, nil
}

func analyze(
	ctx context.Context,
	records []model.AlleleCall,
	state State,
	aliases pivot.Aliases,
	track func(string, func() error) error,
) (match.Result, *pivot.Table, error) {
	var matched match.Result
	var table *pivot.Table

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		return track("match", func() error {
			matched = match.Run(records, state.Settings.Sensitivity, state.Matches)
			return nil
		})
	})
	g.Go(func() error {
		return track("pivot", func() error {
			table = pivot.Unmelt(records, aliases)
			return nil
		})
	})
	if err := g.Wait(); err != nil {
		return match.Result{}, nil, eris.Wrap(err, "pipeline: analyze")
	}
	if err := ctx.Err(); err != nil {
		return match.Result{}, nil, eris.Wrap(err, "pipeline: analyze")
	}
	return matched, table, nil
}
