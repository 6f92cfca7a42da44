package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/eitanfass/DNA-lab/internal/pipeline"
	"github.com/eitanfass/DNA-lab/internal/store"
)

// initStore opens the CSV store in the configured output folder and
// bootstraps any missing file.
func initStore(ctx context.Context) (store.Store, error) {
	st := store.NewCSV(cfg.Output.Dir)
	if err := st.Init(ctx); err != nil {
		return nil, eris.Wrap(err, "init store")
	}
	return st, nil
}

// loadState reads settings, records and matches. A configured sensitivity
// replaces the stored one for this process only.
func loadState(ctx context.Context, st store.Store) (pipeline.State, float64, error) {
	var state pipeline.State

	settings, err := st.LoadSettings(ctx)
	if err != nil {
		return state, 0, eris.Wrap(err, "load settings")
	}
	stored := settings.Sensitivity
	if s := cfg.Match.Sensitivity; s != nil {
		settings = settings.WithSensitivity(*s)
		zap.L().Info("using configured sensitivity",
			zap.Float64("sensitivity", *s),
			zap.Float64("stored", stored),
		)
	}
	state.Settings = settings

	if state.Records, err = st.LoadRecords(ctx); err != nil {
		return state, 0, eris.Wrap(err, "load records")
	}
	if state.Matches, err = st.LoadMatches(ctx); err != nil {
		return state, 0, eris.Wrap(err, "load matches")
	}

	zap.L().Info("state loaded",
		zap.String("dir", cfg.Output.Dir),
		zap.Int("records", len(state.Records)),
		zap.Int("matches", len(state.Matches)),
		zap.Int("scanned_files", len(state.Settings.ScannedFiles)),
	)
	return state, stored, nil
}

// saveState persists state. The stored sensitivity is kept so a
// configured override never leaks into the settings file.
func saveState(ctx context.Context, st store.Store, state pipeline.State, storedSensitivity float64) error {
	if err := st.SaveRecords(ctx, state.Records); err != nil {
		return eris.Wrap(err, "save records")
	}
	if err := st.SaveMatches(ctx, state.Matches); err != nil {
		return eris.Wrap(err, "save matches")
	}
	if err := st.SaveSettings(ctx, state.Settings.WithSensitivity(storedSensitivity)); err != nil {
		return eris.Wrap(err, "save settings")
	}
	return nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
