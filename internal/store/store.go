// Package store persists the record set, the match set and the settings
// between runs.
package store

import (
	"context"

	"github.com/eitanfass/DNA-lab/internal/model"
)

// Store defines the persistence interface for the pipeline state.
type Store interface {
	// Records
	LoadRecords(ctx context.Context) ([]model.AlleleCall, error)
	SaveRecords(ctx context.Context, calls []model.AlleleCall) error

	// Matches
	LoadMatches(ctx context.Context) ([]model.Match, error)
	SaveMatches(ctx context.Context, matches []model.Match) error

	// Settings
	LoadSettings(ctx context.Context) (model.Settings, error)
	SaveSettings(ctx context.Context, s model.Settings) error

	// Lifecycle
	Init(ctx context.Context) error
}
