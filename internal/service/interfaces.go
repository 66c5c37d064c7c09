// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/layoutguide/internal/model"
)

// GuideWriter persists a shaped layout guide sheet.
type GuideWriter interface {
	// Write stores the sheet with presentation formatting applied.
	Write(ctx context.Context, sheet model.Sheet) error
	// WritePlain stores the sheet with headers and values only.
	WritePlain(ctx context.Context, sheet model.Sheet) error
}

// RunStorage defines the contract for the run history store.
type RunStorage interface {
	SaveRun(ctx context.Context, run *model.Run) error
	GetRun(ctx context.Context, id string) (*model.Run, error)
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)
	DeleteRun(ctx context.Context, id string) error

	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
