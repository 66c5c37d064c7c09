package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/layoutguide/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidRun   = errors.New("invalid run")
	ErrInvalidLimit = errors.New("limit must be positive")
)

// validateContext rejects nil and already cancelled contexts.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return ctx.Err()
}

func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateRun(run *model.Run) error {
	if run == nil {
		return fmt.Errorf("%w: run", ErrNilParameter)
	}
	if strings.TrimSpace(run.NetlistPath) == "" {
		return fmt.Errorf("%w: missing netlist path", ErrInvalidRun)
	}
	if run.StartedAt.IsZero() {
		return fmt.Errorf("%w: missing start time", ErrInvalidRun)
	}
	if !run.FinishedAt.IsZero() && run.FinishedAt.Before(run.StartedAt) {
		return fmt.Errorf("%w: finished before it started", ErrInvalidRun)
	}
	for i, net := range run.Nets {
		if strings.TrimSpace(net.NetName) == "" {
			return fmt.Errorf("%w: net at index %d has no name", ErrInvalidRun, i)
		}
	}
	return nil
}
