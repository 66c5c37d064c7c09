package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/layoutguide/internal/model"
	"github.com/Veraticus/layoutguide/internal/service"
	"github.com/Veraticus/layoutguide/internal/storage"
)

// TestStore is an in-memory run history with helpers for seeding runs.
type TestStore struct {
	Storage service.RunStorage
	t       *testing.T
}

// SetupTestStore creates a migrated in-memory run store that is closed on cleanup.
//
// Example:
//
//	db := testutil.SetupTestStore(t)
//	run := db.SeedRun("board.net", "VBAT", "RF_ANT1")
func SetupTestStore(t *testing.T) *TestStore {
	t.Helper()

	store, err := storage.Open(context.Background(), storage.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	return &TestStore{Storage: store, t: t}
}

// SeedRun stores a run over netlistPath with one Other net per name.
func (s *TestStore) SeedRun(netlistPath string, netNames ...string) *model.Run {
	s.t.Helper()

	started := time.Now().Add(-time.Minute).Truncate(time.Second)
	run := &model.Run{
		StartedAt:    started,
		FinishedAt:   started.Add(time.Second),
		NetlistPath:  netlistPath,
		OutputPath:   netlistPath + ".xlsx",
		ConfigSource: "test",
	}
	for _, name := range netNames {
		c := model.DefaultClassification(name)
		run.Nets = append(run.Nets, model.RunNet{
			NetName:     name,
			Category:    c.Category,
			SignalType:  c.SignalType,
			RuleMatched: c.RuleMatched,
			Priority:    c.Priority,
			Impedance:   "50 Ohm",
		})
	}

	if err := s.Storage.SaveRun(context.Background(), run); err != nil {
		s.t.Fatalf("failed to seed run %s: %v", netlistPath, err)
	}
	return run
}

// MustCount returns how many runs are stored, up to limit.
func (s *TestStore) MustCount(limit int) int {
	s.t.Helper()

	runs, err := s.Storage.ListRuns(context.Background(), limit)
	if err != nil {
		s.t.Fatalf("failed to list runs: %v", err)
	}
	return len(runs)
}
