package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/layoutguide/internal/common"
	"github.com/Veraticus/layoutguide/internal/model"
	"github.com/Veraticus/layoutguide/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ service.RunStorage = (*SQLiteStorage)(nil)

func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func testRun(started time.Time) *model.Run {
	return &model.Run{
		NetlistPath:  "board.net",
		OutputPath:   "layout_guide_output.xlsx",
		ConfigSource: "<embedded default>",
		StartedAt:    started,
		FinishedAt:   started.Add(250 * time.Millisecond),
		Nets: []model.RunNet{
			{NetName: "RF_ANT1", Category: "RF", SignalType: "RF", RuleMatched: "RF", Impedance: "50 Ohm", Priority: 5},
			{NetName: "I2C_SCL", Category: "Communication Interface", SignalType: "I2C", RuleMatched: "I2C", Impedance: "50 Ohm", Priority: 10},
			{NetName: "GPIO_1", Category: "Other", SignalType: "Single-End", RuleMatched: "default", Priority: 999},
		},
	}
}

func TestMigrate(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	// Running again is a no-op.
	require.NoError(t, store.Migrate(ctx))

	var indexCount int
	err = store.db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='index' AND name='idx_run_nets_category'
	`).Scan(&indexCount)
	require.NoError(t, err)
	assert.Equal(t, 1, indexCount)
}

func TestSaveAndGetRun(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	started := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	run := testRun(started)
	require.NoError(t, store.SaveRun(ctx, run))
	require.NotEmpty(t, run.ID)
	assert.Equal(t, 3, run.NetCount)

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "board.net", got.NetlistPath)
	assert.Equal(t, "layout_guide_output.xlsx", got.OutputPath)
	assert.Equal(t, 3, got.NetCount)
	assert.WithinDuration(t, started, got.StartedAt, time.Millisecond)
	assert.Equal(t, 250*time.Millisecond, got.Duration().Round(time.Millisecond))
	assert.Equal(t, run.Nets, got.Nets)
	assert.Equal(t, []model.CategoryCount{
		{Category: "RF", Count: 1},
		{Category: "Communication Interface", Count: 1},
		{Category: "Other", Count: 1},
	}, got.CategoryCounts())
}

func TestSaveRun_ReplacesExisting(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	run := testRun(time.Now())
	require.NoError(t, store.SaveRun(ctx, run))

	run.OutputPath = "rev_b.xlsx"
	run.Nets = run.Nets[:1]
	run.NetCount = 1
	require.NoError(t, store.SaveRun(ctx, run))

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "rev_b.xlsx", got.OutputPath)
	assert.Len(t, got.Nets, 1)

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestSaveRun_Validation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	now := time.Now()

	tests := []struct {
		run     *model.Run
		wantErr error
		name    string
	}{
		{name: "nil run", run: nil, wantErr: ErrNilParameter},
		{name: "missing netlist", run: &model.Run{StartedAt: now}, wantErr: ErrInvalidRun},
		{name: "missing start", run: &model.Run{NetlistPath: "a.net"}, wantErr: ErrInvalidRun},
		{
			name:    "finished before start",
			run:     &model.Run{NetlistPath: "a.net", StartedAt: now, FinishedAt: now.Add(-time.Second)},
			wantErr: ErrInvalidRun,
		},
		{
			name:    "unnamed net",
			run:     &model.Run{NetlistPath: "a.net", StartedAt: now, Nets: []model.RunNet{{Category: "RF"}}},
			wantErr: ErrInvalidRun,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, store.SaveRun(ctx, tt.run), tt.wantErr)
		})
	}
}

func TestListRuns(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		run := testRun(base.Add(time.Duration(i) * time.Hour))
		run.NetlistPath = []string{"a.net", "b.net", "c.net"}[i]
		require.NoError(t, store.SaveRun(ctx, run))
	}

	runs, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c.net", runs[0].NetlistPath)
	assert.Equal(t, "b.net", runs[1].NetlistPath)
	assert.Empty(t, runs[0].Nets)
	assert.Equal(t, 3, runs[0].NetCount)

	_, err = store.ListRuns(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestDeleteRun(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	run := testRun(time.Now())
	require.NoError(t, store.SaveRun(ctx, run))
	require.NoError(t, store.DeleteRun(ctx, run.ID))

	_, err := store.GetRun(ctx, run.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	var nets int
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM run_nets WHERE run_id = ?`, run.ID).Scan(&nets))
	assert.Zero(t, nets)

	assert.ErrorIs(t, store.DeleteRun(ctx, run.ID), common.ErrNotFound)
}

func TestGetRun_Errors(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.GetRun(context.Background(), " ")
	assert.ErrorIs(t, err, ErrEmptyString)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.GetRun(ctx, "abc")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewSQLiteStorage_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	store, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.Equal(t, path, store.Path())
	require.NoError(t, store.Migrate(context.Background()))

	_, err = NewSQLiteStorage("")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestDataSourceName(t *testing.T) {
	assert.Equal(t, ":memory:?_foreign_keys=on", dataSourceName(MemoryPath))
	assert.Equal(t,
		"/tmp/history.db?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on",
		dataSourceName("/tmp/history.db"))
}

func TestOpen(t *testing.T) {
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	version, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
}
