package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/layoutguide/internal/common"
	"github.com/Veraticus/layoutguide/internal/model"
	"github.com/google/uuid"
)

// SaveRun stores a run and its nets, assigning an ID when the run has none.
// Saving a run with an existing ID replaces it.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run *model.Run) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRun(run); err != nil {
		return err
	}

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = run.StartedAt
	}
	if run.NetCount == 0 {
		run.NetCount = len(run.Nets)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, netlist_path, output_path, config_source, net_count, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			netlist_path = excluded.netlist_path,
			output_path = excluded.output_path,
			config_source = excluded.config_source,
			net_count = excluded.net_count,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at`,
		run.ID, run.NetlistPath, run.OutputPath, run.ConfigSource, run.NetCount,
		run.StartedAt.UTC(), run.FinishedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM run_nets WHERE run_id = ?`, run.ID); err != nil {
		return fmt.Errorf("failed to clear run nets: %w", err)
	}

	var stmt *sql.Stmt
	stmt, err = tx.PrepareContext(ctx, `
		INSERT INTO run_nets (run_id, position, net_name, category, signal_type, rule_matched, impedance, priority)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, net := range run.Nets {
		if _, err = stmt.ExecContext(ctx,
			run.ID, i, net.NetName, net.Category, net.SignalType, net.RuleMatched, net.Impedance, net.Priority,
		); err != nil {
			return fmt.Errorf("failed to save net %s: %w", net.NetName, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	slog.Debug("Saved run", "id", run.ID, "nets", len(run.Nets))
	return nil
}

// GetRun loads a run with its nets.
func (s *SQLiteStorage) GetRun(ctx context.Context, id string) (*model.Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var run model.Run
	err := s.db.QueryRowContext(ctx, `
		SELECT id, netlist_path, output_path, config_source, net_count, started_at, finished_at
		FROM runs
		WHERE id = ?`, id,
	).Scan(&run.ID, &run.NetlistPath, &run.OutputPath, &run.ConfigSource, &run.NetCount, &run.StartedAt, &run.FinishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT net_name, category, signal_type, rule_matched, COALESCE(impedance, ''), priority
		FROM run_nets
		WHERE run_id = ?
		ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query run nets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var net model.RunNet
		if err := rows.Scan(&net.NetName, &net.Category, &net.SignalType, &net.RuleMatched, &net.Impedance, &net.Priority); err != nil {
			return nil, fmt.Errorf("failed to scan run net: %w", err)
		}
		run.Nets = append(run.Nets, net)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run nets: %w", err)
	}

	return &run, nil
}

// ListRuns returns the most recent runs first, without their nets.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, netlist_path, output_path, config_source, net_count, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.Run
	for rows.Next() {
		var run model.Run
		if err := rows.Scan(&run.ID, &run.NetlistPath, &run.OutputPath, &run.ConfigSource, &run.NetCount, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// DeleteRun removes a run and its nets.
func (s *SQLiteStorage) DeleteRun(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_nets WHERE run_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete run nets: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %s: %w", id, common.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}
