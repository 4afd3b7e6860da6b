package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
	"github.com/DjordjeVuckovic/blas-bench/internal/storage"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS blas_runs (
	id TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	backend TEXT NOT NULL,
	float_precision TEXT NOT NULL,
	cpu_model TEXT NOT NULL,
	threads INTEGER NOT NULL,
	report TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_blas_runs_created_at ON blas_runs (created_at DESC);
CREATE TABLE IF NOT EXISTS blas_results (
	run_id TEXT NOT NULL REFERENCES blas_runs (id) ON DELETE CASCADE,
	level INTEGER NOT NULL,
	name TEXT NOT NULL,
	config TEXT NOT NULL,
	threads INTEGER NOT NULL,
	min_ms REAL NOT NULL,
	avg_ms REAL NOT NULL,
	max_ms REAL NOT NULL,
	gflops REAL NOT NULL,
	flops INTEGER NOT NULL,
	samples INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_blas_results_run_id ON blas_results (run_id);
`

// Store keeps reports in a single SQLite file.
type Store struct {
	db *sql.DB
}

// NewStore opens the database at path and applies the schema.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps ":memory:" databases consistent across calls
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	slog.Info("SQLite store opened", "path", path)
	return store, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Save(ctx context.Context, report *domain.BenchmarkReport) error {
	storage.Prepare(report)

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO blas_runs (id, created_at, backend, float_precision, cpu_model, threads, report)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.ID.String(),
		report.CreatedAt.UnixNano(),
		report.Backend,
		report.Precision,
		report.System.CPUModel,
		report.Config.Threads,
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO blas_results (run_id, level, name, config, threads, min_ms, avg_ms, max_ms, gflops, flops, samples)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare result insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range report.Results() {
		_, err := stmt.ExecContext(ctx,
			report.ID.String(), r.Level, r.Name, r.Config, r.Threads,
			r.MinMs, r.AvgMs, r.MaxMs, r.GFLOPS, r.Flops, r.Samples,
		)
		if err != nil {
			return fmt.Errorf("failed to insert result %s: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	slog.Info("Run stored in SQLite", "id", report.ID)
	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*domain.BenchmarkReport, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT report FROM blas_runs WHERE id = ?`, id.String()).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.NotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	var report domain.BenchmarkReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

func (s *Store) List(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.created_at, r.backend, r.float_precision, r.cpu_model, r.threads,
		       COUNT(res.run_id), COALESCE(MAX(res.gflops), 0.0)
		FROM blas_runs r
		LEFT JOIN blas_results res ON res.run_id = r.id
		GROUP BY r.id
		ORDER BY r.created_at DESC
		LIMIT ?`, storage.ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	summaries := make([]domain.RunSummary, 0)
	for rows.Next() {
		var (
			s       domain.RunSummary
			id      string
			created int64
		)
		if err := rows.Scan(&id, &created, &s.Backend, &s.Precision, &s.CPUModel, &s.Threads, &s.ResultCount, &s.PeakGFLOPS); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if s.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid run id %q: %w", id, err)
		}
		s.CreatedAt = time.Unix(0, created).UTC()
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return summaries, nil
}
