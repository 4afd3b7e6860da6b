package pg

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
	"github.com/DjordjeVuckovic/blas-bench/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var resultColumns = []string{
	"run_id", "level", "name", "config", "threads",
	"min_ms", "avg_ms", "max_ms", "gflops", "flops", "samples",
}

type Storer struct {
	pool *ConnectionPool
	db   *pgxpool.Pool
}

func NewStorer(pool *ConnectionPool) (*Storer, error) {
	return &Storer{pool: pool, db: pool.conn}, nil
}

// Save writes the run row and copies its results in one transaction.
func (s *Storer) Save(ctx context.Context, report *domain.BenchmarkReport) error {
	storage.Prepare(report)

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	cmd := `
        INSERT INTO blas_runs (id, created_at, backend, float_precision, cpu_model, threads, report)
        VALUES ($1, $2, $3, $4, $5, $6, $7);
    `
	_, err = tx.Exec(
		ctx,
		cmd,
		report.ID,
		report.CreatedAt,
		report.Backend,
		report.Precision,
		report.System.CPUModel,
		report.Config.Threads,
		reportJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	results := report.Results()
	rows := make([][]any, len(results))
	for i, r := range results {
		rows[i] = []any{
			report.ID,
			int16(r.Level),
			r.Name,
			r.Config,
			r.Threads,
			r.MinMs,
			r.AvgMs,
			r.MaxMs,
			r.GFLOPS,
			r.Flops,
			r.Samples,
		}
	}

	copied, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"blas_results"},
		resultColumns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to bulk insert results: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	slog.Info("Run stored in PostgreSQL", "id", report.ID, "results", copied)
	return nil
}

func (s *Storer) Close() error {
	s.pool.Close()
	return nil
}
