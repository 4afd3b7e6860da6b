package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
	"github.com/DjordjeVuckovic/blas-bench/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Reader struct {
	pool *ConnectionPool
	db   *pgxpool.Pool
}

func NewReader(pool *ConnectionPool) (*Reader, error) {
	return &Reader{pool: pool, db: pool.conn}, nil
}

func (r *Reader) Get(ctx context.Context, id uuid.UUID) (*domain.BenchmarkReport, error) {
	var raw []byte
	err := r.db.QueryRow(ctx, `SELECT report FROM blas_runs WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.NotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	var report domain.BenchmarkReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

func (r *Reader) List(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	query := `
        SELECT r.id, r.created_at, r.backend, r.float_precision, r.cpu_model, r.threads,
               COUNT(res.run_id), COALESCE(MAX(res.gflops), 0)
        FROM blas_runs r
        LEFT JOIN blas_results res ON res.run_id = r.id
        GROUP BY r.id
        ORDER BY r.created_at DESC
        LIMIT $1;
    `
	rows, err := r.db.Query(ctx, query, storage.ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	summaries := make([]domain.RunSummary, 0)
	for rows.Next() {
		var s domain.RunSummary
		var count int64
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.Backend, &s.Precision, &s.CPUModel, &s.Threads, &count, &s.PeakGFLOPS); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		s.ResultCount = int(count)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return summaries, nil
}

func (r *Reader) Close() error {
	r.pool.Close()
	return nil
}
