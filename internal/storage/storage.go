package storage

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/blas-bench/internal/apperr"
	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
	"github.com/google/uuid"
)

// Storer persists finished benchmark reports.
type Storer interface {
	Save(ctx context.Context, report *domain.BenchmarkReport) error
	Close() error
}

// Reader serves stored reports, newest first.
type Reader interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.BenchmarkReport, error)
	List(ctx context.Context, limit int) ([]domain.RunSummary, error)
	Close() error
}

type Type string

const (
	ES     Type = "es"
	PG     Type = "pg"
	InMem  Type = "in_mem"
	SQLite Type = "sqlite"
)

var Types = []Type{ES, PG, InMem, SQLite}

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported storer type: %s"
)

func (e StorerError) Error() string {
	return string(e)
}

// NotFound reports a missing run. It matches apperr.ErrNotFound.
func NotFound(id uuid.UUID) error {
	return fmt.Errorf("run %s: %w", id, apperr.ErrNotFound)
}

// ClampLimit maps non-positive limits to the default and caps the rest.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return min(limit, MaxListLimit)
}

// Prepare fills the identity fields of a report about to be stored.
func Prepare(report *domain.BenchmarkReport) {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
}
