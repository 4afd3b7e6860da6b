package in_mem

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
	"github.com/DjordjeVuckovic/blas-bench/internal/storage"
	"github.com/google/uuid"
)

type InMemStorer struct {
	storageLock sync.RWMutex
	storage     map[uuid.UUID]domain.BenchmarkReport
}

func NewInMemStorer() *InMemStorer {
	return &InMemStorer{
		storage: make(map[uuid.UUID]domain.BenchmarkReport),
	}
}

func (s *InMemStorer) Save(ctx context.Context, report *domain.BenchmarkReport) error {
	storage.Prepare(report)

	s.storageLock.Lock()
	defer s.storageLock.Unlock()
	s.storage[report.ID] = clone(*report)

	slog.Info("Saving report to in-memory storage", "id", report.ID, "results", len(report.Results()))
	return nil
}

func (s *InMemStorer) Get(ctx context.Context, id uuid.UUID) (*domain.BenchmarkReport, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	r, ok := s.storage[id]
	if !ok {
		return nil, storage.NotFound(id)
	}
	out := clone(r)
	return &out, nil
}

func (s *InMemStorer) List(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	summaries := make([]domain.RunSummary, 0, len(s.storage))
	for _, r := range s.storage {
		summaries = append(summaries, r.Summary())
	}
	slices.SortFunc(summaries, func(a, b domain.RunSummary) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), strings.Compare(a.ID.String(), b.ID.String()))
	})

	return summaries[:min(len(summaries), storage.ClampLimit(limit))], nil
}

func (s *InMemStorer) Close() error {
	return nil
}

func clone(r domain.BenchmarkReport) domain.BenchmarkReport {
	r.Level1 = slices.Clone(r.Level1)
	r.Level2 = slices.Clone(r.Level2)
	r.Level3 = slices.Clone(r.Level3)
	return r
}
