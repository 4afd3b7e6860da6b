package es

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
	"github.com/DjordjeVuckovic/blas-bench/internal/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/google/uuid"
)

type Reader struct {
	client    *elasticsearch.TypedClient
	indexName string
}

func NewReader(config ClientConfig) (*Reader, error) {
	client, err := newClient(config)

	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	return &Reader{
		client:    client,
		indexName: config.IndexName,
	}, nil
}

func (r *Reader) Get(ctx context.Context, id uuid.UUID) (*domain.BenchmarkReport, error) {
	res, err := r.client.Get(r.indexName, id.String()).Do(ctx)
	if isNotFound(err) {
		return nil, storage.NotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run document: %w", err)
	}
	if !res.Found {
		return nil, storage.NotFound(id)
	}

	var doc RunDocument
	if err := json.Unmarshal(res.Source_, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run document: %w", err)
	}

	var report domain.BenchmarkReport
	if err := json.Unmarshal(doc.Report, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

func (r *Reader) List(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	size := storage.ClampLimit(limit)

	sortOrderDesc := sortorder.Desc
	res, err := r.client.Search().
		Index(r.indexName).
		Query(&types.Query{MatchAll: &types.MatchAllQuery{}}).
		Size(size).
		Sort(&types.SortOptions{
			SortOptions: map[string]types.FieldSort{
				"created_at": {Order: &sortOrderDesc},
			},
		}).
		Do(ctx)
	if isNotFound(err) {
		return make([]domain.RunSummary, 0), nil
	}
	if err != nil {
		slog.Error("Elasticsearch run listing failed", "error", err, "index", r.indexName)
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}

	summaries := make([]domain.RunSummary, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var doc RunDocument
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document: %w", err)
		}
		s, err := doc.summary()
		if err != nil {
			return nil, fmt.Errorf("invalid run id %q: %w", doc.ID, err)
		}
		summaries = append(summaries, s)
	}

	slog.Debug("Es runs fetched", "returned_count", len(summaries), "index", r.indexName)
	return summaries, nil
}

func (r *Reader) Close() error {
	return nil
}

func isNotFound(err error) bool {
	var esErr *types.ElasticsearchError
	return errors.As(err, &esErr) && esErr.Status == http.StatusNotFound
}
