package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
	"github.com/DjordjeVuckovic/blas-bench/internal/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/refresh"
)

type Storer struct {
	client    *elasticsearch.TypedClient
	indexName string
	config    ClientConfig
}

func NewStorer(ctx context.Context, config ClientConfig) (*Storer, error) {
	client, err := newClient(config)

	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	storer := &Storer{
		client:    client,
		indexName: config.IndexName,
		config:    config,
	}

	if err := storer.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return storer, nil
}

// Save indexes the run document, then bulk indexes its results.
func (e *Storer) Save(ctx context.Context, report *domain.BenchmarkReport) error {
	storage.Prepare(report)

	doc, err := toRunDocument(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	res, err := e.client.Index(e.indexName).
		Id(doc.ID).
		Document(doc).
		Refresh(refresh.Waitfor).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to index run document: %w", err)
	}
	slog.Info("Run document indexed", "id", doc.ID, "index", e.indexName, "result", res.Result)

	return e.saveResults(ctx, toResultDocuments(report))
}

func (e *Storer) saveResults(ctx context.Context, docs []ResultDocument) error {
	if len(docs) == 0 {
		return nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         e.config.ResultsIndex(),
		Client:        e.client,
		NumWorkers:    2,
		FlushBytes:    1e+6,
		FlushInterval: 5 * time.Second,
		Refresh:       "wait_for",
	})
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var successful, failed atomic.Int64

	for i, doc := range docs {
		docBytes, err := json.Marshal(doc)
		if err != nil {
			slog.Error("failed to marshal result document", "error", err, "name", doc.Name)
			failed.Add(1)
			continue
		}

		err = bi.Add(
			ctx,
			esutil.BulkIndexerItem{
				Action:     "index",
				DocumentID: fmt.Sprintf("%s-%d", doc.RunID, i),
				Body:       bytes.NewReader(docBytes),
				OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
					successful.Add(1)
				},
				OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
					failed.Add(1)
					if err != nil {
						slog.Error("bulk index error", "error", err, "id", item.DocumentID)
					} else {
						slog.Error("bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "id", item.DocumentID)
					}
				},
			},
		)
		if err != nil {
			failed.Add(1)
			slog.Error("failed to add result to bulk indexer", "error", err, "id", doc.RunID)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	slog.Info("Result indexing completed",
		"successful", successful.Load(),
		"failed", failed.Load(),
		"total", len(docs),
		"index", e.config.ResultsIndex())

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("failed to index %d out of %d results", n, len(docs))
	}

	return nil
}

// EnsureIndex creates the run and result indices when missing.
func (e *Storer) EnsureIndex(ctx context.Context) error {
	if err := e.ensure(ctx, e.indexName, runMapping()); err != nil {
		return err
	}
	return e.ensure(ctx, e.config.ResultsIndex(), resultMapping())
}

func (e *Storer) ensure(ctx context.Context, index string, mappings types.TypeMapping) error {
	existsRes, err := e.client.Indices.Exists(index).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}

	if existsRes {
		slog.Info("Index already exists", "index", index)
		return nil
	}

	createRes, err := e.client.Indices.Create(index).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", index, err)
	}

	if !createRes.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged: %s", index)
	}

	slog.Info("Index created successfully", "index", index)
	return nil
}

func (e *Storer) Close() error {
	return nil
}

func runMapping() types.TypeMapping {
	report := types.NewObjectProperty()
	disabled := false
	report.Enabled = &disabled

	return types.TypeMapping{
		Properties: map[string]types.Property{
			"id":           types.NewKeywordProperty(),
			"created_at":   types.NewDateProperty(),
			"backend":      types.NewKeywordProperty(),
			"precision":    types.NewKeywordProperty(),
			"cpu_model":    textWithKeyword(),
			"threads":      types.NewIntegerNumberProperty(),
			"result_count": types.NewIntegerNumberProperty(),
			"peak_gflops":  types.NewDoubleNumberProperty(),
			"report":       report,
		},
	}
}

func resultMapping() types.TypeMapping {
	return types.TypeMapping{
		Properties: map[string]types.Property{
			"run_id":     types.NewKeywordProperty(),
			"created_at": types.NewDateProperty(),
			"backend":    types.NewKeywordProperty(),
			"cpu_model":  textWithKeyword(),
			"level":      types.NewIntegerNumberProperty(),
			"name":       types.NewKeywordProperty(),
			"config":     types.NewKeywordProperty(),
			"threads":    types.NewIntegerNumberProperty(),
			"min_ms":     types.NewDoubleNumberProperty(),
			"avg_ms":     types.NewDoubleNumberProperty(),
			"max_ms":     types.NewDoubleNumberProperty(),
			"gflops":     types.NewDoubleNumberProperty(),
			"flops":      types.NewLongNumberProperty(),
			"samples":    types.NewIntegerNumberProperty(),
		},
	}
}

func textWithKeyword() types.Property {
	textProp := types.NewTextProperty()
	textProp.Fields = map[string]types.Property{
		"keyword": types.NewKeywordProperty(),
	}
	return textProp
}
