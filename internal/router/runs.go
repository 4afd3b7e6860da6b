package router

import (
	"net/http"
	"strconv"

	"github.com/DjordjeVuckovic/blas-bench/internal/apperr"
	"github.com/DjordjeVuckovic/blas-bench/internal/bench/report"
	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
	"github.com/DjordjeVuckovic/blas-bench/internal/metrics"
	"github.com/DjordjeVuckovic/blas-bench/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RunList is the response of GET /runs.
type RunList struct {
	Runs  []domain.RunSummary `json:"runs"`
	Limit int                 `json:"limit"`
}

type RunsRouter struct {
	e       *echo.Echo
	storage storage.Reader
	metrics *metrics.Metrics
}

type RunsRouterOption func(*RunsRouter)

func WithMetrics(m *metrics.Metrics) RunsRouterOption {
	return func(r *RunsRouter) {
		r.metrics = m
	}
}

func NewRunsRouter(e *echo.Echo, storage storage.Reader, opts ...RunsRouterOption) *RunsRouter {
	r := &RunsRouter{
		e:       e,
		storage: storage,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RunsRouter) Bind() {
	r.e.GET("/runs", r.listHandler)
	r.e.GET("/runs/:id", r.getHandler)
}

// listHandler godoc
// @Summary List benchmark runs
// @Description Returns stored runs, newest first
// @Tags runs
// @Produce json
// @Param limit query int false "Maximum number of runs" default(20)
// @Success 200 {object} RunList
// @Failure 400 {object} map[string]string
// @Router /runs [get]
func (r *RunsRouter) listHandler(c echo.Context) error {
	limit := storage.DefaultListLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return apperr.NewValidationf("limit must be a positive integer, got %q", raw)
		}
		limit = storage.ClampLimit(n)
	}

	runs, err := r.storage.List(c.Request().Context(), limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, RunList{Runs: runs, Limit: limit})
}

// getHandler godoc
// @Summary Get a benchmark run
// @Description Returns the full report of one run, including weighted level scores
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} report.JSONReport
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /runs/{id} [get]
func (r *RunsRouter) getHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NewValidationf("invalid run id %q", c.Param("id"))
	}

	rep, err := r.storage.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	if r.metrics != nil {
		r.metrics.ObserveReport(rep)
	}

	return c.JSON(http.StatusOK, report.NewJSONReport(rep))
}
