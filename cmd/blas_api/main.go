// Package main BLAS Bench Results API
// @title BLAS Bench Results API
// @version 1.0
// @description Read-only access to stored BLAS benchmark runs
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/DjordjeVuckovic/blas-bench/docs"
	"github.com/DjordjeVuckovic/blas-bench/internal/metrics"
	"github.com/DjordjeVuckovic/blas-bench/internal/router"
	"github.com/DjordjeVuckovic/blas-bench/internal/server"
	"github.com/DjordjeVuckovic/blas-bench/internal/storage/factory"
	"github.com/DjordjeVuckovic/blas-bench/internal/telemetry"
	"github.com/labstack/echo/v4"
)

const envPath = "cmd/blas_api/.env"

func main() {
	closeLog := telemetry.InitLogger(os.Getenv("LOG_LEVEL") == "debug", os.Getenv("LOG_FORMAT"), "")
	defer closeLog()

	sCfg, err := server.LoadConfig(envPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration", "error", err)
		os.Exit(1)
	}

	m := metrics.NewMetrics()

	reader, healthChecker, err := factory.NewReader(context.Background(), storageCfg)
	if err != nil {
		slog.Error("Failed to create storage reader", "error", err)
		os.Exit(1)
	}

	s := server.New(sCfg, healthChecker, m).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupMetrics("/metrics").
		SetupOpenApi("/swagger/*")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "BLAS Bench API is running")
	})

	router.NewRunsRouter(s.Echo, reader, router.WithMetrics(m)).Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	err = s.Start()
	if cerr := reader.Close(); cerr != nil {
		slog.Warn("Failed to close storage reader", "error", cerr)
	}
	if err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
