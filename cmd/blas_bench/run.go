package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DjordjeVuckovic/blas-bench/internal/apperr"
	"github.com/DjordjeVuckovic/blas-bench/internal/bench/report"
	"github.com/DjordjeVuckovic/blas-bench/internal/bench/runner"
	"github.com/DjordjeVuckovic/blas-bench/internal/blas"
	"github.com/DjordjeVuckovic/blas-bench/internal/config"
	"github.com/DjordjeVuckovic/blas-bench/internal/console"
	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
	"github.com/DjordjeVuckovic/blas-bench/internal/storage"
	"github.com/DjordjeVuckovic/blas-bench/internal/storage/factory"
	"github.com/DjordjeVuckovic/blas-bench/internal/sysinfo"
	"github.com/DjordjeVuckovic/blas-bench/internal/telemetry"
	"github.com/DjordjeVuckovic/blas-bench/pkg/config/env"
	"github.com/spf13/cobra"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &cliFlags{}

	cmd := &cobra.Command{
		Use:           "blas_bench",
		Short:         "BLAS Benchmark - Performance testing for BLAS operations",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			closeLog := telemetry.InitLogger(flags.Verbose, flags.LogFormat, flags.LogFile)
			defer closeLog()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a := &app{
				flags:  flags,
				cmd:    cmd,
				stdout: stdout,
				stderr: stderr,
				system: sysinfo.NewHostCollector(),
			}
			err := a.run(ctx)
			if err != nil {
				var ve *apperr.ValidationError
				if errors.As(err, &ve) {
					slog.Error("Invalid configuration", "error", err)
				} else {
					slog.Error("Benchmark failed", "error", err)
				}
			}
			return err
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	flags.register(cmd.Flags())

	return cmd
}

type app struct {
	flags  *cliFlags
	cmd    *cobra.Command
	stdout io.Writer
	stderr io.Writer
	system runner.SystemInfoSource
}

func (a *app) run(ctx context.Context) error {
	if a.flags.SystemInfo {
		info, err := a.system.Collect()
		if err != nil {
			return fmt.Errorf("collect system info: %w", err)
		}
		console.PrintSystemInfo(a.stdout, info)
		return nil
	}

	settings, err := a.settings()
	if err != nil {
		return err
	}
	slog.Debug("Resolved settings", "settings", settings.String())

	cfg, err := settings.Build()
	if err != nil {
		return err
	}

	format, ok := report.ParseFormat(settings.Format)
	if !ok {
		slog.Warn("Unknown output format, using markdown", "format", settings.Format)
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	backend, err := blas.New(cfg.Backend, cfg.Threads)
	if err != nil {
		return err
	}
	defer func() { _ = backend.Close() }()

	console.PrintConfig(a.stderr, cfg)

	info, err := a.system.Collect()
	if err != nil {
		return fmt.Errorf("collect system info: %w", err)
	}

	rep, err := runner.Run(ctx, cfg, backend, snapshot(info), runner.WithMemoryBudget(info.TotalMemory))
	if err != nil {
		return err
	}

	console.PrintSystemInfo(a.stderr, rep.System)
	console.PrintEviction(a.stderr, rep.Eviction)

	if err := a.write(rep, format, settings.Output); err != nil {
		return err
	}

	if store != nil {
		if err := store.Save(ctx, rep); err != nil {
			return fmt.Errorf("store report: %w", err)
		}
		slog.Info("Report stored", "id", rep.ID)
	}
	return nil
}

func (a *app) settings() (config.Settings, error) {
	s, err := config.Load(a.flags.ConfigPath, config.Default())
	if err != nil {
		return s, err
	}

	s, err = a.flags.overlay(a.cmd.Flags(), s)
	if err != nil {
		return s, err
	}
	s.UsePrecisionDefaults()
	return s, nil
}

// openStore returns nil when persistence is not requested.
func (a *app) openStore(ctx context.Context) (storage.Storer, error) {
	_ = env.LoadDotEnv(os.Getenv("APP_ENV"), a.flags.EnvPath)

	storeType := storage.Type(env.GetOr("STORAGE_TYPE", ""))
	if a.flags.Store != "" {
		storeType = storage.Type(a.flags.Store)
	}
	if storeType == "" {
		return nil, nil
	}

	cfg, err := factory.LoadEnvFor(storeType)
	if err != nil {
		return nil, apperr.NewValidationWrap("invalid storage configuration", err)
	}
	s, err := factory.NewStorer(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", storeType, err)
	}
	return s, nil
}

func (a *app) write(rep *domain.BenchmarkReport, f report.Format, path string) error {
	if path == "" {
		return report.Render(rep, f, a.stdout)
	}
	return report.Write(rep, f, path)
}

// snapshot serves a system info collected once before the run.
type snapshot domain.SystemInfo

func (s snapshot) Collect() (domain.SystemInfo, error) {
	return domain.SystemInfo(s), nil
}
