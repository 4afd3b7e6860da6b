package report

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
)

// Render writes r to w in format f.
func Render(r *domain.BenchmarkReport, f Format, w io.Writer) error {
	switch f {
	case CSV:
		return WriteCSV(r, w)
	case JSON:
		return WriteJSON(r, w)
	case Table:
		return WriteTable(r, w)
	default:
		return WriteMarkdown(r, w)
	}
}

// Write renders r to the file at path, or to stdout when path is empty.
func Write(r *domain.BenchmarkReport, f Format, path string) error {
	if path == "" {
		return Render(r, f, os.Stdout)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err := Render(r, f, file); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}

	slog.Info("Output written", "path", path, "format", f)
	return nil
}
