package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/DjordjeVuckovic/blas-bench/internal/apperr"
	"github.com/DjordjeVuckovic/blas-bench/internal/bench/kernel"
	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type FileFormat string

const (
	TOML FileFormat = "toml"
	YAML FileFormat = "yaml"
)

// fileConfig mirrors the config file. Pointer fields tell an absent key from
// a zero value so that only keys present in the file override.
type fileConfig struct {
	Defaults struct {
		Threads    *int    `toml:"threads" yaml:"threads"`
		Warmup     *int    `toml:"warmup" yaml:"warmup"`
		Cycles     *int    `toml:"cycles" yaml:"cycles"`
		FlushCache *bool   `toml:"flush_cache" yaml:"flush_cache"`
		Precision  *string `toml:"precision" yaml:"precision"`
		Backend    *string `toml:"backend" yaml:"backend"`
		Seed       *uint64 `toml:"seed" yaml:"seed"`
		Format     *string `toml:"format" yaml:"format"`
		Output     *string `toml:"output" yaml:"output"`

		Level1Size *int `toml:"level1_size" yaml:"level1_size"`
		Level2M    *int `toml:"level2_m" yaml:"level2_m"`
		Level2N    *int `toml:"level2_n" yaml:"level2_n"`
		Level3M    *int `toml:"level3_m" yaml:"level3_m"`
		Level3N    *int `toml:"level3_n" yaml:"level3_n"`
		Level3K    *int `toml:"level3_k" yaml:"level3_k"`
	} `toml:"defaults" yaml:"defaults"`

	Functions struct {
		Level1 *[]string `toml:"level1" yaml:"level1"`
		Level2 *[]string `toml:"level2" yaml:"level2"`
		Level3 *[]string `toml:"level3" yaml:"level3"`
	} `toml:"functions" yaml:"functions"`

	Weights struct {
		Level1 map[string]float64 `toml:"level1" yaml:"level1"`
		Level2 map[string]float64 `toml:"level2" yaml:"level2"`
		Level3 map[string]float64 `toml:"level3" yaml:"level3"`
	} `toml:"weights" yaml:"weights"`
}

// DetectFormat picks the file format from the extension; TOML otherwise.
func DetectFormat(path string) FileFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return TOML
	}
}

// LoadFromFile overlays the file at path on base.
func LoadFromFile(path string, base Settings) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data, DetectFormat(path), base)
}

// Parse overlays the keys present in data on base.
func Parse(data []byte, format FileFormat, base Settings) (Settings, error) {
	var fc fileConfig
	switch format {
	case YAML:
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return base, fmt.Errorf("parse config YAML: %w", err)
		}
	default:
		if err := toml.Unmarshal(data, &fc); err != nil {
			return base, fmt.Errorf("parse config TOML: %w", err)
		}
	}
	s, err := fc.apply(base)
	if err != nil {
		return base, err
	}
	return s, nil
}

// Load reads path when it is set. A missing file keeps base; an unreadable
// or malformed file keeps base and logs a warning. A file that parses but
// holds an incomplete size is rejected with a ValidationError.
func Load(path string, base Settings) (Settings, error) {
	if path == "" {
		return base, nil
	}

	s, err := LoadFromFile(path, base)
	var ve *apperr.ValidationError
	switch {
	case err == nil:
		slog.Info("Loaded config file", "path", path)
		return s, nil
	case errors.As(err, &ve):
		return base, fmt.Errorf("config file %s: %w", path, err)
	case errors.Is(err, fs.ErrNotExist):
		slog.Info("Config file not found, using defaults", "path", path)
	default:
		slog.Warn("Failed to load config file, using defaults", "path", path, "error", err)
	}
	return base, nil
}

func (fc *fileConfig) apply(s Settings) (Settings, error) {
	d := fc.Defaults
	setIf(&s.Threads, d.Threads)
	setIf(&s.Warmup, d.Warmup)
	setIf(&s.Cycles, d.Cycles)
	setIf(&s.FlushCache, d.FlushCache)
	setIf(&s.Precision, d.Precision)
	setIf(&s.Backend, d.Backend)
	setIf(&s.Seed, d.Seed)
	setIf(&s.Format, d.Format)
	setIf(&s.Output, d.Output)

	if d.Level1Size != nil {
		s.Level1Size = domain.Some(*d.Level1Size)
	}
	switch set := countSet(d.Level2M, d.Level2N); set {
	case 0:
	case 2:
		s.Level2Size = domain.Some(domain.Size2{M: *d.Level2M, N: *d.Level2N})
	default:
		return s, apperr.NewValidationf("level 2 size needs both level2_m and level2_n, got %d of 2", set)
	}
	switch set := countSet(d.Level3M, d.Level3N, d.Level3K); set {
	case 0:
	case 3:
		s.Level3Size = domain.Some(domain.Size3{M: *d.Level3M, N: *d.Level3N, K: *d.Level3K})
	default:
		return s, apperr.NewValidationf("level 3 size needs level3_m, level3_n and level3_k, got %d of 3", set)
	}

	if f := fc.Functions.Level1; f != nil {
		s.Level1Ops = append([]string(nil), (*f)...)
	}
	if f := fc.Functions.Level2; f != nil {
		s.Level2Ops = append([]string(nil), (*f)...)
	}
	if f := fc.Functions.Level3; f != nil {
		s.Level3Ops = append([]string(nil), (*f)...)
	}

	s.Weights = maps.Clone(s.Weights)
	if s.Weights == nil {
		s.Weights = make(map[kernel.Level]map[string]float64)
	}
	for level, ws := range map[kernel.Level]map[string]float64{
		kernel.Level1: fc.Weights.Level1,
		kernel.Level2: fc.Weights.Level2,
		kernel.Level3: fc.Weights.Level3,
	} {
		if ws == nil {
			continue
		}
		m := make(map[string]float64, len(ws))
		for name, w := range ws {
			m[WeightKey(name)] = w
		}
		s.Weights[level] = m
	}

	return s, nil
}

func countSet(dims ...*int) int {
	n := 0
	for _, d := range dims {
		if d != nil {
			n++
		}
	}
	return n
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
