package main

import (
	"fmt"

	"github.com/DjordjeVuckovic/blas-bench/internal/config"
	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
	"github.com/spf13/pflag"
)

const defaultConfigPath = "config.toml"

type cliFlags struct {
	Threads    int
	Cycles     int
	Warmup     int
	Level1     string
	Level2     string
	Level3     string
	Output     string
	Format     string
	ConfigPath string
	Verbose    bool
	SystemInfo bool
	Precision  string
	Backend    string
	NoFlush    bool
	Seed       uint64
	Store      string
	LogFormat  string
	LogFile    string
	EnvPath    string
}

func (f *cliFlags) register(fs *pflag.FlagSet) {
	fs.IntVarP(&f.Threads, "threads", "t", config.DefaultThreads, "Number of threads")
	fs.IntVarP(&f.Cycles, "cycle", "c", config.DefaultCycles, "Number of benchmark cycles")
	fs.IntVarP(&f.Warmup, "warmup", "w", config.DefaultWarmup, "Number of warmup iterations")
	fs.StringVarP(&f.Level1, "level1", "1", "", "Level 1 vector size (N)")
	fs.StringVarP(&f.Level2, "level2", "2", "", "Level 2 matrix size (M,N)")
	fs.StringVarP(&f.Level3, "level3", "3", "", "Level 3 matrix size (M,N,K)")
	fs.StringVarP(&f.Output, "output", "o", "", "Output file path (stdout when empty)")
	fs.StringVarP(&f.Format, "format", "f", config.DefaultFormat, "Output format (markdown|csv|json|table)")
	fs.StringVarP(&f.ConfigPath, "config", "C", defaultConfigPath, "Configuration file path (.toml, .yaml)")
	fs.BoolVarP(&f.Verbose, "verbose", "v", false, "Enable verbose output")
	fs.BoolVarP(&f.SystemInfo, "system-info", "s", false, "Show system information only")
	fs.StringVar(&f.Precision, "precision", "double", "Floating point precision (double|single)")
	fs.StringVar(&f.Backend, "backend", "gonum", "BLAS backend (gonum|openblas)")
	fs.BoolVar(&f.NoFlush, "no-flush", false, "Disable cache eviction between calls")
	fs.Uint64Var(&f.Seed, "seed", config.DefaultSeed, "Seed for operand data")
	fs.StringVar(&f.Store, "store", "", "Persist the report (pg|es|sqlite|in_mem); defaults to STORAGE_TYPE")
	fs.StringVar(&f.LogFormat, "log-format", "text", "Log format (text|json)")
	fs.StringVar(&f.LogFile, "log-file", "", "Also write JSON logs to this file")
	fs.StringVar(&f.EnvPath, "env-file", ".env", "Path of the .env file with storage settings")
}

// overlay applies the flags the user set explicitly on top of s.
func (f *cliFlags) overlay(fs *pflag.FlagSet, s config.Settings) (config.Settings, error) {
	if fs.Changed("threads") {
		s.Threads = f.Threads
	}
	if fs.Changed("cycle") {
		s.Cycles = f.Cycles
	}
	if fs.Changed("warmup") {
		s.Warmup = f.Warmup
	}
	if fs.Changed("format") {
		s.Format = f.Format
	}
	if fs.Changed("output") {
		s.Output = f.Output
	}
	if fs.Changed("precision") {
		s.Precision = f.Precision
	}
	if fs.Changed("backend") {
		s.Backend = f.Backend
	}
	if fs.Changed("no-flush") {
		s.FlushCache = !f.NoFlush
	}
	if fs.Changed("seed") {
		s.Seed = f.Seed
	}

	if fs.Changed("level1") {
		n, err := config.ParseSize(f.Level1)
		if err != nil {
			return s, fmt.Errorf("invalid level1 size %q: %w", f.Level1, err)
		}
		s.Level1Size = domain.Some(n)
	}
	if fs.Changed("level2") {
		sz, err := config.ParseSizePair(f.Level2)
		if err != nil {
			return s, fmt.Errorf("invalid level2 size format %q, expected M,N: %w", f.Level2, err)
		}
		s.Level2Size = domain.Some(sz)
	}
	if fs.Changed("level3") {
		sz, err := config.ParseSizeTriple(f.Level3)
		if err != nil {
			return s, fmt.Errorf("invalid level3 size format %q, expected M,N,K: %w", f.Level3, err)
		}
		s.Level3Size = domain.Some(sz)
	}

	return s, nil
}
