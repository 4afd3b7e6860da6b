// Package sysinfo collects a snapshot of the host: CPU model, core counts,
// cache sizes, memory and OS name. Linux sources are /proc and sysfs; every
// value has a fallback so collection never fails on other systems.
package sysinfo

import (
	"bufio"
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
)

const (
	DefaultL1Cache int64 = 32 << 10
	DefaultL2Cache int64 = 256 << 10
	DefaultL3Cache int64 = 8 << 20
	DefaultMemory  int64 = 16 << 30

	unknownCPU = "Unknown CPU"
	maxIndex   = 8
)

type Collector interface {
	Collect() (domain.SystemInfo, error)
}

// HostCollector reads host files under Root, "/" unless set.
type HostCollector struct {
	Root   string
	NumCPU func() int
	Memory func() (int64, error)
}

func NewHostCollector() *HostCollector {
	return &HostCollector{
		Root:   "/",
		NumCPU: runtime.NumCPU,
		Memory: totalMemory,
	}
}

func (c *HostCollector) Collect() (domain.SystemInfo, error) {
	cpuinfo := c.cpuinfo()

	info := domain.SystemInfo{
		CPUModel:     cpuModel(cpuinfo),
		LogicalCores: c.NumCPU(),
		OSName:       c.osName(),
		Arch:         runtime.GOARCH,
		GoVersion:    runtime.Version(),
		Features:     Features(),
	}

	info.PhysicalCores = physicalCores(cpuinfo)
	if info.PhysicalCores <= 0 {
		info.PhysicalCores = info.LogicalCores
	}
	info.ThreadsPerCore = 1
	if info.PhysicalCores > 0 && info.LogicalCores >= info.PhysicalCores {
		info.ThreadsPerCore = info.LogicalCores / info.PhysicalCores
	}

	info.FreqMHz = c.freqMHz(cpuinfo)

	caches := c.caches()
	info.L1Cache = valueOr(caches[1], DefaultL1Cache)
	info.L2Cache = valueOr(caches[2], DefaultL2Cache)
	info.L3Cache = valueOr(caches[3], DefaultL3Cache)

	mem, err := c.Memory()
	if err != nil || mem <= 0 {
		slog.Debug("Memory size unavailable, using default", "error", err)
		mem = DefaultMemory
	}
	info.TotalMemory = mem

	return info, nil
}

func (c *HostCollector) path(elem ...string) string {
	root := c.Root
	if root == "" {
		root = "/"
	}
	return filepath.Join(append([]string{root}, elem...)...)
}

func (c *HostCollector) read(elem ...string) string {
	data, err := os.ReadFile(c.path(elem...))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// cpuRecord is one processor block of /proc/cpuinfo.
type cpuRecord map[string]string

func (c *HostCollector) cpuinfo() []cpuRecord {
	data, err := os.ReadFile(c.path("proc", "cpuinfo"))
	if err != nil {
		return nil
	}
	return parseCPUInfo(data)
}

func parseCPUInfo(data []byte) []cpuRecord {
	var records []cpuRecord
	cur := cpuRecord{}

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			if len(cur) > 0 {
				records = append(records, cur)
				cur = cpuRecord{}
			}
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		cur[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if len(cur) > 0 {
		records = append(records, cur)
	}
	return records
}

func cpuModel(records []cpuRecord) string {
	for _, key := range []string{"model name", "Hardware", "Model"} {
		for _, r := range records {
			if v := r[key]; v != "" {
				return v
			}
		}
	}
	return unknownCPU
}

// physicalCores counts distinct (physical id, core id) pairs. It returns 0
// when cpuinfo carries no core ids.
func physicalCores(records []cpuRecord) int {
	seen := make(map[string]struct{})
	for _, r := range records {
		core, ok := r["core id"]
		if !ok {
			continue
		}
		seen[r["physical id"]+"/"+core] = struct{}{}
	}
	return len(seen)
}

func (c *HostCollector) freqMHz(records []cpuRecord) float64 {
	for _, r := range records {
		if v, ok := r["cpu MHz"]; ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
	}
	// cpuinfo_max_freq is in kHz
	if v := c.read("sys", "devices", "system", "cpu", "cpu0", "cpufreq", "cpuinfo_max_freq"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f / 1000
		}
	}
	return 0
}

// caches returns the size of each cache level of cpu0. Level 1 counts the
// data (or unified) cache only.
func (c *HostCollector) caches() map[int]int64 {
	out := make(map[int]int64, 3)
	for i := 0; i < maxIndex; i++ {
		dir := fmt.Sprintf("index%d", i)
		base := []string{"sys", "devices", "system", "cpu", "cpu0", "cache", dir}

		levelStr := c.read(append(base, "level")...)
		if levelStr == "" {
			continue
		}
		level, err := strconv.Atoi(levelStr)
		if err != nil {
			continue
		}
		if typ := c.read(append(base, "type")...); typ == "Instruction" {
			continue
		}
		if _, done := out[level]; done {
			continue
		}

		size, err := ParseCacheSize(c.read(append(base, "size")...))
		if err != nil {
			slog.Debug("Unreadable cache size", "index", i, "error", err)
			continue
		}
		out[level] = size
	}
	return out
}

// ParseCacheSize parses sysfs sizes such as "32K", "8M" or "1024".
func ParseCacheSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty cache size")
	}

	mult := int64(1)
	switch s[len(s)-1] {
	case 'K', 'k':
		mult = 1 << 10
		s = s[:len(s)-1]
	case 'M', 'm':
		mult = 1 << 20
		s = s[:len(s)-1]
	case 'G', 'g':
		mult = 1 << 30
		s = s[:len(s)-1]
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse cache size %q: %w", s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("cache size must be positive, got %d", n)
	}
	return n * mult, nil
}

func (c *HostCollector) osName() string {
	data := c.read("etc", "os-release")
	for _, line := range strings.Split(data, "\n") {
		if v, ok := strings.CutPrefix(line, "PRETTY_NAME="); ok {
			return strings.Trim(v, `"'`)
		}
	}
	if runtime.GOOS == "linux" {
		return "Linux"
	}
	return runtime.GOOS
}

func valueOr(v, def int64) int64 {
	if v > 0 {
		return v
	}
	return def
}
