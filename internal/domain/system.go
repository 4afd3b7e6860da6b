package domain

// SystemInfo is a snapshot of the host the benchmark ran on.
type SystemInfo struct {
	CPUModel       string   `json:"cpuModel"`
	LogicalCores   int      `json:"logicalCores"`
	PhysicalCores  int      `json:"physicalCores"`
	ThreadsPerCore int      `json:"threadsPerCore"`
	FreqMHz        float64  `json:"freqMhz,omitempty"`
	L1Cache        int64    `json:"l1CacheBytes"`
	L2Cache        int64    `json:"l2CacheBytes"`
	L3Cache        int64    `json:"l3CacheBytes"`
	TotalMemory    int64    `json:"totalMemoryBytes"`
	OSName         string   `json:"osName"`
	Arch           string   `json:"arch"`
	GoVersion      string   `json:"goVersion"`
	Features       []string `json:"features,omitempty"`
}

// TotalCache is the sum of all cache levels in bytes.
func (s SystemInfo) TotalCache() int64 {
	return s.L1Cache + s.L2Cache + s.L3Cache
}
