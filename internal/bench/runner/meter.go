package runner

import (
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/blas-bench/internal/bench/cache"
	"github.com/DjordjeVuckovic/blas-bench/internal/bench/kernel"
	"github.com/DjordjeVuckovic/blas-bench/internal/bench/timer"
)

// Measurement is the outcome of the timed cycles of one operation.
type Measurement struct {
	Samples []float64
}

// Meter runs warmup and timed cycles of a kernel call. Before every warmup
// and every timed call it restores the operands and evicts the caches,
// outside the timed interval. A nil evictor disables eviction.
type Meter struct {
	timer      *timer.Timer
	evictor    cache.Evictor
	evictBytes int64
}

func NewMeter(clock timer.Clock, evictor cache.Evictor, evictBytes int64) *Meter {
	if evictor == nil {
		evictor = cache.Nop{}
	}
	return &Meter{
		timer:      timer.New(clock),
		evictor:    evictor,
		evictBytes: evictBytes,
	}
}

func (m *Meter) Measure(inv kernel.Invoker, warmup, cycles int) (Measurement, error) {
	if cycles < 1 {
		return Measurement{}, fmt.Errorf("cycles must be at least 1, got %d", cycles)
	}
	if warmup < 0 {
		return Measurement{}, fmt.Errorf("warmup must not be negative, got %d", warmup)
	}

	for i := 0; i < warmup; i++ {
		if err := m.prepare(inv); err != nil {
			return Measurement{}, err
		}
		if err := inv.Invoke(); err != nil {
			return Measurement{}, err
		}
	}

	samples := make([]float64, 0, cycles)
	for i := 0; i < cycles; i++ {
		if err := m.prepare(inv); err != nil {
			return Measurement{}, err
		}

		m.timer.Start()
		err := inv.Invoke()
		m.timer.Stop()
		if err != nil {
			return Measurement{}, err
		}

		ms := m.timer.ElapsedMs()
		samples = append(samples, ms)
		slog.Debug("Cycle finished", "cycle", i+1, "of", cycles, "ms", ms)
	}

	return Measurement{Samples: samples}, nil
}

func (m *Meter) prepare(inv kernel.Invoker) error {
	inv.Reset()
	if err := m.evictor.Evict(m.evictBytes); err != nil {
		return fmt.Errorf("evict cache: %w", err)
	}
	return nil
}
