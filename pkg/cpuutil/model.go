package cpuutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ja7ad/cpuutil/pkg/system/proc"
)

// Counters is one processor's cycle counters at a point in time.
type Counters struct {
	Idle      uint64
	User      uint64
	Kernel    uint64
	Interrupt uint64
}

// Sum returns Idle+User+Kernel+Interrupt. Overflow is not checked.
func (c Counters) Sum() uint64 {
	return c.Idle + c.User + c.Kernel + c.Interrupt
}

// Sub returns c-prev field by field. Counters are assumed monotonic and never
// wrapping between the two readings.
func (c Counters) Sub(prev Counters) Counters {
	return Counters{
		Idle:      c.Idle - prev.Idle,
		User:      c.User - prev.User,
		Kernel:    c.Kernel - prev.Kernel,
		Interrupt: c.Interrupt - prev.Interrupt,
	}
}

// Accuracy selects the numeric path of the calculator. AccuracyFloat uses
// float64 division; the others scale fractions by the given multiplier and
// use integer division, truncating below that resolution.
type Accuracy uint64

const (
	AccuracyFloat      Accuracy = 0
	AccuracyPercent    Accuracy = 100
	AccuracyTenth      Accuracy = 1000
	AccuracyHundredth  Accuracy = 10000
	AccuracyThousandth Accuracy = 100000
)

// Valid reports whether a is one of the supported accuracies.
func (a Accuracy) Valid() bool {
	switch a {
	case AccuracyFloat, AccuracyPercent, AccuracyTenth, AccuracyHundredth, AccuracyThousandth:
		return true
	}
	return false
}

func (a Accuracy) String() string {
	switch a {
	case AccuracyFloat:
		return "float"
	case AccuracyPercent:
		return "percent"
	case AccuracyTenth:
		return "tenth"
	case AccuracyHundredth:
		return "hundredth"
	case AccuracyThousandth:
		return "thousandth"
	default:
		return "invalid"
	}
}

// ParseAccuracy accepts the names returned by String.
func ParseAccuracy(s string) (Accuracy, error) {
	for _, a := range []Accuracy{AccuracyFloat, AccuracyPercent, AccuracyTenth, AccuracyHundredth, AccuracyThousandth} {
		if s == a.String() {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadAccuracy, s)
}

// Config configures a Session. Zero values are replaced by defaults.
type Config struct {
	// ActiveCPUs is the number of online processors results are reported for.
	ActiveCPUs int
	// ClockTicks is the system clock-tick rate (ticks per second).
	ClockTicks int
	Accuracy   Accuracy

	// Debug enables per-counter and per-CPU traces on Where.
	Debug bool
	Where io.Writer
	// Logger overrides Debug/Where when set.
	Logger *slog.Logger

	Now   func() time.Time
	Alloc func(n int) ([]proc.ProcessorInfo, error)
	Exit  func(code int)
}

func _defaultConfig() *Config {
	return &Config{
		ActiveCPUs: proc.OnlineCPUs(),
		ClockTicks: proc.ClockTicks(),
		Accuracy:   AccuracyFloat,
		Where:      os.Stderr,
		Now:        time.Now,
		Alloc:      allocProcessors,
		Exit:       os.Exit,
	}
}

// Input is everything Calculate needs besides the two snapshots.
type Input struct {
	// Intended is the elapsed time in seconds the snapshots span.
	Intended float64
	// Actual is the elapsed time the workload itself measured; 0 disables correction.
	Actual           float64
	ClockTicks       int
	ITicksPerClkTick uint64
	Accuracy         Accuracy
}

// CPUResult is the per-processor breakdown of one calculation. Fractions are
// relative to the theoretical cycle budget, not to Observed.
type CPUResult struct {
	Delta    Counters
	Observed uint64
	// Missing is budget minus observed cycles; negative when more cycles were
	// counted than the budget allows.
	Missing int64

	FractionIdle      float64
	FractionUser      float64
	FractionKernel    float64
	FractionInterrupt float64
	// EstimatedInterrupt charges all missing cycles to interrupt; negative when
	// more cycles were counted than the budget allows, on either numeric path.
	EstimatedInterrupt float64

	// Util is the corrected utilization percentage.
	Util float64
}

// Result is the outcome of one calculation.
type Result struct {
	Util         float64
	Correction   float64
	SanityCycles uint64
	PerCPU       []CPUResult
	Peak         float64
	PeakCPU      int
}

// Stats is the aggregate a Session exposes after Compute.
type Stats struct {
	CPUUtil  float64
	PeakUtil float64
	PeakCPU  int
	Method   Method
}
