package cpuutil

import "errors"

var (
	// ErrZeroCycleBudget indicates that intended elapsed time, clock-tick rate
	// and ticks-per-clock-tick multiply to zero cycles, so no fraction can be formed.
	ErrZeroCycleBudget = errors.New("cpuutil: zero cycle budget")

	// ErrNoProcessors indicates that Compute was asked to average over zero CPUs.
	ErrNoProcessors = errors.New("cpuutil: no active processors")

	// ErrBadAccuracy indicates an Accuracy other than float or a supported power of ten.
	ErrBadAccuracy = errors.New("cpuutil: unsupported accuracy")

	// ErrNoSource indicates that New was called without a processor-info source.
	ErrNoSource = errors.New("cpuutil: nil source")
)
