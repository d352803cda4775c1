package proc

import "errors"

var (
	// ErrUnsupported indicates that no processor-info source exists for this platform.
	ErrUnsupported = errors.New("proc: unsupported platform")

	// ErrNoCPU indicates that /proc/stat had no per-CPU lines.
	ErrNoCPU = errors.New("proc: no per-cpu lines")

	// ErrShortBuffer indicates that Processors was handed an empty record buffer.
	ErrShortBuffer = errors.New("proc: short buffer")
)
