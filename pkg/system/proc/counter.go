package proc

// CycleCounter is a 64-bit monotonic cycle count reported as two 32-bit halves.
// Only the low 32 bits of each half are meaningful.
type CycleCounter struct {
	Hi uint32
	Lo uint32
}

// Value reassembles the counter as (Hi << 32) + Lo.
func (c CycleCounter) Value() uint64 {
	return uint64(c.Hi)<<32 + uint64(c.Lo)
}

// SplitCycles is the inverse of Value.
func SplitCycles(v uint64) CycleCounter {
	return CycleCounter{Hi: uint32(v >> 32), Lo: uint32(v)}
}

type ProcessorState int

const (
	StateEnabled ProcessorState = iota
	StateDisabled
)

func (s ProcessorState) String() string {
	switch s {
	case StateEnabled:
		return "enabled"
	case StateDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// ProcessorInfo is one processor slot as reported by a Source.
type ProcessorInfo struct {
	Index int
	State ProcessorState

	IdleCycles      CycleCounter
	UserCycles      CycleCounter
	SystemCycles    CycleCounter
	InterruptCycles CycleCounter

	// ITicksPerClkTick converts the cycle counter rate into clock ticks.
	ITicksPerClkTick uint64
}

// DynamicInfo carries system-wide processor slot counts.
type DynamicInfo struct {
	// MaxProcCount includes disabled slots.
	MaxProcCount    int
	ActiveProcCount int
}

// Source reports per-processor cycle counters.
type Source interface {
	// Dynamic returns the current processor slot counts.
	Dynamic() (DynamicInfo, error)
	// Processors fills buf with up to len(buf) records in slot order in a
	// single query and returns how many were written.
	Processors(buf []ProcessorInfo) (int, error)
}
