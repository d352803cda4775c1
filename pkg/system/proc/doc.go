// Package proc reads per-processor cycle counters from the operating system
// for utilization sampling (see pkg/cpuutil).
//
// Overview
//
//   - Source interface:
//     Dynamic() (DynamicInfo, error)
//     Processors(buf []ProcessorInfo) (int, error)
//
//     Dynamic reports how many processor slots exist (MaxProcCount, offline
//     slots included) and how many are online. Processors fills buf with one
//     record per slot in slot order and returns how many it wrote; callers
//     size buf from MaxProcCount.
//
//   - ProcessorInfo fields:
//     Index            : slot number
//     State            : StateEnabled or StateDisabled (offline, no counters)
//     IdleCycles       : 64-bit counter split into Hi/Lo halves (CycleCounter)
//     UserCycles       : same layout
//     SystemCycles     : same layout
//     InterruptCycles  : same layout
//     ITicksPerClkTick : counter units per system clock tick
//
//   - Backends:
//
//   - Linux: /proc/stat through prometheus/procfs, slot topology through
//     tklauser/numcpus. Slots run up to the highest possible CPU id, so
//     sparse masks keep every id on its own slot. Counters are ticks at the
//     ClockTicks rate, so ITicksPerClkTick is 1. Idle includes iowait, user
//     includes nice, interrupt is irq plus softirq.
//
//   - Other platforms: NewSource returns ErrUnsupported.
//
//   - Clock (clock.go):
//     ClockTicks() : CLK_TCK env override, then sysconf(_SC_CLK_TCK), then 100
//     OnlineCPUs() : online processor count, runtime.NumCPU on failure
//
//   - Errors (errs.go):
//     ErrUnsupported : no source for this platform
//     ErrNoCPU       : /proc/stat had no per-CPU lines
//     ErrShortBuffer : Processors called with an empty buffer
//
// Example
//
//	src, err := proc.NewSource()
//	if err != nil { /* handle */ }
//	info, _ := src.Dynamic()
//	buf := make([]proc.ProcessorInfo, info.MaxProcCount)
//	n, err := src.Processors(buf)
//	for _, p := range buf[:n] {
//		if p.State == proc.StateEnabled {
//			fmt.Println(p.Index, p.IdleCycles.Value())
//		}
//	}
package proc
