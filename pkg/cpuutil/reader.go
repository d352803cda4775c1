package cpuutil

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/ja7ad/cpuutil/pkg/system/proc"
)

// maxScratch bounds the scratch buffer; no host has this many processor slots.
const maxScratch = 1 << 20

var errAlloc = errors.New("cpuutil: scratch allocation")

func allocProcessors(n int) ([]proc.ProcessorInfo, error) {
	if n <= 0 || n > maxScratch {
		return nil, fmt.Errorf("%w: %d records", errAlloc, n)
	}
	return make([]proc.ProcessorInfo, n), nil
}

// readCounters fills dst with one entry per enabled processor slot, in slot
// order. A failed query leaves dst untouched; a failed scratch allocation is
// fatal to the process.
func (s *Session) readCounters(dst []Counters) {
	buf, err := s.alloc(s.maxProcCount)
	if err != nil {
		s.log.Error("processor buffer allocation failed",
			"records", s.maxProcCount,
			"bytes", uintptr(s.maxProcCount)*unsafe.Sizeof(proc.ProcessorInfo{}),
			"err", err)
		s.exit(1)
		return
	}

	n, err := s.src.Processors(buf)
	if err != nil {
		s.log.Debug("processor query failed; snapshot left unchanged", "err", err)
		return
	}
	n = min(n, len(buf))
	if n == 0 {
		return
	}

	// assumed identical on every processor
	s.iticksPerClkTick = buf[0].ITicksPerClkTick

	i, j := 0, 0
	for i < len(dst) && j < n {
		if buf[j].State == proc.StateDisabled {
			j++
			continue
		}
		dst[i] = Counters{
			Idle:      buf[j].IdleCycles.Value(),
			User:      buf[j].UserCycles.Value(),
			Kernel:    buf[j].SystemCycles.Value(),
			Interrupt: buf[j].InterruptCycles.Value(),
		}
		s.log.Debug("counters",
			"cpu", i,
			"slot", buf[j].Index,
			"idle", fmt.Sprintf("%#x", dst[i].Idle),
			"user", fmt.Sprintf("%#x", dst[i].User),
			"kern", fmt.Sprintf("%#x", dst[i].Kernel),
			"intr", fmt.Sprintf("%#x", dst[i].Interrupt))
		i++
		j++
	}
}
