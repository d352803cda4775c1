//go:build linux

package proc

import (
	"fmt"
	"math"

	"github.com/prometheus/procfs"
	"github.com/tklauser/numcpus"
)

// procSource reads processor slots from /proc/stat. Offline CPUs have no
// cpuN line there and are reported as disabled.
//
// procfs reports the counters in seconds; they are turned back into ticks at
// the ClockTicks rate so counters and cycle budget share one unit.
type procSource struct {
	fs    procfs.FS
	ticks float64
}

// NewSource returns the Linux processor-info source rooted at /proc.
func NewSource() (Source, error) {
	return NewSourceFS(procfs.DefaultMountPoint)
}

// NewSourceFS is NewSource with a custom proc mount point.
func NewSourceFS(mountPoint string) (Source, error) {
	fs, err := procfs.NewFS(mountPoint)
	if err != nil {
		return nil, fmt.Errorf("proc: init procfs: %w", err)
	}
	return &procSource{fs: fs, ticks: float64(ClockTicks())}, nil
}

func (s *procSource) Dynamic() (DynamicInfo, error) {
	ids, err := numcpus.ListPossible()
	if err != nil {
		return DynamicInfo{}, fmt.Errorf("proc: possible cpus: %w", err)
	}
	possible := slotCount(ids)
	if possible == 0 {
		return DynamicInfo{}, ErrNoCPU
	}
	online, err := numcpus.GetOnline()
	if err != nil {
		return DynamicInfo{}, fmt.Errorf("proc: online cpus: %w", err)
	}
	return DynamicInfo{MaxProcCount: possible, ActiveProcCount: online}, nil
}

// slotCount is the highest CPU id plus one; possible masks may be sparse
// (0-3,8-11), and every id must land on its own slot.
func slotCount(ids []int) int {
	n := 0
	for _, id := range ids {
		if id+1 > n {
			n = id + 1
		}
	}
	return n
}

func (s *procSource) Processors(buf []ProcessorInfo) (int, error) {
	if len(buf) == 0 {
		return 0, ErrShortBuffer
	}
	stat, err := s.fs.Stat()
	if err != nil {
		return 0, fmt.Errorf("proc: read stat: %w", err)
	}
	if len(stat.CPU) == 0 {
		return 0, ErrNoCPU
	}

	for k := range buf {
		info := ProcessorInfo{Index: k, State: StateDisabled, ITicksPerClkTick: 1}
		if c, ok := stat.CPU[int64(k)]; ok {
			info.State = StateEnabled
			info.IdleCycles = SplitCycles(s.jiffies(c.Idle + c.Iowait))
			info.UserCycles = SplitCycles(s.jiffies(c.User + c.Nice))
			info.SystemCycles = SplitCycles(s.jiffies(c.System))
			info.InterruptCycles = SplitCycles(s.jiffies(c.IRQ + c.SoftIRQ))
		}
		buf[k] = info
	}
	return len(buf), nil
}

func (s *procSource) jiffies(sec float64) uint64 {
	if !(sec > 0) {
		return 0
	}
	return uint64(math.Round(sec * s.ticks))
}
