package cpuutil

import (
	"errors"
	"time"

	"github.com/ja7ad/cpuutil/pkg/system/proc"
)

var errQuery = errors.New("fake: query failed")

// fakeSource replays one record set per Processors call; the last set repeats.
type fakeSource struct {
	dyn    proc.DynamicInfo
	dynErr error

	sets  [][]proc.ProcessorInfo
	err   error
	calls int
}

func (f *fakeSource) Dynamic() (proc.DynamicInfo, error) {
	return f.dyn, f.dynErr
}

func (f *fakeSource) Processors(buf []proc.ProcessorInfo) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	if len(f.sets) == 0 {
		return 0, nil
	}
	set := f.sets[0]
	if len(f.sets) > 1 {
		f.sets = f.sets[1:]
	}
	return copy(buf, set), nil
}

func enabled(idx int, idle, user, kern, intr, iticks uint64) proc.ProcessorInfo {
	return proc.ProcessorInfo{
		Index:            idx,
		State:            proc.StateEnabled,
		IdleCycles:       proc.SplitCycles(idle),
		UserCycles:       proc.SplitCycles(user),
		SystemCycles:     proc.SplitCycles(kern),
		InterruptCycles:  proc.SplitCycles(intr),
		ITicksPerClkTick: iticks,
	}
}

func disabled(idx int) proc.ProcessorInfo {
	return proc.ProcessorInfo{Index: idx, State: proc.StateDisabled}
}

// stepClock returns t0, t0+step, t0+2*step, ... on successive calls.
func stepClock(step time.Duration) func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now := t
		t = t.Add(step)
		return now
	}
}
