package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja7ad/cpuutil/pkg/cpuutil"
	"github.com/ja7ad/cpuutil/pkg/system/proc"
)

// replaySource hands out one record set per Processors call; the last repeats.
type replaySource struct {
	sets [][]proc.ProcessorInfo
}

func (r *replaySource) Dynamic() (proc.DynamicInfo, error) {
	return proc.DynamicInfo{MaxProcCount: 2, ActiveProcCount: 2}, nil
}

func (r *replaySource) Processors(buf []proc.ProcessorInfo) (int, error) {
	set := r.sets[0]
	if len(r.sets) > 1 {
		r.sets = r.sets[1:]
	}
	return copy(buf, set), nil
}

// cpu records with 1000 cycles per tick, so 1s at 1000 ticks/s is a 1,000,000 budget
func cpus(idleUser ...uint64) []proc.ProcessorInfo {
	var out []proc.ProcessorInfo
	for i := 0; i+1 < len(idleUser); i += 2 {
		out = append(out, proc.ProcessorInfo{
			Index:            len(out),
			State:            proc.StateEnabled,
			IdleCycles:       proc.SplitCycles(idleUser[i]),
			UserCycles:       proc.SplitCycles(idleUser[i+1]),
			ITicksPerClkTick: 1000,
		})
	}
	return out
}

func oneSecondClock() func() time.Time {
	t := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now := t
		t = t.Add(time.Second)
		return now
	}
}

func testConfig() *cpuutil.Config {
	return &cpuutil.Config{
		ActiveCPUs: 2,
		ClockTicks: 1000,
		Now:        oneSecondClock(),
		Where:      io.Discard,
	}
}

func fixedWork(d float64) func(context.Context) (float64, error) {
	return func(context.Context) (float64, error) { return d, nil }
}

func TestMeasure_SampleLoop(t *testing.T) {
	src := &replaySource{sets: [][]proc.ProcessorInfo{
		cpus(0, 0, 0, 0),
		// sample 1: cpu0 50%, cpu1 idle
		cpus(500_000, 500_000, 1_000_000, 0),
		cpus(500_000, 500_000, 1_000_000, 0),
		// sample 2: cpu0 busy, cpu1 idle
		cpus(500_000, 1_500_000, 2_000_000, 0),
	}}
	jsonPath := filepath.Join(t.TempDir(), "run.json")
	o := opts{samples: 2, ema: 0.5, pretty: true, jsonPath: jsonPath}

	var out bytes.Buffer
	rep, err := newReporterTo(&out, o)
	require.NoError(t, err)

	require.NoError(t, measure(context.Background(), src, testConfig(), o, rep, fixedWork(1)))
	rep.Close()

	b, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var rows []row
	require.NoError(t, json.Unmarshal(b, &rows))
	require.Len(t, rows, 2)

	assert.InDelta(t, 25.0, rows[0].Util, 1e-9)
	assert.InDelta(t, 25.0, rows[0].Smoothed, 1e-9)
	assert.Equal(t, []float64{50, 0}, rows[0].PerCPU)
	assert.InDelta(t, 1.0, rows[0].Elapsed, 1e-9)
	assert.Equal(t, uint64(1_000_000), rows[0].Sanity.ToUint64())

	assert.InDelta(t, 50.0, rows[1].Util, 1e-9)
	assert.InDelta(t, 37.5, rows[1].Smoothed, 1e-9, "ema of 25 then 50 at alpha 0.5")
	assert.InDelta(t, 100.0, rows[1].Peak, 1e-9)
	assert.Equal(t, 0, rows[1].PeakCPU)
	assert.Equal(t, rows[0].RunID, rows[1].RunID)
	assert.Equal(t, "idle counter", rows[1].Method)

	s := out.String()
	assert.Contains(t, s, "Summary over 2 sample(s)")
	assert.Contains(t, s, "Avg CPU util: 37.50 %")
	assert.Contains(t, s, "EMA CPU util: 37.50 %")
	assert.Regexp(t, `(?m)^\s+0\s+75\.00$`, s)
	assert.Regexp(t, `(?m)^\s+1\s+0\.00$`, s)
}

func TestMeasure_CorrectionFromWorkload(t *testing.T) {
	src := &replaySource{sets: [][]proc.ProcessorInfo{
		cpus(0, 0, 0, 0),
		cpus(750_000, 250_000, 750_000, 250_000),
	}}
	o := opts{samples: 1, ema: 0.5, jsonPath: filepath.Join(t.TempDir(), "run.json")}
	rep, err := newReporterTo(io.Discard, o)
	require.NoError(t, err)

	// the workload reports half the wall time the snapshots span
	require.NoError(t, measure(context.Background(), src, testConfig(), o, rep, fixedWork(0.5)))
	rep.Close()

	b, err := os.ReadFile(o.jsonPath)
	require.NoError(t, err)
	var rows []row
	require.NoError(t, json.Unmarshal(b, &rows))
	require.Len(t, rows, 1)
	assert.InDelta(t, 2.0, rows[0].Correction, 1e-12)
	assert.InDelta(t, 50.0, rows[0].Util, 1e-9)
	assert.InDelta(t, 0.5, rows[0].Actual, 1e-12)
}

func TestMeasure_StopsOnCancel(t *testing.T) {
	src := &replaySource{sets: [][]proc.ProcessorInfo{
		cpus(0, 0, 0, 0),
		cpus(500_000, 500_000, 500_000, 500_000),
	}}
	n := 0
	work := func(context.Context) (float64, error) {
		n++
		if n == 2 {
			return 0, context.Canceled
		}
		return 1, nil
	}
	var out bytes.Buffer
	o := opts{samples: 0, ema: 0.5}
	rep, err := newReporterTo(&out, o)
	require.NoError(t, err)

	require.NoError(t, measure(context.Background(), src, testConfig(), o, rep, work))
	assert.Equal(t, 2, n)
	assert.Contains(t, out.String(), "Summary over 1 sample(s)")
}

func TestMeasure_Errors(t *testing.T) {
	t.Run("workload_failure", func(t *testing.T) {
		src := &replaySource{sets: [][]proc.ProcessorInfo{cpus(0, 0, 0, 0)}}
		boom := errors.New("exit status 2")
		rep, err := newReporterTo(io.Discard, opts{})
		require.NoError(t, err)

		err = measure(context.Background(), src, testConfig(), opts{samples: 1}, rep,
			func(context.Context) (float64, error) { return 0, boom })
		assert.ErrorIs(t, err, boom)
	})
	t.Run("zero_cycle_budget", func(t *testing.T) {
		src := &replaySource{sets: [][]proc.ProcessorInfo{cpus(0, 0, 0, 0)}}
		cfg := testConfig()
		cfg.Now = func() time.Time { return time.Unix(0, 0) }
		rep, err := newReporterTo(io.Discard, opts{})
		require.NoError(t, err)

		err = measure(context.Background(), src, cfg, opts{samples: 1}, rep, fixedWork(1))
		assert.ErrorIs(t, err, cpuutil.ErrZeroCycleBudget)
	})
}
