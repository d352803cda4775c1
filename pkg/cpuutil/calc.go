package cpuutil

import (
	"math"
	"math/bits"

	"github.com/ja7ad/cpuutil/pkg/system/util"
)

// Calculate derives per-CPU and average utilization from two snapshots.
//
// The denominator of every fraction is the theoretical cycle budget
//
//	sanity = Intended * ClockTicks * ITicksPerClkTick
//
// rather than the sum of observed deltas: interrupt cycles are under-counted by
// the platform, so only the idle counter is trusted. Utilization per CPU is
//
//	(100 - idle/sanity*100) * correction
//
// where correction = 1 + (Intended-Actual)/Actual rescales to the time the
// workload actually ran (1 when Actual is 0). The correction is not clamped.
// A CPU whose counters did not move at all is reported as idle.
func Calculate(start, end []Counters, in Input) (Result, error) {
	n := min(len(start), len(end))
	if n == 0 {
		return Result{}, ErrNoProcessors
	}
	if !in.Accuracy.Valid() {
		return Result{}, ErrBadAccuracy
	}
	sanity, err := cycleBudget(in)
	if err != nil {
		return Result{}, err
	}

	cf := correctionFactor(in.Intended, in.Actual)
	res := Result{
		Correction:   cf,
		SanityCycles: sanity,
		PerCPU:       make([]CPUResult, n),
		PeakCPU:      -1,
	}

	utils := make([]float64, n)
	for i := range n {
		c := breakdown(end[i].Sub(start[i]), sanity, in.Accuracy)
		c.Util *= cf
		res.PerCPU[i] = c
		utils[i] = c.Util
		if res.PeakCPU < 0 || c.Util > res.Peak {
			res.Peak, res.PeakCPU = c.Util, i
		}
	}
	res.Util = util.Mean(utils)
	return res, nil
}

func cycleBudget(in Input) (uint64, error) {
	v := in.Intended * float64(in.ClockTicks) * float64(in.ITicksPerClkTick)
	if !(v >= 1) || math.IsInf(v, 0) {
		return 0, ErrZeroCycleBudget
	}
	if v >= math.MaxUint64 {
		return math.MaxUint64, nil
	}
	return uint64(v), nil
}

func correctionFactor(intended, actual float64) float64 {
	if actual == 0 {
		return 1
	}
	return 1 + (intended-actual)/actual
}

// breakdown computes the uncorrected utilization and diagnostic fractions of
// one CPU delta against the cycle budget.
func breakdown(d Counters, sanity uint64, acc Accuracy) CPUResult {
	c := CPUResult{Delta: d, Observed: d.Sum()}
	c.Missing = missing(sanity, c.Observed)

	if c.Observed == 0 {
		return c
	}

	if acc == AccuracyFloat {
		s := float64(sanity)
		c.FractionIdle = float64(d.Idle) / s
		c.FractionUser = float64(d.User) / s
		c.FractionKernel = float64(d.Kernel) / s
		c.FractionInterrupt = float64(d.Interrupt) / s
		c.EstimatedInterrupt = (float64(d.Interrupt) + float64(c.Missing)) / s
	} else {
		a := uint64(acc)
		c.FractionIdle = fixed(d.Idle, a, sanity)
		c.FractionUser = fixed(d.User, a, sanity)
		c.FractionKernel = fixed(d.Kernel, a, sanity)
		c.FractionInterrupt = fixed(d.Interrupt, a, sanity)
		c.EstimatedInterrupt = fixedSigned(d.Interrupt, c.Missing, a, sanity)
	}
	c.Util = 100 - c.FractionIdle*100
	return c
}

// fixed returns n/d truncated to 1/acc resolution, as a float.
func fixed(n, acc, d uint64) float64 {
	hi, lo := bits.Mul64(n, acc)
	if hi >= d {
		return float64(n) / float64(d)
	}
	q, _ := bits.Div64(hi, lo, d)
	return float64(q) / float64(acc)
}

func missing(sanity, observed uint64) int64 {
	if sanity >= observed {
		d := sanity - observed
		if d > math.MaxInt64 {
			return math.MaxInt64
		}
		return int64(d)
	}
	d := observed - sanity
	if d > math.MaxInt64 {
		return math.MinInt64
	}
	return -int64(d)
}

// fixedSigned is fixed for v+delta, keeping the sign when the sum is negative.
func fixedSigned(v uint64, delta int64, acc, d uint64) float64 {
	if delta >= 0 {
		return fixed(v+uint64(delta), acc, d)
	}
	neg := uint64(-(delta + 1)) + 1
	if neg <= v {
		return fixed(v-neg, acc, d)
	}
	return -fixed(neg-v, acc, d)
}
