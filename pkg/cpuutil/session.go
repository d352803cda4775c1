package cpuutil

import (
	"log/slog"
	"time"

	"github.com/ja7ad/cpuutil/pkg/system/proc"
	"github.com/ja7ad/cpuutil/pkg/types"
)

// Backend is the contract a CPU measurement backend offers the benchmarking
// tool: Init once, then Start/Stop around every workload run and Compute after.
type Backend interface {
	Init()
	Terminate()
	Method() Method
	Start()
	Stop()
	Calibrate(iterations int, interval time.Duration) float64
	Compute(actualElapsed float64) (float64, error)
}

var _ Backend = (*Session)(nil)

// Session measures utilization with hardware idle/user/kernel/interrupt cycle
// counters. It is not safe for concurrent use; the caller sequences
// Init, Start, Stop and Compute.
type Session struct {
	src   proc.Source
	log   *slog.Logger
	now   func() time.Time
	alloc func(n int) ([]proc.ProcessorInfo, error)
	exit  func(code int)

	clockTicks int
	accuracy   Accuracy

	maxProcCount     int
	iticksPerClkTick uint64

	starting []Counters
	ending   []Counters

	startedAt time.Time
	elapsed   float64

	perCPU []float64
	stats  Stats
	result Result
}

// New creates a session reading from src.
// Fields > 0 (or non-nil) in cfg override defaults; Accuracy must be valid.
func New(src proc.Source, cfg *Config) (*Session, error) {
	if src == nil {
		return nil, ErrNoSource
	}

	merged := *_defaultConfig()
	if cfg != nil {
		if cfg.ActiveCPUs > 0 {
			merged.ActiveCPUs = cfg.ActiveCPUs
		}
		if cfg.ClockTicks > 0 {
			merged.ClockTicks = cfg.ClockTicks
		}
		if !cfg.Accuracy.Valid() {
			return nil, ErrBadAccuracy
		}
		merged.Accuracy = cfg.Accuracy
		merged.Debug = cfg.Debug
		if cfg.Where != nil {
			merged.Where = cfg.Where
		}
		merged.Logger = cfg.Logger
		if cfg.Now != nil {
			merged.Now = cfg.Now
		}
		if cfg.Alloc != nil {
			merged.Alloc = cfg.Alloc
		}
		if cfg.Exit != nil {
			merged.Exit = cfg.Exit
		}
	}

	log := merged.Logger
	if log == nil {
		level := slog.LevelInfo
		if merged.Debug {
			level = slog.LevelDebug
		}
		log = slog.New(slog.NewTextHandler(merged.Where, &slog.HandlerOptions{Level: level}))
	}

	n := merged.ActiveCPUs
	return &Session{
		src:          src,
		log:          log,
		now:          merged.Now,
		alloc:        merged.Alloc,
		exit:         merged.Exit,
		clockTicks:   merged.ClockTicks,
		accuracy:     merged.Accuracy,
		maxProcCount: n,
		starting:     make([]Counters, n),
		ending:       make([]Counters, n),
		perCPU:       make([]float64, n),
	}, nil
}

// Init discovers the maximum processor slot count, disabled slots included.
// When the system cannot tell, the active count is used instead.
func (s *Session) Init() {
	info, err := s.src.Dynamic()
	if err != nil || info.MaxProcCount <= 0 {
		s.log.Debug("dynamic info unavailable; using active cpu count",
			"active", len(s.starting), "err", err)
		s.maxProcCount = len(s.starting)
		return
	}
	s.maxProcCount = info.MaxProcCount
}

// Terminate releases nothing; it exists for the backend contract.
func (s *Session) Terminate() {}

// Method reports MethodIdleCounter.
func (s *Session) Method() Method { return MethodIdleCounter }

// Calibrate always returns 0: utilization comes straight from counter
// ratios, so there is no idle rate to calibrate.
func (s *Session) Calibrate(iterations int, interval time.Duration) float64 {
	return 0
}

// Start captures the starting counters.
func (s *Session) Start() {
	s.startedAt = s.now()
	s.readCounters(s.starting)
}

// Stop captures the ending counters and records the wall time since Start as
// the intended elapsed time.
func (s *Session) Stop() {
	s.readCounters(s.ending)
	if !s.startedAt.IsZero() {
		s.elapsed = s.now().Sub(s.startedAt).Seconds()
	}
}

// SetElapsed overrides the intended elapsed time, in seconds.
func (s *Session) SetElapsed(seconds float64) { s.elapsed = seconds }

// Elapsed returns the intended elapsed time, in seconds.
func (s *Session) Elapsed() float64 { return s.elapsed }

// MaxProcCount returns the processor slot count discovered by Init.
func (s *Session) MaxProcCount() int { return s.maxProcCount }

// ActiveCPUs returns the number of processors results are reported for.
func (s *Session) ActiveCPUs() int { return len(s.starting) }

// Compute returns the average utilization percentage across active processors
// for the last Start/Stop pair. actualElapsed is the run time the workload
// measured itself; 0 disables the correction. Per-CPU results and Stats are
// overwritten on every call.
func (s *Session) Compute(actualElapsed float64) (float64, error) {
	s.stats = Stats{Method: s.Method()}
	clear(s.perCPU)

	in := Input{
		Intended:         s.elapsed,
		Actual:           actualElapsed,
		ClockTicks:       s.clockTicks,
		ITicksPerClkTick: s.iticksPerClkTick,
		Accuracy:         s.accuracy,
	}
	s.log.Debug("cycle budget inputs",
		"elapsed", in.Intended,
		"clk_tck", in.ClockTicks,
		"iticks_per_clktick", in.ITicksPerClkTick)

	res, err := Calculate(s.starting, s.ending, in)
	if err != nil {
		return 0, err
	}
	s.result = res

	if res.Correction < 0 {
		s.log.Debug("negative correction factor", "cf", res.Correction,
			"elapsed", in.Intended, "actual", actualElapsed)
	}
	for i, c := range res.PerCPU {
		s.perCPU[i] = c.Util
		s.log.Debug("cpu",
			"cpu", i,
			"total", types.ToCycles(c.Observed),
			"sanity", types.ToCycles(res.SanityCycles),
			"missing", c.Missing,
			"idle", c.FractionIdle,
			"user", c.FractionUser,
			"kernel", c.FractionKernel,
			"interrupt", c.FractionInterrupt,
			"est_interrupt", c.EstimatedInterrupt,
			"util", c.Util,
			"cf", res.Correction)
	}

	s.stats.CPUUtil = res.Util
	s.stats.PeakUtil = res.Peak
	s.stats.PeakCPU = res.PeakCPU
	s.log.Debug("cpu util", "avg", res.Util)
	return res.Util, nil
}

// PerCPU returns a copy of the per-processor utilization of the last Compute.
func (s *Session) PerCPU() []float64 {
	out := make([]float64, len(s.perCPU))
	copy(out, s.perCPU)
	return out
}

// Stats returns the aggregate of the last Compute.
func (s *Session) Stats() Stats { return s.stats }

// Result returns the full breakdown of the last successful Compute.
func (s *Session) Result() Result { return s.result }
