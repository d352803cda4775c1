package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ja7ad/cpuutil/pkg/cpuutil"
	"github.com/ja7ad/cpuutil/pkg/system/proc"
	"github.com/ja7ad/cpuutil/pkg/system/util"
	"github.com/ja7ad/cpuutil/pkg/types"
)

type opts struct {
	// sampling
	samples  int
	duration time.Duration
	ema      float64
	accuracy string
	debug    bool

	// outputs
	pretty   bool
	csvPath  string
	jsonPath string

	config string
}

func main() {
	// .env may carry CLK_TCK and friends; absence is fine
	_ = godotenv.Load()

	var o opts

	root := &cobra.Command{
		Use:   "cpuutil [flags] [-- command [args...]]",
		Short: "Per-CPU utilization from idle/user/kernel/interrupt cycle counters",
		Long: `cpuutil snapshots every online processor's cycle counters before and
after a workload and reports per-CPU and average utilization. Utilization is
derived from the idle counter against the theoretical cycle budget of the
interval (elapsed * CLK_TCK * ticks-per-clock-tick), then rescaled by the
ratio of measured to workload-reported run time.

With a command, each sample runs the command as the workload. Without one,
each sample sleeps for --duration and measures whatever else the host does.

Examples:
  cpuutil -s 5 -d 2s
  cpuutil --json out.json -- make -j8
  cpuutil --config cpuutil.yaml --debug -- ./bench`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if o.config == "" {
				return nil
			}
			return applyFile(cmd.Flags(), o.config, &o)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), o, args)
		},
	}

	bindFlags(root.Flags(), &o)

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, o opts, args []string) error {
	if o.samples < 0 {
		return fmt.Errorf("samples must be >= 0")
	}
	if len(args) == 0 && o.duration <= 0 {
		return fmt.Errorf("duration must be > 0 without a command")
	}
	if o.ema < 0 || o.ema > 1 {
		return fmt.Errorf("ema must be in [0,1]")
	}
	acc, err := cpuutil.ParseAccuracy(o.accuracy)
	if err != nil {
		return err
	}

	src, err := proc.NewSource()
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}

	rep, err := newReporter(o)
	if err != nil {
		return err
	}
	defer rep.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &cpuutil.Config{
		Accuracy: acc,
		Debug:    o.debug,
		Where:    os.Stderr,
	}
	return measure(ctx, src, cfg, o, rep, func(ctx context.Context) (float64, error) {
		return workload(ctx, o.duration, args)
	})
}

// measure drives Start, work, Stop and Compute for every sample and feeds the
// reporter. A cancelled work function ends the run early with a summary of the
// samples taken so far.
func measure(ctx context.Context, src proc.Source, cfg *cpuutil.Config, o opts, rep *reporter,
	work func(context.Context) (float64, error)) error {
	sess, err := cpuutil.New(src, cfg)
	if err != nil {
		return err
	}
	sess.Init()
	defer sess.Terminate()

	runID := uuid.NewString()
	host, kernel, cpus := util.SystemSummary()
	fmt.Fprintf(rep.out, _console, host, kernel, cpus, sess.MaxProcCount(), sess.Method(), proc.ClockTicks(),
		cfg.Accuracy, runID, time.Now().Format("2006-01-02 15:04:05"))
	rep.Header()

	ema := util.NewEMA(o.ema)
	perCPUSum := make([]float64, sess.ActiveCPUs())
	var utils []float64

	for n := 1; o.samples == 0 || n <= o.samples; n++ {
		sess.Start()
		actual, err := work(ctx)
		sess.Stop()
		if err != nil {
			if errors.Is(err, context.Canceled) {
				slog.Info("interrupted")
				break
			}
			return err
		}

		avg, err := sess.Compute(actual)
		if err != nil {
			return fmt.Errorf("sample %d: %w", n, err)
		}
		utils = append(utils, avg)
		per := sess.PerCPU()
		for i, v := range per {
			perCPUSum[i] += v
		}

		res := sess.Result()
		st := sess.Stats()
		rep.Write(row{
			RunID:      runID,
			Sample:     n,
			At:         time.Now(),
			Elapsed:    sess.Elapsed(),
			Actual:     actual,
			Correction: res.Correction,
			Util:       avg,
			Smoothed:   ema.Next(avg),
			Peak:       st.PeakUtil,
			PeakCPU:    st.PeakCPU,
			PerCPU:     per,
			Sanity:     types.ToCycles(res.SanityCycles),
			Method:     st.Method.String(),
		})
	}

	if len(utils) == 0 {
		return nil
	}
	for i := range perCPUSum {
		perCPUSum[i] /= float64(len(utils))
	}
	rep.Summary(len(utils), util.Mean(utils), ema.Value(), perCPUSum)
	return nil
}

// workload runs one measured unit of work and returns how long it took by its
// own account: the command's run time, or the requested sleep.
func workload(ctx context.Context, d time.Duration, args []string) (float64, error) {
	if len(args) == 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-t.C:
			return d.Seconds(), nil
		}
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start).Seconds()
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}
	if err != nil {
		return 0, fmt.Errorf("workload %q: %w", args[0], err)
	}
	return elapsed, nil
}

const _console = `cpuutil - Idle-Cycle CPU Utilization

       Host: %s
       Kernel: %s
       CPUs: %s online, %d slots
       Method: %s, CLK_TCK %d, accuracy %s
       Run: %s

Utilization report as of %s:

`
