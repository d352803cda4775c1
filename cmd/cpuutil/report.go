package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ja7ad/cpuutil/pkg/system/util"
	"github.com/ja7ad/cpuutil/pkg/types"
)

type row struct {
	RunID      string       `json:"run_id"`
	Sample     int          `json:"sample"`
	At         time.Time    `json:"time"`
	Elapsed    float64      `json:"elapsed_sec"`
	Actual     float64      `json:"actual_sec"`
	Correction float64      `json:"correction"`
	Util       float64      `json:"cpu_util"`
	Smoothed   float64      `json:"cpu_util_ema"`
	Peak       float64      `json:"peak_util"`
	PeakCPU    int          `json:"peak_cpu"`
	PerCPU     []float64    `json:"per_cpu_util"`
	Sanity     types.Cycles `json:"sanity_cycles"`
	Method     string       `json:"method"`
}

var _csvHeader = []string{
	"run_id", "sample", "time", "elapsed_sec", "actual_sec", "correction",
	"cpu_util", "cpu_util_ema", "peak_util", "peak_cpu", "sanity_cycles", "per_cpu_util",
}

// reporter fans every sample out to stdout and the optional CSV/JSON files.
type reporter struct {
	out    io.Writer
	tw     *tabwriter.Writer
	pretty bool

	csvF  *os.File
	csvW  *csv.Writer
	jsonF *os.File
	jsonN int
}

func newReporter(o opts) (*reporter, error) {
	return newReporterTo(os.Stdout, o)
}

func newReporterTo(out io.Writer, o opts) (*reporter, error) {
	r := &reporter{out: out, pretty: o.pretty}
	if o.pretty {
		r.tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	}

	if o.csvPath != "" {
		f, err := create(o.csvPath)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("csv: %w", err)
		}
		r.csvF = f
		r.csvW = csv.NewWriter(f)
		_ = r.csvW.Write(_csvHeader)
		r.csvW.Flush()
	}
	if o.jsonPath != "" {
		f, err := create(o.jsonPath)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("json: %w", err)
		}
		r.jsonF = f
		_, _ = f.WriteString("[\n")
	}
	return r, nil
}

// Header prints the stdout column header.
func (r *reporter) Header() {
	if r.pretty {
		fmt.Fprintln(r.tw, "SAMPLE\tTIME\tELAPSED (s)\tCF\tUTIL (%)\tEMA (%)\tPEAK (%)\tPEAK CPU")
		fmt.Fprintln(r.tw, "------\t----\t-----------\t--\t--------\t-------\t--------\t--------")
		_ = r.tw.Flush()
		return
	}
	fmt.Fprintln(r.out, "# sample, time, elapsed(s), cf, util(%), ema(%), peak(%), peak_cpu")
}

func create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.Create(path)
}

func (r *reporter) Write(s row) {
	if r.pretty {
		fmt.Fprintf(r.tw, "%d\t%s\t%.3f\t%.4f\t%.2f\t%.2f\t%.2f\t%d\n",
			s.Sample, s.At.Format("2006-01-02 15:04:05"), s.Elapsed, s.Correction,
			s.Util, s.Smoothed, s.Peak, s.PeakCPU)
		_ = r.tw.Flush()
	} else {
		fmt.Fprintf(r.out, "%d, %s, %.3f, %.4f, %.2f, %.2f, %.2f, %d\n",
			s.Sample, s.At.Format(time.RFC3339), s.Elapsed, s.Correction,
			s.Util, s.Smoothed, s.Peak, s.PeakCPU)
	}

	if r.csvW != nil {
		per := make([]string, len(s.PerCPU))
		for i, v := range s.PerCPU {
			per[i] = util.FmtFloat(v)
		}
		_ = r.csvW.Write([]string{
			s.RunID,
			strconv.Itoa(s.Sample),
			s.At.Format(time.RFC3339),
			util.FmtFloat(s.Elapsed), util.FmtFloat(s.Actual), util.FmtFloat(s.Correction),
			util.FmtFloat(s.Util), util.FmtFloat(s.Smoothed), util.FmtFloat(s.Peak),
			strconv.Itoa(s.PeakCPU),
			strconv.FormatUint(s.Sanity.ToUint64(), 10),
			strings.Join(per, ";"),
		})
		r.csvW.Flush()
	}

	if r.jsonF != nil {
		b, _ := json.MarshalIndent(s, "  ", "  ")
		if r.jsonN > 0 {
			_, _ = r.jsonF.WriteString(",\n")
		}
		_, _ = r.jsonF.WriteString("  ")
		_, _ = r.jsonF.Write(b)
		r.jsonN++
	}
}

// Summary prints run-wide averages after the last sample.
func (r *reporter) Summary(samples int, avg, ema float64, perCPU []float64) {
	fmt.Fprintf(r.out, "\nSummary over %d sample(s):\n", samples)
	fmt.Fprintf(r.out, "  Avg CPU util: %.2f %%\n", avg)
	fmt.Fprintf(r.out, "  EMA CPU util: %.2f %%\n", ema)

	tw := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  CPU\tAVG UTIL (%)")
	for i, v := range perCPU {
		fmt.Fprintf(tw, "  %d\t%.2f\n", i, v)
	}
	_ = tw.Flush()
}

func (r *reporter) Close() {
	if r.csvW != nil {
		r.csvW.Flush()
	}
	if r.csvF != nil {
		_ = r.csvF.Close()
	}
	if r.jsonF != nil {
		_, _ = r.jsonF.WriteString("\n]\n")
		_ = r.jsonF.Close()
	}
}
