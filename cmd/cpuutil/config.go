package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

func bindFlags(fs *pflag.FlagSet, o *opts) {
	fs.IntVarP(&o.samples, "samples", "s", 5, "number of samples to collect (0 = run until Ctrl-C)")
	fs.DurationVarP(&o.duration, "duration", "d", time.Second, "sleep per sample when no command is given (e.g. 1s, 500ms)")
	fs.Float64Var(&o.ema, "ema", 0.5, "EMA alpha for average utilization smoothing [0..1]")
	fs.StringVar(&o.accuracy, "accuracy", "float", "numeric path: float, percent, tenth, hundredth, thousandth")
	fs.BoolVar(&o.debug, "debug", false, "trace raw counters and per-CPU breakdown to stderr")

	fs.BoolVar(&o.pretty, "pretty", true, "format output as a table instead of CSV-like lines")
	fs.StringVar(&o.csvPath, "csv", "", "write per-sample rows to CSV file")
	fs.StringVar(&o.jsonPath, "json", "", "write per-sample rows to JSON file")

	fs.StringVar(&o.config, "config", "", "YAML file with flag defaults; explicit flags win")
}

// fileConfig mirrors the flags. Pointers tell "absent" from zero.
type fileConfig struct {
	Samples  *int     `yaml:"samples"`
	Duration string   `yaml:"duration"`
	EMA      *float64 `yaml:"ema"`
	Accuracy string   `yaml:"accuracy"`
	Debug    *bool    `yaml:"debug"`
	Pretty   *bool    `yaml:"pretty"`
	CSV      string   `yaml:"csv"`
	JSON     string   `yaml:"json"`
}

// applyFile loads path into o for every flag the user did not set explicitly.
func applyFile(fs *pflag.FlagSet, path string, o *opts) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}

	fromFile := func(name string) bool { return !fs.Changed(name) }

	if fc.Samples != nil && fromFile("samples") {
		o.samples = *fc.Samples
	}
	if fc.Duration != "" && fromFile("duration") {
		d, err := time.ParseDuration(fc.Duration)
		if err != nil {
			return fmt.Errorf("config %s: duration: %w", path, err)
		}
		o.duration = d
	}
	if fc.EMA != nil && fromFile("ema") {
		o.ema = *fc.EMA
	}
	if fc.Accuracy != "" && fromFile("accuracy") {
		o.accuracy = fc.Accuracy
	}
	if fc.Debug != nil && fromFile("debug") {
		o.debug = *fc.Debug
	}
	if fc.Pretty != nil && fromFile("pretty") {
		o.pretty = *fc.Pretty
	}
	if fc.CSV != "" && fromFile("csv") {
		o.csvPath = fc.CSV
	}
	if fc.JSON != "" && fromFile("json") {
		o.jsonPath = fc.JSON
	}
	return nil
}
