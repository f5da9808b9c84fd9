package main

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/postalsys/rawping/internal/config"
)

// options holds the command-line flags. Only flags the user set override
// the config file.
type options struct {
	configPath     string
	count          int
	interval       seconds
	timeout        seconds
	payloadSize    string
	logLevel       string
	logFormat      string
	color          string
	verbose        bool
	metricsAddress string
}

func (o *options) register(cmd *cobra.Command) {
	defaults := config.Default()
	o.interval = seconds(defaults.Ping.Interval)
	o.timeout = seconds(defaults.Ping.Timeout)

	f := cmd.Flags()
	f.StringVar(&o.configPath, "config", "", "Path to configuration file")
	f.IntVarP(&o.count, "count", "c", defaults.Ping.Count, "Stop after sending count requests (0 = unlimited)")
	f.VarP(&o.interval, "interval", "i", "Wait between sending each request (seconds or duration)")
	f.VarP(&o.timeout, "timeout", "W", "Time to wait for a reply (seconds or duration, 0 = forever)")
	f.StringVarP(&o.payloadSize, "payload-size", "s", "0", "Echo body size, e.g. 56 or 1KiB")
	f.StringVar(&o.logLevel, "log-level", defaults.Log.Level, "Log level: debug, info, warn, error")
	f.StringVar(&o.logFormat, "log-format", defaults.Log.Format, "Log format: text, json")
	f.StringVar(&o.color, "color", defaults.Output.Color, "Color output: auto, always, never")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "Show reply details and a summary")
	f.StringVar(&o.metricsAddress, "metrics-address", "", "Serve /metrics and /healthz on this address")
}

// apply copies explicitly set flags into cfg.
func (o *options) apply(flags *pflag.FlagSet, cfg *config.Config) error {
	if flags.Changed("count") {
		cfg.Ping.Count = o.count
	}
	if flags.Changed("interval") {
		cfg.Ping.Interval = time.Duration(o.interval)
	}
	if flags.Changed("timeout") {
		cfg.Ping.Timeout = time.Duration(o.timeout)
	}
	if flags.Changed("payload-size") {
		size, err := config.ParseByteSize(o.payloadSize)
		if err != nil {
			return fmt.Errorf("invalid --payload-size: %w", err)
		}
		cfg.Ping.PayloadSize = size
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = o.logFormat
	}
	if flags.Changed("color") {
		cfg.Output.Color = o.color
	}
	if flags.Changed("verbose") {
		cfg.Output.Verbose = o.verbose
	}
	if flags.Changed("metrics-address") {
		cfg.Metrics.Enabled = o.metricsAddress != ""
		cfg.Metrics.Address = o.metricsAddress
	}
	return nil
}

// seconds is a duration flag that also accepts a bare number of seconds,
// so "-W 3" and "-W 3s" mean the same.
type seconds time.Duration

// maxSeconds is the largest whole-second count a time.Duration can hold.
const maxSeconds = float64(math.MaxInt64 / int64(time.Second))

func (s *seconds) Set(v string) error {
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		if math.IsNaN(f) || math.Abs(f) > maxSeconds {
			return fmt.Errorf("duration %q out of range", v)
		}
		*s = seconds(f * float64(time.Second))
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid duration %q", v)
	}
	*s = seconds(d)
	return nil
}

func (s *seconds) String() string {
	return time.Duration(*s).String()
}

func (s *seconds) Type() string {
	return "duration"
}
