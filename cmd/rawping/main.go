// Package main provides the CLI entry point for rawping.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/postalsys/rawping/internal/config"
	"github.com/postalsys/rawping/internal/health"
	"github.com/postalsys/rawping/internal/logging"
	"github.com/postalsys/rawping/internal/metrics"
	"github.com/postalsys/rawping/internal/ping"
	"github.com/postalsys/rawping/internal/report"
	"github.com/postalsys/rawping/internal/resolve"
	"github.com/postalsys/rawping/internal/runner"
)

var (
	// Version is set at build time
	Version = "dev"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		// An attempt in flight is not interrupted; a second signal kills the process.
		<-ctx.Done()
		stop()
	}()

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "rawping [flags] destination",
		Short: "Send ICMP ECHO_REQUEST to network hosts",
		Long: `rawping sends ICMP echo requests over a raw IPv4 socket and reports,
for each attempt, whether the matching echo reply arrived in time.

Raw sockets need root or CAP_NET_RAW:
  sudo setcap cap_net_raw+ep $(which rawping)`,
		Version:       Version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	opts.register(cmd)

	return cmd
}

// loadConfig reads the optional config file and applies flag overrides.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if err := opts.apply(cmd.Flags(), cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config, host string, stdout, stderr io.Writer) error {
	logger := logging.NewLoggerWithWriter(cfg.Log.Level, cfg.Log.Format, stderr)

	resolver := resolve.New(resolve.Config{
		Servers: cfg.Resolver.Servers,
		Timeout: cfg.Resolver.Timeout,
	})
	addr, err := resolver.Resolve(ctx, host)
	if err != nil {
		return err
	}
	logger.Debug("destination resolved", logging.KeyHost, host, logging.KeyAddress, addr.String())

	m := metrics.Default()
	session, err := ping.Open(cfg.Ping.SessionConfig(), logger, m)
	if err != nil {
		if errors.Is(err, syscall.EPERM) || errors.Is(err, syscall.EACCES) {
			return fmt.Errorf("%w (run as root or grant CAP_NET_RAW)", err)
		}
		return err
	}
	defer session.Close()

	tracker := health.NewTracker(host, addr.String())
	if cfg.Metrics.Enabled {
		srvCfg := health.DefaultServerConfig()
		srvCfg.Address = cfg.Metrics.Address
		srv := health.NewServer(srvCfg, tracker, nil, logger)
		if err := srv.Start(); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer srv.Stop()
	}

	rep := report.New(stdout, report.Options{
		Color:   colorEnabled(cfg.Output.Color, stdout),
		Verbose: cfg.Output.Verbose,
	})
	if err := rep.Header(host, addr); err != nil {
		return err
	}

	tracker.SetRunning(true)
	stats, err := runner.Repeat(ctx, cfg.Ping.Interval, cfg.Ping.Count, func(n int) ping.Outcome {
		o := session.PingOnce(addr)
		tracker.Record(n, o)
		if err := rep.Attempt(n, o); err != nil {
			logger.Warn("failed to write result", logging.KeyError, err)
		}
		return o
	})
	tracker.SetRunning(false)
	if err != nil {
		return err
	}

	logger.Debug("ping finished",
		logging.KeyCount, stats.Attempts,
		slog.Int("replies", stats.Replies),
	)
	if cfg.Output.Verbose {
		return rep.Summary(host, stats)
	}
	return nil
}

// colorEnabled only consults the terminal when writing to a real file.
func colorEnabled(mode string, w io.Writer) bool {
	f, _ := w.(*os.File)
	return report.ColorEnabled(mode, f)
}
