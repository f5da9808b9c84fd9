// Package config provides configuration parsing and validation for rawping.
package config

import (
	"fmt"
	"net"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/postalsys/rawping/internal/ping"
)

// Config represents the complete rawping configuration.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Ping     PingConfig     `yaml:"ping"`
	Resolver ResolverConfig `yaml:"resolver"`
	Output   OutputConfig   `yaml:"output"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// PingConfig controls the echo loop.
type PingConfig struct {
	Count       int           `yaml:"count"`        // 0 = unlimited
	Interval    time.Duration `yaml:"interval"`     // pause between attempt starts
	Timeout     time.Duration `yaml:"timeout"`      // 0 = wait forever
	PayloadSize ByteSize      `yaml:"payload_size"` // echo body bytes
}

// ResolverConfig defines how destination names are resolved.
type ResolverConfig struct {
	Servers []string      `yaml:"servers"` // host:port, empty = system resolver
	Timeout time.Duration `yaml:"timeout"`
}

// OutputConfig controls the result lines on stdout.
type OutputConfig struct {
	Color   string `yaml:"color"` // auto, always, never
	Verbose bool   `yaml:"verbose"`
}

// MetricsConfig defines the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// ByteSize is a byte count that accepts human-readable sizes ("56", "1KiB", "2 kB").
type ByteSize int

// ParseByteSize parses a human-readable byte count.
func ParseByteSize(s string) (ByteSize, error) {
	n, err := humanize.ParseBytes(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n > uint64(ping.MaxPayloadSize) {
		return 0, fmt.Errorf("size %s exceeds %d bytes", s, ping.MaxPayloadSize)
	}
	return ByteSize(n), nil
}

// UnmarshalYAML accepts both plain integers and size strings.
func (b *ByteSize) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: payload size must be a scalar", value.Line)
	}
	n, err := ParseByteSize(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*b = n
	return nil
}

// MarshalYAML writes the size as a plain integer.
func (b ByteSize) MarshalYAML() (interface{}, error) {
	return int(b), nil
}

// String returns the size in IEC units, e.g. "1.0 KiB".
func (b ByteSize) String() string {
	return humanize.IBytes(uint64(b))
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Ping: PingConfig{
			Count:    0,
			Interval: time.Second,
			Timeout:  ping.DefaultConfig().Timeout,
		},
		Resolver: ResolverConfig{
			Servers: []string{}, // Empty = use system resolver
			Timeout: 5 * time.Second,
		},
		Output: OutputConfig{
			Color: "auto",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Address: "127.0.0.1:9102",
		},
	}
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse parses configuration from YAML bytes.
func Parse(data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))

	cfg := Default()

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// envVarRegex matches ${VAR} or $VAR patterns
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// expandEnvVars replaces environment variable references with their values.
// ${VAR:-default} falls back to default; unknown variables are left as written.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimPrefix(match, "$")
		if strings.HasPrefix(name, "{") {
			name = name[1 : len(name)-1]
		}

		if varName, defaultVal, ok := strings.Cut(name, ":-"); ok {
			if val, ok := os.LookupEnv(varName); ok {
				return val
			}
			return defaultVal
		}

		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	if !isValidLogLevel(c.Log.Level) {
		errs = append(errs, fmt.Sprintf("invalid log.level: %s (must be debug, info, warn, or error)", c.Log.Level))
	}
	if !isValidLogFormat(c.Log.Format) {
		errs = append(errs, fmt.Sprintf("invalid log.format: %s (must be text or json)", c.Log.Format))
	}

	if c.Ping.Count < 0 {
		errs = append(errs, "ping.count must not be negative")
	}
	if c.Ping.Interval <= 0 {
		errs = append(errs, "ping.interval must be positive")
	}
	if err := c.Ping.SessionConfig().Validate(); err != nil {
		errs = append(errs, "ping: "+err.Error())
	}

	for i, server := range c.Resolver.Servers {
		if _, _, err := net.SplitHostPort(server); err != nil {
			errs = append(errs, fmt.Sprintf("resolver.servers[%d]: %s is not host:port", i, server))
		}
	}
	if c.Resolver.Timeout <= 0 {
		errs = append(errs, "resolver.timeout must be positive")
	}

	if !isValidColor(c.Output.Color) {
		errs = append(errs, fmt.Sprintf("invalid output.color: %s (must be auto, always, or never)", c.Output.Color))
	}

	if c.Metrics.Enabled {
		if _, _, err := net.SplitHostPort(c.Metrics.Address); err != nil {
			errs = append(errs, fmt.Sprintf("metrics.address: %s is not host:port", c.Metrics.Address))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// SessionConfig returns the per-attempt settings for a ping session.
func (p PingConfig) SessionConfig() ping.Config {
	return ping.Config{
		Timeout:     p.Timeout,
		PayloadSize: int(p.PayloadSize),
	}
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func isValidLogFormat(format string) bool {
	switch format {
	case "text", "json":
		return true
	default:
		return false
	}
}

func isValidColor(mode string) bool {
	switch mode {
	case "auto", "always", "never":
		return true
	default:
		return false
	}
}

// String returns the effective configuration as YAML (for debugging).
func (c *Config) String() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return string(data)
}
