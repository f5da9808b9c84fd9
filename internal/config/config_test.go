package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %s, want info", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %s, want text", cfg.Log.Format)
	}
	if cfg.Ping.Count != 0 {
		t.Errorf("Ping.Count = %d, want 0", cfg.Ping.Count)
	}
	if cfg.Ping.Interval != time.Second {
		t.Errorf("Ping.Interval = %v, want 1s", cfg.Ping.Interval)
	}
	if cfg.Ping.Timeout != 3*time.Second {
		t.Errorf("Ping.Timeout = %v, want 3s", cfg.Ping.Timeout)
	}
	if cfg.Ping.PayloadSize != 0 {
		t.Errorf("Ping.PayloadSize = %d, want 0", cfg.Ping.PayloadSize)
	}
	if cfg.Output.Color != "auto" {
		t.Errorf("Output.Color = %s, want auto", cfg.Output.Color)
	}
	if cfg.Metrics.Address != "127.0.0.1:9102" {
		t.Errorf("Metrics.Address = %s, want 127.0.0.1:9102", cfg.Metrics.Address)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestParse_ValidConfig(t *testing.T) {
	yamlConfig := `
log:
  level: "debug"
  format: "json"

ping:
  count: 5
  interval: 500ms
  timeout: 2s
  payload_size: 56

resolver:
  servers:
    - "8.8.8.8:53"
    - "1.1.1.1:53"
  timeout: 10s

output:
  color: never
  verbose: true

metrics:
  enabled: true
  address: "0.0.0.0:9200"
`

	cfg, err := Parse([]byte(yamlConfig))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %s, want json", cfg.Log.Format)
	}
	if cfg.Ping.Count != 5 {
		t.Errorf("Ping.Count = %d, want 5", cfg.Ping.Count)
	}
	if cfg.Ping.Interval != 500*time.Millisecond {
		t.Errorf("Ping.Interval = %v, want 500ms", cfg.Ping.Interval)
	}
	if cfg.Ping.Timeout != 2*time.Second {
		t.Errorf("Ping.Timeout = %v, want 2s", cfg.Ping.Timeout)
	}
	if cfg.Ping.PayloadSize != 56 {
		t.Errorf("Ping.PayloadSize = %d, want 56", cfg.Ping.PayloadSize)
	}
	if len(cfg.Resolver.Servers) != 2 {
		t.Errorf("len(Resolver.Servers) = %d, want 2", len(cfg.Resolver.Servers))
	}
	if cfg.Resolver.Timeout != 10*time.Second {
		t.Errorf("Resolver.Timeout = %v, want 10s", cfg.Resolver.Timeout)
	}
	if cfg.Output.Color != "never" {
		t.Errorf("Output.Color = %s, want never", cfg.Output.Color)
	}
	if !cfg.Output.Verbose {
		t.Error("Output.Verbose = false, want true")
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true")
	}
	if cfg.Metrics.Address != "0.0.0.0:9200" {
		t.Errorf("Metrics.Address = %s, want 0.0.0.0:9200", cfg.Metrics.Address)
	}
}

func TestParse_MinimalConfig(t *testing.T) {
	yamlConfig := `
ping:
  count: 3
`

	cfg, err := Parse([]byte(yamlConfig))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// Should use defaults for unspecified fields
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %s, want info (default)", cfg.Log.Level)
	}
	if cfg.Ping.Interval != time.Second {
		t.Errorf("Ping.Interval = %v, want 1s (default)", cfg.Ping.Interval)
	}
	if cfg.Ping.Timeout != 3*time.Second {
		t.Errorf("Ping.Timeout = %v, want 3s (default)", cfg.Ping.Timeout)
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil) error = %v", err)
	}
	if cfg.Ping.Interval != time.Second {
		t.Errorf("Ping.Interval = %v, want 1s (default)", cfg.Ping.Interval)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	yamlConfig := `
ping:
  count: 3
  invalid yaml here [
`

	_, err := Parse([]byte(yamlConfig))
	if err == nil {
		t.Error("Parse() should fail for invalid YAML")
	}
}

func TestParse_PayloadSize(t *testing.T) {
	tests := []struct {
		value   string
		want    ByteSize
		wantErr bool
	}{
		{value: "0", want: 0},
		{value: "56", want: 56},
		{value: `"56B"`, want: 56},
		{value: `"1KiB"`, want: 1024},
		{value: `"2 kB"`, want: 2000},
		{value: "65507", want: 65507},
		{value: "65508", wantErr: true},
		{value: `"1MiB"`, wantErr: true},
		{value: `"lots"`, wantErr: true},
		{value: "[1, 2]", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cfg, err := Parse([]byte("ping:\n  payload_size: " + tt.value + "\n"))
			if tt.wantErr {
				if err == nil {
					t.Errorf("Parse() should fail for payload_size %s", tt.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if cfg.Ping.PayloadSize != tt.want {
				t.Errorf("PayloadSize = %d, want %d", cfg.Ping.PayloadSize, tt.want)
			}
		})
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		wantError string
	}{
		{
			name: "invalid log level",
			yaml: `
log:
  level: "invalid"
`,
			wantError: "invalid log.level",
		},
		{
			name: "invalid log format",
			yaml: `
log:
  format: "xml"
`,
			wantError: "invalid log.format",
		},
		{
			name: "negative count",
			yaml: `
ping:
  count: -1
`,
			wantError: "ping.count must not be negative",
		},
		{
			name: "zero interval",
			yaml: `
ping:
  interval: 0s
`,
			wantError: "ping.interval must be positive",
		},
		{
			name: "negative timeout",
			yaml: `
ping:
  timeout: -1s
`,
			wantError: "timeout must not be negative",
		},
		{
			name: "resolver server without port",
			yaml: `
resolver:
  servers:
    - "8.8.8.8"
`,
			wantError: "resolver.servers[0]",
		},
		{
			name: "zero resolver timeout",
			yaml: `
resolver:
  timeout: 0s
`,
			wantError: "resolver.timeout must be positive",
		},
		{
			name: "invalid color",
			yaml: `
output:
  color: "sometimes"
`,
			wantError: "invalid output.color",
		},
		{
			name: "metrics enabled with bad address",
			yaml: `
metrics:
  enabled: true
  address: "localhost"
`,
			wantError: "metrics.address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Error("Parse() should fail")
				return
			}
			if !strings.Contains(err.Error(), tt.wantError) {
				t.Errorf("Error = %v, want to contain %q", err, tt.wantError)
			}
		})
	}
}

func TestConfig_Validate_AggregatesErrors(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "loud"
	cfg.Output.Color = "rainbow"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() should fail")
	}
	if !strings.Contains(err.Error(), "log.level") || !strings.Contains(err.Error(), "output.color") {
		t.Errorf("Error = %v, want both log.level and output.color", err)
	}
}

func TestConfig_Validate_MetricsDisabledIgnoresAddress(t *testing.T) {
	cfg := Default()
	cfg.Metrics.Address = "not an address"

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil while metrics are disabled", err)
	}
}

func TestParse_EnvVarSubstitution(t *testing.T) {
	t.Setenv("TEST_RAWPING_LEVEL", "warn")
	t.Setenv("TEST_RAWPING_DNS", "9.9.9.9:53")
	t.Setenv("TEST_RAWPING_COUNT", "7")

	yamlConfig := `
log:
  level: "${TEST_RAWPING_LEVEL}"
ping:
  count: $TEST_RAWPING_COUNT
resolver:
  servers:
    - "$TEST_RAWPING_DNS"
`

	cfg, err := Parse([]byte(yamlConfig))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %s, want warn", cfg.Log.Level)
	}
	if cfg.Ping.Count != 7 {
		t.Errorf("Ping.Count = %d, want 7", cfg.Ping.Count)
	}
	if cfg.Resolver.Servers[0] != "9.9.9.9:53" {
		t.Errorf("Resolver.Servers[0] = %s, want 9.9.9.9:53", cfg.Resolver.Servers[0])
	}
}

func TestParse_EnvVarDefaultValue(t *testing.T) {
	os.Unsetenv("NONEXISTENT_VAR")

	yamlConfig := `
log:
  format: "${NONEXISTENT_VAR:-json}"
`

	cfg, err := Parse([]byte(yamlConfig))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %s, want json", cfg.Log.Format)
	}
}

func TestParse_EnvVarNotFound(t *testing.T) {
	os.Unsetenv("NONEXISTENT_VAR")

	yamlConfig := `
metrics:
  address: "${NONEXISTENT_VAR}"
`

	cfg, err := Parse([]byte(yamlConfig))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// Should keep the original placeholder if not found
	if cfg.Metrics.Address != "${NONEXISTENT_VAR}" {
		t.Errorf("Metrics.Address = %s, want ${NONEXISTENT_VAR}", cfg.Metrics.Address)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/rawping.yaml")
	if err == nil {
		t.Error("Load() should fail for nonexistent file")
	}
}

func TestLoad_ValidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "rawping.yaml")
	configContent := `
log:
  level: "debug"
ping:
  payload_size: "1KiB"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
	}
	if cfg.Ping.PayloadSize != 1024 {
		t.Errorf("Ping.PayloadSize = %d, want 1024", cfg.Ping.PayloadSize)
	}
}

func TestPingConfig_SessionConfig(t *testing.T) {
	p := PingConfig{Timeout: 250 * time.Millisecond, PayloadSize: 64}

	sc := p.SessionConfig()
	if sc.Timeout != 250*time.Millisecond {
		t.Errorf("Timeout = %v, want 250ms", sc.Timeout)
	}
	if sc.PayloadSize != 64 {
		t.Errorf("PayloadSize = %d, want 64", sc.PayloadSize)
	}
}

func TestByteSize_String(t *testing.T) {
	if got := ByteSize(1024).String(); got != "1.0 KiB" {
		t.Errorf("ByteSize(1024).String() = %q, want %q", got, "1.0 KiB")
	}
}

func TestConfig_String(t *testing.T) {
	cfg := Default()
	cfg.Ping.PayloadSize = 56

	s := cfg.String()
	for _, want := range []string{"level: info", "payload_size: 56", "color: auto"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q:\n%s", want, s)
		}
	}
}
