// Package config loads sysmonitor settings from an optional YAML file and the
// environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/ghodss/yaml"
)

// DefaultPath is read when no --config flag is given. A missing default file
// is not an error.
const DefaultPath = "sysmonitor.yaml"

// Environment variables that override file values.
const (
	EnvEndpoint = "SYSMONITOR_ENDPOINT"
	EnvToken    = "SYSMONITOR_TOKEN"
	EnvLogLevel = "SYSMONITOR_LOG_LEVEL"
)

// Probe methods.
const (
	ProbeCommand = "command"
	ProbeICMP    = "icmp"
)

// Duration is a time.Duration that decodes from strings like "3s".
// A bare number is a count of seconds, so `timeout: 30` means 30s.
type Duration time.Duration

// UnmarshalJSON accepts a duration string or a number of seconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value * float64(time.Second)))
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration %v", v)
	}

	return nil
}

// MarshalJSON encodes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Config holds every tunable of the CLI.
type Config struct {
	Endpoint  string   `json:"endpoint"`
	Token     string   `json:"token"`
	UserAgent string   `json:"user_agent"`
	Timeout   Duration `json:"timeout"`
	Probe     Probe    `json:"probe"`
	Log       Log      `json:"log"`
}

// Probe configures connectivity checks.
type Probe struct {
	Method     string   `json:"method"`
	Hosts      []string `json:"hosts"`
	Timeout    Duration `json:"timeout"`
	Privileged bool     `json:"privileged"`
}

// Log configures the CLI logger.
type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		UserAgent: "SystemMonitor/1.0",
		Timeout:   Duration(30 * time.Second),
		Probe: Probe{
			Method:  ProbeCommand,
			Timeout: Duration(3 * time.Second),
		},
		Log: Log{Level: "info"},
	}
}

// Load reads path over the defaults and applies environment overrides. An
// empty path means DefaultPath, which may be absent.
func Load(path string) (*Config, error) {
	c := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	c.applyEnv(os.LookupEnv)

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvEndpoint); ok {
		c.Endpoint = v
	}
	if v, ok := lookup(EnvToken); ok {
		c.Token = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.Log.Level = v
	}
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	c.Probe.Method = strings.ToLower(strings.TrimSpace(c.Probe.Method))
	switch c.Probe.Method {
	case "":
		c.Probe.Method = ProbeCommand
	case ProbeCommand, ProbeICMP:
	default:
		return fmt.Errorf("unsupported probe method %q; valid values are %q, %q", c.Probe.Method, ProbeCommand, ProbeICMP)
	}

	if c.Timeout < 0 || c.Probe.Timeout < 0 {
		return errors.New("timeouts must not be negative")
	}

	return nil
}
