package sysmonitor

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/v4/host"
)

// Sentinel values returned in place of facts that could not be resolved.
const (
	// UnknownValue is the default of the serial number chain and of OS
	// identity fields.
	UnknownValue = "Unknown"

	// UnresolvedValue is the localized placeholder the host UI shows when an
	// entry operation has nothing better to display.
	UnresolvedValue = "Desconocido"
)

// Fact names used in logs and in FactError.
const (
	FactHostname         = "hostname"
	FactSerialNumber     = "serial_number"
	FactActivationStatus = "activation_status"
	FactOSName           = "os_name"
	FactOSVersion        = "os_version"
)

// DefaultPingTimeout bounds a single connectivity probe.
const DefaultPingTimeout = 3 * time.Second

// SystemInfo is the bundle returned by [Collector.BasicSystemInfo].
type SystemInfo struct {
	OSName    string `json:"os_name"`
	OSVersion string `json:"os_version"`
	Hostname  string `json:"hostname"`
}

// PlatformInfo is the bundle returned by [Collector.PlatformInfo].
type PlatformInfo struct {
	SerialNumber     string           `json:"serial_number"`
	ActivationStatus ActivationStatus `json:"activation_status"`
}

// osInfoFunc reports the OS name and version.
type osInfoFunc func(ctx context.Context) (name, version string, err error)

// Collector resolves host facts by running platform command chains.
// It keeps no results between calls: every call re-runs its chain.
// Collector methods are safe for concurrent use after configuration is complete.
type Collector struct {
	commandExecutor CommandExecutor
	platform        Platform
	pinger          Pinger
	logger          *slog.Logger
	osInfo          osInfoFunc
	readFile        func(name string) ([]byte, error)
	probeHosts      []string
	pingTimeout     time.Duration
}

// New creates a new Collector for the running OS.
// The collector uses real system commands by default.
func New() *Collector {
	return &Collector{
		commandExecutor: &defaultCommandExecutor{},
		platform:        CurrentPlatform(),
		osInfo:          gopsutilOSInfo,
		readFile:        os.ReadFile,
		probeHosts:      DefaultProbeHosts,
		pingTimeout:     DefaultPingTimeout,
	}
}

// WithExecutor sets a custom [CommandExecutor], enabling deterministic testing
// without real system commands.
func (c *Collector) WithExecutor(executor CommandExecutor) *Collector {
	c.commandExecutor = executor

	return c
}

// WithPlatform overrides the command table chosen from runtime.GOOS.
func (c *Collector) WithPlatform(platform Platform) *Collector {
	c.platform = platform

	return c
}

// WithPinger replaces the default [CommandPinger] used by connectivity checks.
func (c *Collector) WithPinger(pinger Pinger) *Collector {
	c.pinger = pinger

	return c
}

// WithProbeHosts sets the hosts probed by [Collector.CheckConnectivity], in order.
// An empty list restores [DefaultProbeHosts].
func (c *Collector) WithProbeHosts(hosts ...string) *Collector {
	if len(hosts) == 0 {
		hosts = DefaultProbeHosts
	}
	c.probeHosts = hosts

	return c
}

// WithPingTimeout sets the per-host timeout of the default pinger.
func (c *Collector) WithPingTimeout(timeout time.Duration) *Collector {
	if timeout > 0 {
		c.pingTimeout = timeout
	}

	return c
}

// WithLogger sets an optional [*slog.Logger] for observability.
// When set, the collector logs every strategy attempt, its outcome, and
// fallback exhaustion. A nil logger (the default) disables all logging
// with zero overhead.
func (c *Collector) WithLogger(logger *slog.Logger) *Collector {
	c.logger = logger

	return c
}

// WithFileReader replaces os.ReadFile for strategies that read files, such as
// the Linux /sys DMI entries. A nil reader restores os.ReadFile.
func (c *Collector) WithFileReader(readFile func(name string) ([]byte, error)) *Collector {
	if readFile == nil {
		readFile = os.ReadFile
	}
	c.readFile = readFile

	return c
}

// Platform returns the command table in use.
func (c *Collector) Platform() Platform {
	return c.platform
}

// BasicSystemInfo collects OS identity and hostname. It never fails: missing
// OS fields become [UnknownValue] and an unresolved hostname becomes
// [UnresolvedValue].
func (c *Collector) BasicSystemInfo(ctx context.Context) SystemInfo {
	c.logInfo("collecting basic system information", "platform", c.platform.Name())

	info := SystemInfo{
		OSName:    UnknownValue,
		OSVersion: UnknownValue,
	}

	name, version, err := c.osInfo(ctx)
	if err != nil {
		c.logWarn("could not read OS identity", "error", err)
	}
	if name != "" {
		info.OSName = name
	} else {
		c.logWarn("could not determine OS name", "fact", FactOSName)
	}
	if version != "" {
		info.OSVersion = version
	} else {
		c.logWarn("could not determine OS version", "fact", FactOSVersion)
	}

	hostname, err := c.Hostname(ctx)
	if err != nil {
		c.logWarn("could not resolve hostname, using placeholder", "error", err, "placeholder", UnresolvedValue)
		hostname = UnresolvedValue
	}
	info.Hostname = hostname

	c.logInfo("basic system information collected")

	return info
}

// PlatformInfo collects the hardware serial number and OS activation status.
// It never fails.
func (c *Collector) PlatformInfo(ctx context.Context) PlatformInfo {
	c.logInfo("collecting platform specific information", "platform", c.platform.Name())

	serial := c.SerialNumber(ctx)
	if serial == "" {
		c.logError("serial number chain returned nothing, using placeholder", "placeholder", UnresolvedValue)
		serial = UnresolvedValue
	}

	info := PlatformInfo{
		SerialNumber:     serial,
		ActivationStatus: c.ActivationStatus(ctx),
	}

	c.logInfo("platform specific information collected")

	return info
}

// gopsutilOSInfo reads the OS name and version through gopsutil.
// gopsutil may return partial data together with an error; partial data wins.
func gopsutilOSInfo(ctx context.Context) (string, string, error) {
	info, err := host.InfoWithContext(ctx)
	if info == nil {
		return "", "", err
	}

	name := info.Platform
	if name == "" {
		name = info.OS
	}

	return name, info.PlatformVersion, err
}

// logDebug logs at debug level if a logger is configured.
func (c *Collector) logDebug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

// logInfo logs at info level if a logger is configured.
func (c *Collector) logInfo(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Info(msg, args...)
	}
}

// logWarn logs at warn level if a logger is configured.
func (c *Collector) logWarn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}

// logError logs at error level if a logger is configured.
func (c *Collector) logError(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Error(msg, args...)
	}
}
