package sysmonitor

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

// DefaultProbeHosts are public DNS resolvers, ordered from most to least
// universally reachable: Google, Cloudflare, OpenDNS.
var DefaultProbeHosts = []string{
	"8.8.8.8",
	"1.1.1.1",
	"208.67.222.222",
}

// Pinger reports whether a single host answered a reachability probe.
type Pinger interface {
	Ping(ctx context.Context, host string) bool
}

// CommandPinger probes hosts with the platform ping tool. A host is reachable
// when ping exits successfully.
type CommandPinger struct {
	Executor CommandExecutor
	Platform Platform
	Timeout  time.Duration
	Logger   *slog.Logger
}

// Ping sends one echo request to host through the system ping command.
func (p *CommandPinger) Ping(ctx context.Context, host string) bool {
	platform := p.Platform
	if platform == nil {
		platform = CurrentPlatform()
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultPingTimeout
	}

	s := platform.PingStrategy(host, timeout)

	result, err := executeCommand(ctx, p.Executor, s.Command, s.Args...)
	if err != nil {
		if p.Logger != nil {
			p.Logger.Debug("could not run ping", "host", host, "error", err)
		}

		return false
	}

	if !result.Success && p.Logger != nil {
		p.Logger.Debug("ping failed", "host", host, "exit_code", result.ExitCode, "stderr", excerpt(result.Stderr))
	}

	return result.Success
}

// ICMPPinger probes hosts by sending ICMP echo requests directly, without
// spawning a ping process.
type ICMPPinger struct {
	Timeout time.Duration
	// Privileged selects raw sockets. Windows always needs them; Linux needs
	// them unless net.ipv4.ping_group_range allows unprivileged ICMP.
	Privileged bool
	Logger     *slog.Logger
}

// Ping sends one echo request to host and waits up to Timeout for the reply.
func (p *ICMPPinger) Ping(ctx context.Context, host string) bool {
	if ctx.Err() != nil {
		return false
	}

	pinger, err := probing.NewPinger(host)
	if err != nil {
		p.logDebug("could not resolve host", "host", host, "error", err)

		return false
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultPingTimeout
	}

	pinger.Count = 1
	pinger.Timeout = timeout
	pinger.SetPrivileged(p.Privileged || runtime.GOOS == "windows")

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			pinger.Stop()
		case <-done:
		}
	}()

	if err := pinger.Run(); err != nil {
		p.logDebug("icmp probe failed", "host", host, "error", err)

		return false
	}

	stats := pinger.Statistics()

	return stats.PacketsRecv > 0
}

func (p *ICMPPinger) logDebug(msg string, args ...any) {
	if p.Logger != nil {
		p.Logger.Debug(msg, args...)
	}
}

// CheckConnectivity reports whether any configured probe host is reachable.
// It never fails; unreachable networks report false.
func (c *Collector) CheckConnectivity(ctx context.Context) bool {
	c.logInfo("checking internet connectivity", "hosts", len(c.probeHosts))

	online := c.Probe(ctx, c.probeHosts)
	if !online {
		c.logWarn("no internet connectivity detected", "hosts_tried", len(c.probeHosts))
	}

	return online
}

// Probe pings hosts sequentially and returns true on the first reply; the
// remaining hosts are not contacted. It returns false only when every host
// fails.
func (c *Collector) Probe(ctx context.Context, hosts []string) bool {
	pinger := c.pinger
	if pinger == nil {
		pinger = &CommandPinger{
			Executor: c.commandExecutor,
			Platform: c.platform,
			Timeout:  c.pingTimeout,
			Logger:   c.logger,
		}
	}

	for _, host := range hosts {
		c.logDebug("probing host", "host", host)

		if pinger.Ping(ctx, host) {
			c.logInfo("host reachable", "host", host)

			return true
		}

		c.logDebug("host unreachable", "host", host)
	}

	return false
}
