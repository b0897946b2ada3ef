package sysmonitor

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"
)

// fakePinger answers from a fixed set of reachable hosts and records every probe.
type fakePinger struct {
	mu        sync.Mutex
	reachable map[string]bool
	probed    []string
}

func (p *fakePinger) Ping(_ context.Context, host string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.probed = append(p.probed, host)

	return p.reachable[host]
}

func TestProbeStopsAtFirstReachableHost(t *testing.T) {
	pinger := &fakePinger{reachable: map[string]bool{"1.1.1.1": true}}
	c := newTestCollector(newMockExecutor()).WithPinger(pinger)

	if !c.CheckConnectivity(context.Background()) {
		t.Fatal("CheckConnectivity() = false, want true")
	}

	want := []string{"8.8.8.8", "1.1.1.1"}
	if !slices.Equal(pinger.probed, want) {
		t.Errorf("probed %v, want %v", pinger.probed, want)
	}
}

func TestProbeAllHostsUnreachable(t *testing.T) {
	pinger := &fakePinger{}
	c := newTestCollector(newMockExecutor()).WithPinger(pinger)

	if c.CheckConnectivity(context.Background()) {
		t.Fatal("CheckConnectivity() = true, want false")
	}
	if !slices.Equal(pinger.probed, DefaultProbeHosts) {
		t.Errorf("probed %v, want every default host in order", pinger.probed)
	}
}

func TestProbeCustomHosts(t *testing.T) {
	pinger := &fakePinger{reachable: map[string]bool{"gateway.local": true}}
	c := newTestCollector(newMockExecutor()).
		WithPinger(pinger).
		WithProbeHosts("10.0.0.1", "gateway.local")

	if !c.CheckConnectivity(context.Background()) {
		t.Fatal("CheckConnectivity() = false, want true")
	}
	if !slices.Equal(pinger.probed, []string{"10.0.0.1", "gateway.local"}) {
		t.Errorf("probed %v", pinger.probed)
	}

	c.WithProbeHosts()
	if !slices.Equal(c.probeHosts, DefaultProbeHosts) {
		t.Errorf("WithProbeHosts() with no hosts = %v, want defaults", c.probeHosts)
	}
}

func TestProbeNoHosts(t *testing.T) {
	pinger := &fakePinger{}
	c := newTestCollector(newMockExecutor()).WithPinger(pinger)

	if c.Probe(context.Background(), nil) {
		t.Error("Probe() with no hosts = true, want false")
	}
	if len(pinger.probed) != 0 {
		t.Errorf("probed %v, want nothing", pinger.probed)
	}
}

// TestCommandPingerPerPlatform tests the ping command line and exit code handling.
func TestCommandPingerPerPlatform(t *testing.T) {
	tests := []struct {
		goos    string
		timeout time.Duration
		want    string
	}{
		{"windows", 3 * time.Second, "ping -n 1 -w 3000 8.8.8.8"},
		{"linux", 3 * time.Second, "ping -c 1 -W 3 8.8.8.8"},
		{"darwin", 3 * time.Second, "ping -c 1 -t 3 8.8.8.8"},
		{"linux", 1500 * time.Millisecond, "ping -c 1 -W 2 8.8.8.8"},
		{"windows", 1500 * time.Millisecond, "ping -n 1 -w 1500 8.8.8.8"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			platform := PlatformFor(tt.goos)
			s := platform.PingStrategy("8.8.8.8", tt.timeout)
			if got := commandLine(s.Command, s.Args...); got != tt.want {
				t.Fatalf("PingStrategy() = %q, want %q", got, tt.want)
			}

			mock := newMockExecutor()
			pinger := &CommandPinger{Executor: mock, Platform: platform, Timeout: tt.timeout}

			mock.setOutput(s, "Reply from 8.8.8.8")
			if !pinger.Ping(context.Background(), "8.8.8.8") {
				t.Error("Ping() = false for exit 0")
			}

			mock.setExit(s, 1, "Request timed out.")
			if pinger.Ping(context.Background(), "8.8.8.8") {
				t.Error("Ping() = true for exit 1")
			}
		})
	}
}

// TestCommandPingerSpawnFailure tests that a missing ping binary reads as unreachable.
func TestCommandPingerSpawnFailure(t *testing.T) {
	pinger := &CommandPinger{Executor: newMockExecutor(), Platform: PlatformFor("linux")}

	if pinger.Ping(context.Background(), "8.8.8.8") {
		t.Error("Ping() = true when ping could not be started")
	}
}

// TestCheckConnectivityDefaultPinger tests the command pinger wired by default.
func TestCheckConnectivityDefaultPinger(t *testing.T) {
	platform := PlatformFor("windows")

	mock := newMockExecutor()
	mock.setExit(platform.PingStrategy("8.8.8.8", DefaultPingTimeout), 1, "")
	mock.setOutput(platform.PingStrategy("1.1.1.1", DefaultPingTimeout), "Reply from 1.1.1.1")

	c := newTestCollector(mock)
	if !c.CheckConnectivity(context.Background()) {
		t.Fatal("CheckConnectivity() = false, want true")
	}
	if mock.called(platform.PingStrategy("208.67.222.222", DefaultPingTimeout)) {
		t.Error("third host probed after second answered")
	}
}

// TestICMPPingerUnresolvableHost tests that a name that cannot be resolved is unreachable.
func TestICMPPingerUnresolvableHost(t *testing.T) {
	pinger := &ICMPPinger{Timeout: 100 * time.Millisecond}

	if pinger.Ping(context.Background(), "no-such-host.invalid") {
		t.Error("Ping() = true for an unresolvable host")
	}
}

// TestICMPPingerCanceledContext tests that no echo is sent once ctx is done.
func TestICMPPingerCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pinger := &ICMPPinger{Timeout: time.Second}

	start := time.Now()
	if pinger.Ping(ctx, "127.0.0.1") {
		t.Error("Ping() = true with a canceled context")
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Ping() took %v with a canceled context", elapsed)
	}
}

// TestCheckConnectivityICMPCanceled tests the ICMP backend through the collector.
func TestCheckConnectivityICMPCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestCollector(newMockExecutor()).WithPinger(&ICMPPinger{Timeout: time.Second})
	if c.CheckConnectivity(ctx) {
		t.Error("CheckConnectivity() = true with a canceled context")
	}
}
