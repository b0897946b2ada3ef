// Package sysmonitor collects best-effort host diagnostics (OS identity,
// hostname, hardware serial number and OS activation state), probes internet
// reachability, and relays payloads to a remote API.
//
// # Overview
//
// Every fact is resolved by a fallback chain: an ordered list of [Strategy]
// values, each naming a platform command and an [Extractor] for its output.
// Strategies run one at a time, most authoritative first. The first value
// that passes the chain's validity check wins and later strategies are never
// run. Command tables live behind the [Platform] interface, so resolver logic
// is the same on Windows, Linux and macOS.
//
// # Quick Start
//
//	c := sysmonitor.New().WithLogger(slog.Default())
//
//	sys := c.BasicSystemInfo(ctx)  // os_name, os_version, hostname
//	hw := c.PlatformInfo(ctx)      // serial_number, activation_status
//	online := c.CheckConnectivity(ctx)
//
//	body, err := sysmonitor.NewRelay().Send(ctx, endpoint, payload, token)
//
// # Sentinels and Errors
//
// Entry operations on [Collector] never return errors. A fact that cannot be
// resolved becomes [UnknownValue], [UnresolvedValue], [ActivationUnknown] or
// false. The exception is [Collector.Hostname], which returns a [*FactError]
// so callers pick their own fallback. [Relay.Send] always reports failures as
// typed errors: [*TransportError], [*StatusError] or [*BodyError].
//
// # Serial Numbers
//
// On Windows the serial number chain tries, in order: Win32_BIOS,
// Win32_ComputerSystemProduct, Win32_SystemEnclosure, the CIM equivalent of
// Win32_BIOS, and finally `wmic bios get serialnumber /value`. Values that are
// empty, "0", or the OEM placeholder "To be filled by O.E.M." are rejected.
//
// # Testing
//
// Inject a custom [CommandExecutor] via [Collector.WithExecutor] and a fixed
// command table via [Collector.WithPlatform] to replace real system commands
// with deterministic test doubles:
//
//	c := sysmonitor.New().
//		WithExecutor(myMock).
//		WithPlatform(sysmonitor.PlatformFor("windows"))
//
// # Windows
//
// Child processes are started with CREATE_NO_WINDOW so console tools never
// flash a window over a GUI host.
package sysmonitor
