package sysmonitor

import (
	"regexp"
	"runtime"
	"strconv"
	"time"
)

// Platform supplies the OS-specific command tables the resolvers run.
// Resolver logic is identical across platforms; only these tables differ.
type Platform interface {
	// Name returns the GOOS-style platform name.
	Name() string
	// HostnameStrategies returns the hostname chain, most authoritative first.
	HostnameStrategies() []Strategy
	// SerialStrategies returns the hardware serial number chain.
	SerialStrategies() []Strategy
	// ActivationStrategy returns the license status query, or false when the
	// platform has no such tool.
	ActivationStrategy() (Strategy, bool)
	// PingStrategy returns a single-packet ping of host bounded by timeout.
	PingStrategy(host string, timeout time.Duration) Strategy
}

// Compiled regexes for ioreg output parsing.
var ioregSerialRe = regexp.MustCompile(`"IOPlatformSerialNumber"\s*=\s*"([^"]+)"`)

// PowerShell scripts used by the Windows command table.
const (
	psBIOSSerial        = "Get-WmiObject -Class Win32_BIOS | Select-Object -ExpandProperty SerialNumber"
	psProductIdentifier = "Get-WmiObject -Class Win32_ComputerSystemProduct | Select-Object -ExpandProperty IdentifyingNumber"
	psEnclosureSerial   = "Get-WmiObject -Class Win32_SystemEnclosure | Select-Object -ExpandProperty SerialNumber"
	psCIMBIOSSerial     = "(Get-CimInstance -ClassName Win32_BIOS).SerialNumber"
	psLicenseStatus     = "Get-WmiObject -Class SoftwareLicensingProduct | " +
		"Where-Object {$_.PartialProductKey -and $_.Name -like '*Windows*'} | " +
		"Select-Object -ExpandProperty LicenseStatus"
	psComputerName = "$env:COMPUTERNAME"
)

// CurrentPlatform returns the command table for the running OS.
func CurrentPlatform() Platform {
	return PlatformFor(runtime.GOOS)
}

// PlatformFor returns the command table for goos. Anything that is not
// windows or darwin gets the Linux table.
func PlatformFor(goos string) Platform {
	switch goos {
	case "windows":
		return windowsPlatform{}
	case "darwin":
		return darwinPlatform{}
	default:
		return linuxPlatform{goos: goos}
	}
}

// powershell builds a strategy running script in a non-interactive shell.
func powershell(name, script string) Strategy {
	return Strategy{
		Name:    name,
		Command: "powershell",
		Args:    []string{"-NoProfile", "-NonInteractive", "-Command", script},
		Extract: Plain(),
	}
}

type windowsPlatform struct{}

func (windowsPlatform) Name() string { return "windows" }

func (windowsPlatform) HostnameStrategies() []Strategy {
	return []Strategy{
		{Name: "hostname", Command: "hostname", Extract: Plain()},
		powershell("COMPUTERNAME", psComputerName),
	}
}

func (windowsPlatform) SerialStrategies() []Strategy {
	return []Strategy{
		powershell("Win32_BIOS", psBIOSSerial),
		powershell("Win32_ComputerSystemProduct", psProductIdentifier),
		powershell("Win32_SystemEnclosure", psEnclosureSerial),
		powershell("CIM", psCIMBIOSSerial),
		{
			Name:    "WMIC",
			Command: "wmic",
			Args:    []string{"bios", "get", "serialnumber", "/value"},
			Extract: KeyedLine("SerialNumber"),
		},
	}
}

func (windowsPlatform) ActivationStrategy() (Strategy, bool) {
	return powershell("SoftwareLicensingProduct", psLicenseStatus), true
}

func (windowsPlatform) PingStrategy(host string, timeout time.Duration) Strategy {
	return Strategy{
		Name:    "ping",
		Command: "ping",
		Args:    []string{"-n", "1", "-w", strconv.FormatInt(timeout.Milliseconds(), 10), host},
	}
}

type linuxPlatform struct {
	goos string
}

func (p linuxPlatform) Name() string {
	if p.goos == "" {
		return "linux"
	}

	return p.goos
}

func (linuxPlatform) HostnameStrategies() []Strategy {
	return unixHostnameStrategies()
}

func (linuxPlatform) SerialStrategies() []Strategy {
	return []Strategy{
		{Name: "dmi_product_serial", Path: "/sys/class/dmi/id/product_serial", Extract: Plain()},
		{Name: "dmi_virtual_product_serial", Path: "/sys/devices/virtual/dmi/id/product_serial", Extract: Plain()},
		{Name: "dmidecode", Command: "dmidecode", Args: []string{"-s", "system-serial-number"}, Extract: Plain()},
	}
}

func (linuxPlatform) ActivationStrategy() (Strategy, bool) {
	return Strategy{}, false
}

func (linuxPlatform) PingStrategy(host string, timeout time.Duration) Strategy {
	return Strategy{
		Name:    "ping",
		Command: "ping",
		Args:    []string{"-c", "1", "-W", strconv.Itoa(timeoutSeconds(timeout)), host},
	}
}

type darwinPlatform struct{}

func (darwinPlatform) Name() string { return "darwin" }

func (darwinPlatform) HostnameStrategies() []Strategy {
	return unixHostnameStrategies()
}

func (darwinPlatform) SerialStrategies() []Strategy {
	return []Strategy{
		{
			Name:    "system_profiler",
			Command: "system_profiler",
			Args:    []string{"SPHardwareDataType", "-json"},
			Extract: HardwareJSONField("serial_number"),
		},
		{
			Name:    "ioreg",
			Command: "ioreg",
			Args:    []string{"-d2", "-c", "IOPlatformExpertDevice"},
			Extract: RegexGroup(ioregSerialRe),
		},
	}
}

func (darwinPlatform) ActivationStrategy() (Strategy, bool) {
	return Strategy{}, false
}

// PingStrategy uses -t because darwin's -W is a per-packet wait in milliseconds.
func (darwinPlatform) PingStrategy(host string, timeout time.Duration) Strategy {
	return Strategy{
		Name:    "ping",
		Command: "ping",
		Args:    []string{"-c", "1", "-t", strconv.Itoa(timeoutSeconds(timeout)), host},
	}
}

func unixHostnameStrategies() []Strategy {
	return []Strategy{
		{Name: "hostname", Command: "hostname", Extract: Plain()},
		{Name: "HOSTNAME", Command: "sh", Args: []string{"-c", `echo "${HOSTNAME:-$(uname -n)}"`}, Extract: Plain()},
	}
}

// timeoutSeconds rounds timeout up to whole seconds, minimum one.
func timeoutSeconds(timeout time.Duration) int {
	secs := int((timeout + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}

	return secs
}
