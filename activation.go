package sysmonitor

import "context"

// ActivationStatus is the OS license state reported by the license service.
type ActivationStatus int

// Activation states, numbered as the Windows SoftwareLicensingProduct
// LicenseStatus field reports them.
const (
	Unlicensed ActivationStatus = iota
	Licensed
	OOBGrace
	OOTGrace
	NonGenuineGrace
	Notification
	ExtendedGrace
	// ActivationUnknown covers unrecognized codes and failed queries.
	ActivationUnknown
)

var activationLabels = [...]string{
	Unlicensed:        "Unlicensed",
	Licensed:          "Licensed",
	OOBGrace:          "OOBGrace",
	OOTGrace:          "OOTGrace",
	NonGenuineGrace:   "NonGenuineGrace",
	Notification:      "Notification",
	ExtendedGrace:     "ExtendedGrace",
	ActivationUnknown: UnknownValue,
}

// activationCodes maps raw LicenseStatus codes to states.
var activationCodes = map[string]ActivationStatus{
	"0": Unlicensed,
	"1": Licensed,
	"2": OOBGrace,
	"3": OOTGrace,
	"4": NonGenuineGrace,
	"5": Notification,
	"6": ExtendedGrace,
}

// ParseActivationStatus maps a raw status code to its state. Anything other
// than "0" through "6" yields [ActivationUnknown].
func ParseActivationStatus(code string) ActivationStatus {
	if status, ok := activationCodes[code]; ok {
		return status
	}

	return ActivationUnknown
}

// String returns the status label, e.g. "Licensed".
func (s ActivationStatus) String() string {
	if s < 0 || int(s) >= len(activationLabels) {
		return UnknownValue
	}

	return activationLabels[s]
}

// MarshalText encodes the status as its label.
func (s ActivationStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a label; unrecognized labels become ActivationUnknown.
func (s *ActivationStatus) UnmarshalText(text []byte) error {
	*s = ActivationUnknown
	for status, label := range activationLabels {
		if label == string(text) {
			*s = ActivationStatus(status)

			break
		}
	}

	return nil
}

// ActivationStatus queries the OS license state. Platforms without a license
// service, and failed queries, report [ActivationUnknown].
func (c *Collector) ActivationStatus(ctx context.Context) ActivationStatus {
	c.logDebug("resolving activation status")

	strategy, ok := c.platform.ActivationStrategy()
	if !ok {
		c.logDebug("platform has no activation status source", "platform", c.platform.Name())

		return ActivationUnknown
	}

	code, _, err := c.firstValid(ctx, FactActivationStatus, []Strategy{strategy}, isNonEmpty)
	if err != nil {
		c.logWarn("activation status query failed", "error", err)

		return ActivationUnknown
	}

	status := ParseActivationStatus(code)
	if status == ActivationUnknown {
		c.logDebug("unrecognized activation status code", "code", code)
	}
	c.logDebug("activation status interpreted", "code", code, "status", status.String())

	return status
}
