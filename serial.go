package sysmonitor

import (
	"context"
	"strings"
)

// oemPlaceholder is the BIOS default left in serial fields by OEMs that never
// programmed one. Compared case-insensitively.
const oemPlaceholder = "to be filled by o.e.m."

// SerialNumber resolves the hardware serial number. Sources are tried from most
// to least authoritative; when all of them fail it returns [UnknownValue].
func (c *Collector) SerialNumber(ctx context.Context) string {
	c.logDebug("resolving serial number")

	return c.resolve(ctx, FactSerialNumber, c.platform.SerialStrategies(), isValidSerial, UnknownValue)
}

// isValidSerial checks if serial is valid (not empty, zero, or OEM placeholder)
func isValidSerial(serial string) bool {
	if serial == "" || serial == "0" || strings.EqualFold(serial, oemPlaceholder) {
		return false
	}

	return true
}
