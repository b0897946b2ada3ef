package sysmonitor

import "context"

// Hostname resolves the host name through the platform hostname chain.
//
// Unlike the other resolvers, Hostname has no built-in default: exhaustion is
// returned as a [*FactError] wrapping [ErrAllStrategiesFailed]. Callers choose
// their own fallback; [Collector.BasicSystemInfo] uses [UnresolvedValue].
func (c *Collector) Hostname(ctx context.Context) (string, error) {
	c.logDebug("resolving hostname")

	hostname, _, err := c.firstValid(ctx, FactHostname, c.platform.HostnameStrategies(), isNonEmpty)
	if err != nil {
		return "", err
	}

	return hostname, nil
}
