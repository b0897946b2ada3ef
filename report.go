package sysmonitor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Report aggregates every entry operation's result for one collection run.
type Report struct {
	ID          string       `json:"report_id"`
	CollectedAt time.Time    `json:"collected_at"`
	Platform    string       `json:"platform"`
	System      SystemInfo   `json:"system"`
	Hardware    PlatformInfo `json:"hardware"`
	Online      bool         `json:"online"`
}

// Report runs BasicSystemInfo, PlatformInfo and CheckConnectivity
// concurrently. The three share no state; each still resolves its own
// chains sequentially.
func (c *Collector) Report(ctx context.Context) Report {
	report := Report{
		ID:          uuid.NewString(),
		CollectedAt: time.Now().UTC(),
		Platform:    c.platform.Name(),
	}

	var g errgroup.Group

	g.Go(func() error {
		report.System = c.BasicSystemInfo(ctx)

		return nil
	})
	g.Go(func() error {
		report.Hardware = c.PlatformInfo(ctx)

		return nil
	})
	g.Go(func() error {
		report.Online = c.CheckConnectivity(ctx)

		return nil
	})

	// Entry operations never fail, so Wait only synchronizes.
	_ = g.Wait()

	c.logInfo("report collected", "report_id", report.ID, "online", report.Online)

	return report
}
