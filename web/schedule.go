// ABOUTME: Cron-scheduled background sync for the web server
// ABOUTME: Failures are logged and retried on the next tick
package web

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

// newSyncScheduler returns a stopped scheduler that runs syncer.Sync on spec.
// spec is a five-field cron expression or a descriptor such as "@every 15m".
func newSyncScheduler(spec string, syncer Syncer) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := syncer.Sync(); err != nil {
			log.Warn("scheduled sync failed", "err", err)
			return
		}
		log.Debug("scheduled sync completed")
	})
	if err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", spec, err)
	}
	return c, nil
}
