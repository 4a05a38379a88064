package jobs

import (
	"context"

	"github.com/tkohno/guardian/internal/notify"
	"github.com/tkohno/guardian/internal/watchlist"
	"github.com/tkohno/guardian/pkg/logger"
)

// WatchRefreshJob refreshes every watched position and fires a webhook for
// each alerting status.
type WatchRefreshJob struct {
	monitor  *watchlist.Monitor
	webhook  *notify.Webhook
	schedule string
	logger   *logger.Logger
}

// NewWatchRefreshJob creates a new watch refresh job.
func NewWatchRefreshJob(monitor *watchlist.Monitor, webhook *notify.Webhook, schedule string, log *logger.Logger) *WatchRefreshJob {
	return &WatchRefreshJob{
		monitor:  monitor,
		webhook:  webhook,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *WatchRefreshJob) Name() string {
	return "watch_refresh"
}

// Schedule returns the configured cron expression
func (j *WatchRefreshJob) Schedule() string {
	return j.schedule
}

// Run refreshes the watch list once
func (j *WatchRefreshJob) Run(ctx context.Context) error {
	snapshots, err := j.monitor.Refresh(ctx)
	if err != nil {
		return err
	}

	alerts := 0
	for _, snapshot := range snapshots {
		if !snapshot.Status.Alerting() {
			continue
		}
		alerts++
		j.webhook.Alert(ctx, snapshot)
	}

	j.logger.WithFields(map[string]interface{}{
		"positions": len(snapshots),
		"alerts":    alerts,
	}).Info("Watch refresh completed")

	return nil
}
