package services

import (
	"context"
	"time"

	"github.com/compose-report/reportsync/internal/logging"
)

// DrainRunner replays pending uploads and deletes: one pass at startup and
// then periodically. Drain failures are logged, never surfaced, since
// drains run outside any user-initiated action.
type DrainRunner struct {
	uploader *UploadReconciler
	deleter  *DeleteReconciler
	interval time.Duration
	log      logging.Logger
}

// NewDrainRunner builds a runner draining at the given interval.
func NewDrainRunner(uploader *UploadReconciler, deleter *DeleteReconciler, interval time.Duration, log logging.Logger) *DrainRunner {
	return &DrainRunner{uploader: uploader, deleter: deleter, interval: interval, log: log}
}

// Run drains immediately, then on every tick until the context is
// cancelled.
func (d *DrainRunner) Run(ctx context.Context) {
	d.Pass(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.Pass(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Pass runs a single drain cycle over both queues.
func (d *DrainRunner) Pass(ctx context.Context) {
	if err := d.uploader.Drain(ctx); err != nil {
		d.log.Error(ctx, "upload drain pass failed", "error", err)
	}
	if err := d.deleter.Drain(ctx); err != nil {
		d.log.Error(ctx, "delete drain pass failed", "error", err)
	}
}
