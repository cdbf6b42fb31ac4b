package services

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/compose-report/reportsync/internal/client/models"
	"github.com/compose-report/reportsync/internal/client/repositories/deletequeue"
	"github.com/compose-report/reportsync/internal/common"
	"github.com/compose-report/reportsync/internal/logging"
	"github.com/compose-report/reportsync/internal/remote/blob"
)

// DeleteReconciler removes blobs whose paths left a report's desired set,
// queueing failed deletions for retry. Deletes are commutative and
// idempotent: a blob that is already gone counts as success, since the
// desired end state is achieved.
type DeleteReconciler struct {
	store blob.Store
	queue deletequeue.Repository
	log   logging.Logger

	newBackoff func() retry.Backoff
}

// NewDeleteReconciler wires a DeleteReconciler to its blob store and queue.
func NewDeleteReconciler(store blob.Store, queue deletequeue.Repository, log logging.Logger) *DeleteReconciler {
	return &DeleteReconciler{
		store: store,
		queue: queue,
		log:   log,
		newBackoff: func() retry.Backoff {
			return retry.WithMaxRetries(3, retry.WithCappedDuration(30*time.Second, retry.NewExponential(time.Second)))
		},
	}
}

// Delete attempts a direct blob delete. Success (including not-found)
// clears any stale queue row for the path. Any other failure is absorbed
// into a queued retry; only a queue write failure surfaces.
func (d *DeleteReconciler) Delete(ctx context.Context, remotePath string) error {
	err := d.store.Delete(ctx, remotePath)
	if err == nil || errors.Is(err, common.ErrNotFound) {
		return d.queue.RemoveByPath(ctx, remotePath)
	}

	d.log.Warn(ctx, "blob delete failed, queued for retry", "path", remotePath, "error", err)
	return d.queue.Enqueue(ctx, remotePath)
}

// DeleteAll attempts a direct delete of every path, then queues all the
// failures in one batch. Used when a whole report is removed.
func (d *DeleteReconciler) DeleteAll(ctx context.Context, remotePaths []string) error {
	var failed []string
	for _, path := range remotePaths {
		err := d.store.Delete(ctx, path)
		if err == nil || errors.Is(err, common.ErrNotFound) {
			if err := d.queue.RemoveByPath(ctx, path); err != nil {
				return err
			}
			continue
		}
		d.log.Warn(ctx, "blob delete failed, queued for retry", "path", path, "error", err)
		failed = append(failed, path)
	}

	if len(failed) == 0 {
		return nil
	}
	return d.queue.EnqueueAll(ctx, failed)
}

// Drain retries every pending delete. Success or not-found removes the
// row; anything else keeps it for the next drain cycle.
func (d *DeleteReconciler) Drain(ctx context.Context) error {
	rows, err := d.queue.List(ctx)
	if err != nil {
		return err
	}

	for _, row := range rows {
		d.drainRow(ctx, row)
	}
	return nil
}

func (d *DeleteReconciler) drainRow(ctx context.Context, row models.PendingDelete) {
	err := retry.Do(ctx, d.newBackoff(), func(ctx context.Context) error {
		err := d.store.Delete(ctx, row.RemotePath)
		if err == nil || errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return retry.RetryableError(err)
	})
	if err != nil {
		d.log.Warn(ctx, "pending delete not finished, keeping row",
			"path", row.RemotePath, "error", err)
		return
	}

	if err := d.queue.Remove(ctx, row.ID); err != nil {
		d.log.Error(ctx, "failed to remove completed delete row",
			"path", row.RemotePath, "error", err)
	}
}
