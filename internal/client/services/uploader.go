// Package services implements the media-sync reconciliation logic: the
// upload and delete reconcilers, the report record synchronizer, and the
// drain runner that replays pending work.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/compose-report/reportsync/internal/client/models"
	"github.com/compose-report/reportsync/internal/client/repositories/uploadqueue"
	"github.com/compose-report/reportsync/internal/common"
	"github.com/compose-report/reportsync/internal/logging"
	"github.com/compose-report/reportsync/internal/remote/blob"
)

// UploadStatus is the terminal state of a user-initiated upload attempt.
type UploadStatus string

const (
	// UploadDone means the blob is fully stored.
	UploadDone UploadStatus = "done"

	// UploadPending means the transfer was interrupted after a resumable
	// session was issued; a queue row exists and a drain pass will finish
	// it. Pending is not a failure of the user-visible save.
	UploadPending UploadStatus = "pending"
)

const drainConcurrency = 4

// UploadReconciler drives images from local files into blob storage,
// falling back to the durable queue when a transfer is interrupted.
//
// Attempts for distinct remote paths run independently; attempts for the
// same remote path are collapsed through a single-flight group, since a
// second session started for a path would orphan the first one's token.
type UploadReconciler struct {
	store blob.Store
	queue uploadqueue.Repository
	log   logging.Logger

	group singleflight.Group

	// newBackoff builds the per-row backoff used during drains.
	// Overridable in tests.
	newBackoff func() retry.Backoff
}

// NewUploadReconciler wires an UploadReconciler to its blob store and queue.
func NewUploadReconciler(store blob.Store, queue uploadqueue.Repository, log logging.Logger) *UploadReconciler {
	return &UploadReconciler{
		store: store,
		queue: queue,
		log:   log,
		newBackoff: func() retry.Backoff {
			return retry.WithMaxRetries(3, retry.WithCappedDuration(30*time.Second, retry.NewExponential(time.Second)))
		},
	}
}

// Upload attempts a direct upload of one gallery image.
//
// Outcomes:
//   - full synchronous success: UploadDone, no queue row;
//   - session issued but transfer interrupted: the session token is
//     enqueued and UploadPending is returned;
//   - no session established: common.ErrUploadStart, nothing queued; a
//     failed start carries no resumable token worth retrying.
func (u *UploadReconciler) Upload(ctx context.Context, img models.GalleryImage) (UploadStatus, error) {
	v, err, _ := u.group.Do(img.RemotePath, func() (any, error) {
		return u.startOnce(ctx, img)
	})
	if err != nil {
		return "", err
	}
	return v.(UploadStatus), nil
}

func (u *UploadReconciler) startOnce(ctx context.Context, img models.GalleryImage) (UploadStatus, error) {
	out, err := u.store.Start(ctx, img.RemotePath, img.LocalURI)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUploadStart, err)
	}
	if out.Done {
		return UploadDone, nil
	}

	if err := u.queue.Enqueue(ctx, img.RemotePath, img.LocalURI, out.SessionToken); err != nil {
		return "", err
	}
	u.log.Info(ctx, "upload interrupted, queued for drain", "path", img.RemotePath)
	return UploadPending, nil
}

// Drain resumes every pending upload. Rows that reach a terminal success
// are removed; rows that still fail after backoff stay queued for the next
// drain cycle. Only listing the queue can fail; per-row failures are logged
// and absorbed.
func (u *UploadReconciler) Drain(ctx context.Context) error {
	rows, err := u.queue.List(ctx)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(drainConcurrency)
	for _, row := range rows {
		g.Go(func() error {
			u.drainRow(ctx, row)
			return nil
		})
	}
	return g.Wait()
}

func (u *UploadReconciler) drainRow(ctx context.Context, row models.PendingUpload) {
	_, err, _ := u.group.Do(row.RemotePath, func() (any, error) {
		return u.resumeOnce(ctx, row)
	})
	if err != nil {
		u.log.Warn(ctx, "pending upload not finished, keeping row",
			"path", row.RemotePath, "error", err)
		return
	}

	if err := u.queue.Remove(ctx, row.ID); err != nil {
		u.log.Error(ctx, "failed to remove completed upload row",
			"path", row.RemotePath, "error", err)
	}
}

var errStillPending = errors.New("upload still pending")

func (u *UploadReconciler) resumeOnce(ctx context.Context, row models.PendingUpload) (UploadStatus, error) {
	token := row.SessionToken

	err := retry.Do(ctx, u.newBackoff(), func(ctx context.Context) error {
		out, err := u.store.Resume(ctx, token, row.LocalURI)
		if err != nil {
			return retry.RetryableError(err)
		}
		if out.Done {
			return nil
		}
		// The store may hand back a fresh continuation token; persist it so
		// a crash between attempts resumes from the newest state.
		if out.SessionToken != "" && out.SessionToken != token {
			token = out.SessionToken
			if err := u.queue.Enqueue(ctx, row.RemotePath, row.LocalURI, token); err != nil {
				return err
			}
		}
		return retry.RetryableError(errStillPending)
	})
	if err != nil {
		return "", err
	}
	return UploadDone, nil
}
