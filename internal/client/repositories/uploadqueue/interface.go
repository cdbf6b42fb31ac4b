package uploadqueue

import (
	"context"

	"github.com/compose-report/reportsync/internal/client/models"
)

// Repository is the durable store of interrupted resumable uploads.
// Implementations are typically backed by a local SQLite database; every
// operation is atomic and durable before it returns, so a write that
// succeeded is observable after a process restart.
type Repository interface {
	// Enqueue upserts a pending upload keyed by remote path. Re-enqueueing
	// the same path replaces the prior session token instead of duplicating
	// the row.
	Enqueue(ctx context.Context, remotePath, localURI, sessionToken string) error

	// List returns all pending uploads in enqueue (id) order.
	List(ctx context.Context) ([]models.PendingUpload, error)

	// Remove deletes a row by id after the upload reached a terminal outcome.
	Remove(ctx context.Context, id int64) error
}
