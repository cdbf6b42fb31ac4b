package deletequeue

import (
	"context"

	"github.com/compose-report/reportsync/internal/client/models"
)

// Repository is the durable store of blob deletes awaiting retry.
type Repository interface {
	// Enqueue upserts a pending delete keyed by remote path.
	Enqueue(ctx context.Context, remotePath string) error

	// EnqueueAll upserts pending deletes for every path, atomically when
	// the backing store supports transactions.
	EnqueueAll(ctx context.Context, remotePaths []string) error

	// List returns all pending deletes in enqueue (id) order.
	List(ctx context.Context) ([]models.PendingDelete, error)

	// Remove deletes a row by id once the blob is confirmed gone.
	Remove(ctx context.Context, id int64) error

	// RemoveByPath deletes any row matching the remote path. Used when a
	// direct delete succeeds after an earlier failed attempt was queued.
	RemoveByPath(ctx context.Context, remotePath string) error
}
