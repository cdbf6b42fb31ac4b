// Package records provides access to the remote document database holding
// report metadata, with a PostgreSQL-backed implementation.
package records

import (
	"context"

	"github.com/compose-report/reportsync/internal/client/models"
)

// Repository is the document-record store. Each call is an atomic
// request/response; the service provides its own durability, so failures
// surface immediately (wrapped in common.ErrRecord by callers) and are not
// queued locally.
type Repository interface {
	// Create inserts a new report record.
	Create(ctx context.Context, report *models.Report) error

	// Update overwrites an existing record's fields and image list.
	Update(ctx context.Context, report *models.Report) error

	// Delete removes a record by id. Returns common.ErrNotFound when no
	// record exists.
	Delete(ctx context.Context, id string) error

	// GetByID fetches a single record. Returns common.ErrNotFound when no
	// record exists.
	GetByID(ctx context.Context, id string) (*models.Report, error)

	// GetAllByOwner lists an owner's records, newest first.
	GetAllByOwner(ctx context.Context, ownerID string) ([]models.Report, error)
}
