package deletequeue

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/compose-report/reportsync/internal/client/models"
	"github.com/compose-report/reportsync/internal/common"
	"github.com/compose-report/reportsync/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Enqueue upserts a pending delete by remote path. A duplicate enqueue
// leaves the existing row untouched.
func (r *SQLiteRepository) Enqueue(ctx context.Context, remotePath string) error {
	query := ` INSERT INTO image_to_delete (remote_path) values (?)
			ON CONFLICT(remote_path) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, remotePath)
	if err != nil {
		return fmt.Errorf("%w: failed to upsert pending delete: %v", common.ErrPersistence, err)
	}
	return nil
}

// EnqueueAll upserts pending deletes for every path. When the repository
// is bound to a root *sql.DB the rows are written in a single transaction,
// so a crash mid-way never records only part of a report's images.
func (r *SQLiteRepository) EnqueueAll(ctx context.Context, remotePaths []string) error {
	if db, ok := r.db.(*sql.DB); ok {
		return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			return NewSQLiteRepository(tx).EnqueueAll(ctx, remotePaths)
		})
	}

	for _, path := range remotePaths {
		if err := r.Enqueue(ctx, path); err != nil {
			return err
		}
	}
	return nil
}

// List returns all pending deletes ordered by id.
func (r *SQLiteRepository) List(ctx context.Context) ([]models.PendingDelete, error) {
	query := `select id, remote_path from image_to_delete order by id asc`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to select pending deletes: %v", common.ErrPersistence, err)
	}
	defer rows.Close()

	var result []models.PendingDelete
	for rows.Next() {
		var item models.PendingDelete
		if err := rows.Scan(&item.ID, &item.RemotePath); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}
	return result, nil
}

// Remove deletes a pending delete row by id.
func (r *SQLiteRepository) Remove(ctx context.Context, id int64) error {
	query := `delete from image_to_delete where id=?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%w: failed to remove pending delete: %v", common.ErrPersistence, err)
	}
	return nil
}

// RemoveByPath deletes any pending delete row for the given remote path.
func (r *SQLiteRepository) RemoveByPath(ctx context.Context, remotePath string) error {
	query := `delete from image_to_delete where remote_path=?`
	_, err := r.db.ExecContext(ctx, query, remotePath)
	if err != nil {
		return fmt.Errorf("%w: failed to remove pending delete: %v", common.ErrPersistence, err)
	}
	return nil
}
