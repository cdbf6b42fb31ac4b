package uploadqueue

import (
	"context"
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

// Enqueue upserts a pending upload by remote path. On conflict the local
// URI and session token are replaced.
func (r *SQLiteRepository) Enqueue(ctx context.Context, remotePath, localURI, sessionToken string) error {
	query := ` INSERT INTO image_to_upload (remote_path, local_uri, session_token)
			values (?, ?, ?)
			ON CONFLICT(remote_path) DO UPDATE SET local_uri = excluded.local_uri,
				session_token = excluded.session_token
	`
	_, err := r.db.ExecContext(ctx, query, remotePath, localURI, sessionToken)
	if err != nil {
		return fmt.Errorf("%w: failed to upsert pending upload: %v", common.ErrPersistence, err)
	}
	return nil
}

// List returns all pending uploads ordered by id.
func (r *SQLiteRepository) List(ctx context.Context) ([]models.PendingUpload, error) {
	query := `select id, remote_path, local_uri, session_token from image_to_upload order by id asc`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to select pending uploads: %v", common.ErrPersistence, err)
	}
	defer rows.Close()

	var result []models.PendingUpload
	for rows.Next() {
		var item models.PendingUpload
		if err := rows.Scan(&item.ID, &item.RemotePath, &item.LocalURI, &item.SessionToken); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}
	return result, nil
}

// Remove deletes a pending upload row by id. Removing an absent id is not
// an error so that concurrent drains stay idempotent.
func (r *SQLiteRepository) Remove(ctx context.Context, id int64) error {
	query := `delete from image_to_upload where id=?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%w: failed to remove pending upload: %v", common.ErrPersistence, err)
	}
	return nil
}
