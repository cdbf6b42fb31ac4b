package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/compose-report/reportsync/internal/client/models"
	"github.com/compose-report/reportsync/internal/common"
	"github.com/compose-report/reportsync/internal/dbx"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresRepository implements report-record storage over a dbx.DBTX
// (*sql.DB or *sql.Tx). The image list is stored as JSONB so the ordered
// path/confirmed pairs round-trip untouched.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new report record.
func (r *PostgresRepository) Create(ctx context.Context, report *models.Report) error {
	images, err := json.Marshal(report.Images)
	if err != nil {
		return fmt.Errorf("marshal images: %w", err)
	}

	query := `
		INSERT INTO reports (id, owner_id, title, description, mood, date, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.db.ExecContext(ctx, query,
		report.ID, report.OwnerID, report.Title, report.Description, report.Mood, report.Date, images)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Update overwrites an existing record's fields and image list. The owner
// scope is part of the match so one user can never touch another's record.
func (r *PostgresRepository) Update(ctx context.Context, report *models.Report) error {
	images, err := json.Marshal(report.Images)
	if err != nil {
		return fmt.Errorf("marshal images: %w", err)
	}

	query := `
		UPDATE reports SET title=$3, description=$4, mood=$5, date=$6, images=$7
		WHERE id=$1 AND owner_id=$2
	`
	res, err := r.db.ExecContext(ctx, query,
		report.ID, report.OwnerID, report.Title, report.Description, report.Mood, report.Date, images)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Delete removes a record by id.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// GetByID fetches a single record.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	query := `SELECT id, owner_id, title, description, mood, date, images FROM reports WHERE id=$1`
	row := r.db.QueryRowContext(ctx, query, id)

	report, err := scanReport(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return report, nil
}

// GetAllByOwner lists an owner's records ordered by date descending.
func (r *PostgresRepository) GetAllByOwner(ctx context.Context, ownerID string) ([]models.Report, error) {
	query := `SELECT id, owner_id, title, description, mood, date, images FROM reports
		WHERE owner_id=$1 ORDER BY date DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select reports: %w", err)
	}
	defer rows.Close()

	var result []models.Report
	for rows.Next() {
		report, err := scanReport(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanReport(scan func(dest ...any) error) (*models.Report, error) {
	var report models.Report
	var images []byte
	if err := scan(
		&report.ID, &report.OwnerID, &report.Title, &report.Description,
		&report.Mood, &report.Date, &images,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(images, &report.Images); err != nil {
		return nil, fmt.Errorf("unmarshal images: %w", err)
	}
	return &report, nil
}
