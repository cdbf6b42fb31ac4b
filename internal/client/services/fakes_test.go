package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/compose-report/reportsync/internal/client/models"
	"github.com/compose-report/reportsync/internal/client/repositories/deletequeue"
	"github.com/compose-report/reportsync/internal/client/repositories/uploadqueue"
	"github.com/compose-report/reportsync/internal/common"
	"github.com/compose-report/reportsync/internal/logging"
	"github.com/compose-report/reportsync/internal/remote/blob"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupQueues(t *testing.T) (*uploadqueue.SQLiteRepository, *deletequeue.SQLiteRepository) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE image_to_upload (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  remote_path TEXT NOT NULL UNIQUE,
  local_uri TEXT NOT NULL,
  session_token TEXT NOT NULL
);
CREATE TABLE image_to_delete (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  remote_path TEXT NOT NULL UNIQUE
);
`)
	require.NoError(t, err)

	return uploadqueue.NewSQLiteRepository(db), deletequeue.NewSQLiteRepository(db)
}

// fakeBlob is a scripted blob.Store. Unset hooks behave as immediate
// success. Call counts are safe for concurrent use.
type fakeBlob struct {
	mu sync.Mutex

	startFn  func(path, uri string) (blob.Outcome, error)
	resumeFn func(token, uri string) (blob.Outcome, error)
	deleteFn func(path string) error
	fetchFn  func(path string) (string, error)

	startCalls  int
	resumeCalls int
	deleteCalls []string
}

func (f *fakeBlob) Start(ctx context.Context, path, uri string) (blob.Outcome, error) {
	f.mu.Lock()
	f.startCalls++
	fn := f.startFn
	f.mu.Unlock()
	if fn != nil {
		return fn(path, uri)
	}
	return blob.Outcome{Done: true}, nil
}

func (f *fakeBlob) Resume(ctx context.Context, token, uri string) (blob.Outcome, error) {
	f.mu.Lock()
	f.resumeCalls++
	fn := f.resumeFn
	f.mu.Unlock()
	if fn != nil {
		return fn(token, uri)
	}
	return blob.Outcome{Done: true}, nil
}

func (f *fakeBlob) Delete(ctx context.Context, path string) error {
	f.mu.Lock()
	f.deleteCalls = append(f.deleteCalls, path)
	fn := f.deleteFn
	f.mu.Unlock()
	if fn != nil {
		return fn(path)
	}
	return nil
}

func (f *fakeBlob) FetchURL(ctx context.Context, path string) (string, error) {
	f.mu.Lock()
	fn := f.fetchFn
	f.mu.Unlock()
	if fn != nil {
		return fn(path)
	}
	return "https://blobs.local/bucket/" + path + "?sig=abc", nil
}

// fakeRecords is an in-memory records.Repository with scripted failures.
type fakeRecords struct {
	mu sync.Mutex

	reports map[string]*models.Report

	createErr error
	updateErr error
	deleteErr error
	getErr    error
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{reports: make(map[string]*models.Report)}
}

func (f *fakeRecords) clone(r *models.Report) *models.Report {
	c := *r
	c.Images = append([]models.ImageRef(nil), r.Images...)
	return &c
}

func (f *fakeRecords) Create(ctx context.Context, report *models.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.reports[report.ID] = f.clone(report)
	return nil
}

func (f *fakeRecords) Update(ctx context.Context, report *models.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.reports[report.ID]; !ok {
		return common.ErrNotFound
	}
	f.reports[report.ID] = f.clone(report)
	return nil
}

func (f *fakeRecords) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.reports[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.reports, id)
	return nil
}

func (f *fakeRecords) GetByID(ctx context.Context, id string) (*models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	r, ok := f.reports[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return f.clone(r), nil
}

func (f *fakeRecords) GetAllByOwner(ctx context.Context, ownerID string) ([]models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Report
	for _, r := range f.reports {
		if r.OwnerID == ownerID {
			result = append(result, *f.clone(r))
		}
	}
	return result, nil
}
