package uploadqueue

import (
	"context"
	"database/sql"
	"testing"

	"github.com/compose-report/reportsync/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
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
`)
	require.NoError(t, err)

	return db
}

func TestEnqueue_InsertAndList(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Enqueue(ctx, "images/u1/a-1.jpg", "/tmp/a.jpg", "tok1"))
	require.NoError(t, r.Enqueue(ctx, "images/u1/b-2.jpg", "/tmp/b.jpg", "tok2"))

	rows, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "images/u1/a-1.jpg", rows[0].RemotePath)
	assert.Equal(t, "tok1", rows[0].SessionToken)
	assert.Equal(t, "images/u1/b-2.jpg", rows[1].RemotePath)
	assert.Less(t, rows[0].ID, rows[1].ID)
}

func TestEnqueue_SamePathReplacesToken(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Enqueue(ctx, "images/u1/a-1.jpg", "/tmp/a.jpg", "tok1"))
	require.NoError(t, r.Enqueue(ctx, "images/u1/a-1.jpg", "/tmp/a.jpg", "tok2"))

	rows, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1, "re-enqueueing the same path must not duplicate")
	assert.Equal(t, "tok2", rows[0].SessionToken, "latest session token wins")
}

func TestRemove(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Enqueue(ctx, "images/u1/a-1.jpg", "/tmp/a.jpg", "tok1"))
	rows, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	id := rows[0].ID
	require.NoError(t, r.Remove(ctx, id))
	rows, err = r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)

	// removing an already-removed id is idempotent
	require.NoError(t, r.Remove(ctx, id))
}

func TestEnqueue_PersistenceErrorOnClosedDB(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	require.NoError(t, db.Close())

	err := r.Enqueue(context.Background(), "images/u1/a-1.jpg", "/tmp/a.jpg", "tok1")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrPersistence)
}
