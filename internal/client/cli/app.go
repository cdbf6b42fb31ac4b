// Package cli wires the report sync client together and drives it from an
// interactive prompt.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/compose-report/reportsync/internal/client/config"
	"github.com/compose-report/reportsync/internal/client/services"
	"github.com/compose-report/reportsync/internal/client/storage"
	"github.com/compose-report/reportsync/internal/identity"
	"github.com/compose-report/reportsync/internal/logging"
	"github.com/compose-report/reportsync/internal/remote/blob"
	"github.com/compose-report/reportsync/internal/remote/records"
)

// App holds the wired services and the interactive state of the client.
type App struct {
	config  *config.Config
	reports *services.ReportService
	drainer *services.DrainRunner

	local     *storage.Storage
	recordsDB *sql.DB
	reader    *bufio.Reader
}

// NewApp opens the local database, connects the remote backends, and wires
// the reconcilers and the report service.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	local, err := storage.Open(ctx, c.LocalDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local storage: %w", err)
	}

	store, err := blob.NewS3Store(ctx, blob.Config{
		Region:          c.S3Region,
		BaseEndpoint:    c.S3Endpoint,
		AccessKeyID:     c.S3AccessKeyID,
		SecretAccessKey: c.S3SecretAccessKey,
		Bucket:          c.S3Bucket,
	})
	if err != nil {
		_ = local.Close()
		return nil, fmt.Errorf("failed to connect blob storage: %w", err)
	}

	recordsDB, err := sql.Open("pgx", c.RecordsDSN)
	if err != nil {
		_ = local.Close()
		return nil, fmt.Errorf("failed to open document database: %w", err)
	}
	repo := records.NewPostgresRepository(recordsDB)

	uploader := services.NewUploadReconciler(store, local.Uploads, log)
	deleter := services.NewDeleteReconciler(store, local.Deletes, log)
	provider := identity.NewTokenProvider(c.AuthToken, []byte(c.JWTSecret))

	return &App{
		config:    c,
		reports:   services.NewReportService(repo, uploader, deleter, provider, store, log),
		drainer:   services.NewDrainRunner(uploader, deleter, c.DrainInterval, log),
		local:     local,
		recordsDB: recordsDB,
		reader:    bufio.NewReader(os.Stdin),
	}, nil
}

// Run starts the periodic drain loop and enters the prompt. It returns
// when the user exits or the context is cancelled.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.drainer.Run(ctx)

	a.Root(ctx)
}

// Close releases the local database and the document database handles.
func (a *App) Close() error {
	err := a.local.Close()
	if cerr := a.recordsDB.Close(); err == nil {
		err = cerr
	}
	return err
}
