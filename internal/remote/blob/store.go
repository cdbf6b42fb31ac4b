// Package blob defines the blob-storage contract used by the reconcilers
// and provides an S3 implementation with resumable (multipart) uploads.
package blob

import "context"

// Outcome is the discriminated result of an upload attempt. Exactly one of
// the two shapes is meaningful: Done=true means the blob is fully stored;
// otherwise SessionToken carries the continuation token for a later resume.
type Outcome struct {
	Done         bool
	SessionToken string
}

// Store is the remote blob storage service. Implementations are safe for
// concurrent use; every method blocks until a terminal or partial-progress
// outcome instead of registering callbacks.
type Store interface {
	// Start begins an upload of the local file at localURI to remotePath.
	// A returned error means no resumable session was established and
	// nothing was transferred.
	Start(ctx context.Context, remotePath, localURI string) (Outcome, error)

	// Resume continues an interrupted upload using a previously issued
	// session token.
	Resume(ctx context.Context, sessionToken, localURI string) (Outcome, error)

	// Delete removes the blob at remotePath. Returns common.ErrNotFound
	// when the blob does not exist.
	Delete(ctx context.Context, remotePath string) error

	// FetchURL returns a URL from which the blob can be downloaded.
	FetchURL(ctx context.Context, remotePath string) (string, error)
}
