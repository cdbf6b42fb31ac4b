package models

// PendingUpload is a durable row describing an interrupted resumable upload.
// Created when an upload attempt obtained a session token but did not reach
// a terminal outcome; removed once a drain pass observes completion.
type PendingUpload struct {
	// ID is assigned by the local store, monotonically increasing.
	ID int64

	// RemotePath is the canonical blob path being uploaded to. Unique per
	// row: re-enqueueing the same path replaces the session token.
	RemotePath string

	// LocalURI is the device-local image handle to read bytes from.
	LocalURI string

	// SessionToken is the blob store's resumable-upload continuation token.
	SessionToken string
}

// PendingDelete is a durable row describing a blob delete that failed and
// must be retried. Removed once a retried delete succeeds or observes that
// the blob is already gone.
type PendingDelete struct {
	ID         int64
	RemotePath string
}
