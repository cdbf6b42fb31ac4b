// Package common defines shared sentinel errors used across the media-sync
// subsystem. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Local pending-operation store errors. Fatal for the current
	// reconciliation attempt; the next drain cycle retries.
	ErrPersistence = errors.New("local persistence failure")

	// Upload never established a resumable session. Surfaced to the caller,
	// never queued.
	ErrUploadStart = errors.New("upload could not start")

	// Blob deletion failed. Usually absorbed into a queued retry.
	ErrDelete = errors.New("blob delete failed")

	// Document-database failure. Surfaced to the caller, no local retry queue.
	ErrRecord = errors.New("record operation failed")

	// Fetched blob URL does not carry the expected owner-segment structure.
	ErrMalformedURL = errors.New("malformed blob url")

	// Remote object or record does not exist.
	ErrNotFound = errors.New("not found")
)
