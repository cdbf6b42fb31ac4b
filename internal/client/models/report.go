// Package models defines client-side data models for reports, their image
// galleries, and the pending-operation queue rows.
package models

import (
	"strings"
	"time"
)

// Mood classifies the mood a report was written in.
type Mood string

const (
	MoodNeutral Mood = "Neutral"
	MoodHappy   Mood = "Happy"
	MoodAngry   Mood = "Angry"
	MoodBored   Mood = "Bored"
	MoodCalm    Mood = "Calm"
	MoodTense   Mood = "Tense"
)

// ParseMood maps a user-entered string to a Mood, case-insensitively.
// Unknown values map to MoodNeutral.
func ParseMood(s string) Mood {
	for _, m := range []Mood{MoodNeutral, MoodHappy, MoodAngry, MoodBored, MoodCalm, MoodTense} {
		if strings.EqualFold(s, string(m)) {
			return m
		}
	}
	return MoodNeutral
}

// ImageRef is one entry of a report's desired image set.
//
// Confirmed distinguishes "definitely present in blob storage" from
// "eventually present": a report may list a path before the blob finished
// uploading, because the path is deterministic and the pending-upload queue
// guarantees convergence.
type ImageRef struct {
	// Path is the canonical remote blob path (the join key between queue
	// rows, record image lists, and blob-store addressing).
	Path string `json:"path"`

	// Confirmed reports whether the upload completed synchronously.
	Confirmed bool `json:"confirmed"`
}

// Report is a journal entry. The Images field is the authoritative desired
// state: blob storage converges toward containing exactly the blobs named
// across all reports' image lists.
type Report struct {
	// ID is a globally unique identifier for the report.
	ID string

	// OwnerID scopes the report to the user who created it.
	OwnerID string

	Title       string
	Description string
	Mood        Mood

	// Date is the moment the report describes, in UTC.
	Date time.Time

	// Images is the ordered desired set of remote blob paths.
	Images []ImageRef
}

// ImagePaths returns the report's image paths in order.
func (r *Report) ImagePaths() []string {
	paths := make([]string, len(r.Images))
	for i, img := range r.Images {
		paths[i] = img.Path
	}
	return paths
}
