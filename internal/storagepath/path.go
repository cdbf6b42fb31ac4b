// Package storagepath derives canonical remote blob paths for report images
// and recovers them from fetched blob URLs.
//
// The canonical path is the join key between local queue rows, the image
// lists stored on report records, and blob-store addressing. It is derived
// deterministically and never reused after a delete.
package storagepath

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/compose-report/reportsync/internal/common"
)

const prefix = "images"

// Derive builds the canonical remote path for an image:
//
//	images/{ownerID}/{localFileName}-{unixMillis}.{ext}
//
// It is pure and total: the same inputs always produce the same path, and
// two derivations at different instants never collide.
func Derive(ownerID, localFileName, ext string, now time.Time) string {
	return fmt.Sprintf("%s/%s/%s-%d.%s", prefix, ownerID, localFileName, now.UnixMilli(), ext)
}

// Recover parses a fetched blob URL back into the canonical remote path.
//
// Blob stores hand back URLs in a different shape than the path used to
// address them: the object name may appear %2F-escaped inside a single path
// segment (Firebase-style download URLs) or as plain path segments followed
// by signing query parameters (presigned URLs). Both shapes are accepted.
// Returns common.ErrMalformedURL when the images/{owner}/{file} structure
// cannot be found.
func Recover(fetchedURL string) (string, error) {
	u, err := url.Parse(fetchedURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrMalformedURL, err)
	}

	p := u.EscapedPath()
	p = strings.ReplaceAll(p, "%2F", "/")
	p = strings.ReplaceAll(p, "%2f", "/")

	segments := strings.Split(p, "/")
	for i := len(segments) - 3; i >= 0; i-- {
		if segments[i] != prefix {
			continue
		}
		owner, err := url.PathUnescape(segments[i+1])
		if err != nil || owner == "" {
			break
		}
		name, err := url.PathUnescape(segments[i+2])
		if err != nil || name == "" {
			break
		}
		return fmt.Sprintf("%s/%s/%s", prefix, owner, name), nil
	}

	return "", fmt.Errorf("%w: no owner segment in %q", common.ErrMalformedURL, fetchedURL)
}
