package blob

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// session is the state serialized into a resumable-upload token: enough to
// find the multipart upload again after a process restart. Uploaded-part
// bookkeeping is not included; the part list is recovered from the store
// itself on resume.
type session struct {
	Bucket   string `json:"bucket"`
	Key      string `json:"key"`
	UploadID string `json:"upload_id"`
}

func (s session) encode() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func decodeSession(token string) (session, error) {
	var s session
	b, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return s, fmt.Errorf("invalid session token: %w", err)
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return s, fmt.Errorf("invalid session token: %w", err)
	}
	if s.Bucket == "" || s.Key == "" || s.UploadID == "" {
		return s, fmt.Errorf("invalid session token: missing fields")
	}
	return s, nil
}
