package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/recipehub/recipebot-backend/internal/models"
)

// MediaKind selects the storage directory and file extension for an attachment
type MediaKind string

const (
	MediaVoice MediaKind = "voice"
	MediaPhoto MediaKind = "photo"
)

// MediaStore persists inbound attachments and checks stored handles.
// Handles are paths relative to the media root ("photos/<id>.jpg"),
// substitutable for the raw bytes in later persistence steps.
type MediaStore interface {
	Save(kind MediaKind, att *models.Attachment) (string, error)
	Resolve(handle string) error
}

// LocalMediaStore keeps attachments on the local filesystem: voice notes
// under voices/, photos under photos/, named by attachment ID.
type LocalMediaStore struct {
	baseDir string
	client  *resty.Client
}

// NewLocalMediaStore creates a filesystem media store rooted at baseDir.
// Twilio media URLs require basic auth, so the account credentials are
// attached to the fetch client when provided.
func NewLocalMediaStore(baseDir, accountSID, authToken string) *LocalMediaStore {
	client := resty.New().SetTimeout(30 * time.Second)
	if accountSID != "" && authToken != "" {
		client.SetBasicAuth(accountSID, authToken)
	}

	return &LocalMediaStore{
		baseDir: baseDir,
		client:  client,
	}
}

func (m *LocalMediaStore) layout(kind MediaKind) (subdir, ext string) {
	if kind == MediaVoice {
		return "voices", ".ogg"
	}
	return "photos", ".jpg"
}

// Save fetches the attachment bytes and writes them under the media root,
// returning the stored handle. Any fetch or write failure is a MediaError;
// the caller keeps the session alive so the user can retry.
func (m *LocalMediaStore) Save(kind MediaKind, att *models.Attachment) (string, error) {
	subdir, ext := m.layout(kind)

	dir := filepath.Join(m.baseDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &MediaError{Op: "mkdir", Err: err}
	}

	id := att.ID
	if id == "" {
		id = uuid.NewString()
	}

	resp, err := m.client.R().Get(att.URL)
	if err != nil {
		return "", &MediaError{Op: "fetch", Err: err}
	}
	if resp.IsError() {
		return "", &MediaError{Op: "fetch", Err: fmt.Errorf("unexpected status %s", resp.Status())}
	}

	handle := filepath.Join(subdir, id+ext)
	if err := os.WriteFile(filepath.Join(m.baseDir, handle), resp.Body(), 0o644); err != nil {
		return "", &MediaError{Op: "write", Err: err}
	}

	log.Printf("Saved %s attachment to %s", kind, handle)
	return handle, nil
}

// Resolve reports whether a stored handle still points at a readable file
func (m *LocalMediaStore) Resolve(handle string) error {
	if _, err := os.Stat(filepath.Join(m.baseDir, handle)); err != nil {
		return &MediaError{Op: "resolve", Err: err}
	}
	return nil
}
