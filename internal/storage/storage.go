package storage

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Uploader uploads local files to remote media storage.
type Uploader interface {
	// Upload stores the file at localPath under folder and returns where it
	// can be fetched from.
	Upload(ctx context.Context, localPath, folder string) (*UploadResult, error)
}

// UploadResult holds the result of a successful upload.
type UploadResult struct {
	// SecureURL is the absolute https URL of the stored asset.
	SecureURL string
	// PublicID identifies the asset within the store.
	PublicID string
}

// ObjectKey returns a new key inside folder keeping the extension of
// localPath. Keys never reuse the local base name, so a migrated reference
// cannot be matched back to its source file.
func ObjectKey(folder, localPath string) string {
	return JoinFolder(folder, uuid.NewString()+filepath.Ext(localPath))
}

// JoinFolder joins folder and name with forward slashes, tolerating leading
// and trailing slashes on folder.
func JoinFolder(folder, name string) string {
	return path.Join(strings.Trim(folder, "/"), name)
}
