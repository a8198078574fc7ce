package memory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/utafrali/catalog/internal/storage"
)

// Object describes an upload recorded by Storage.
type Object struct {
	PublicID  string
	LocalPath string
	Size      int64
	URL       string
}

// Storage implements storage.Uploader in memory. It records metadata only
// and is meant for tests and dry runs.
type Storage struct {
	mu      sync.RWMutex
	objects []Object
	baseURL string
}

// New creates an in-memory store whose URLs are rooted at baseURL.
func New(baseURL string) *Storage {
	return &Storage{baseURL: strings.TrimRight(baseURL, "/")}
}

// Upload checks that localPath is a readable regular file and records it
// under a generated public id inside folder.
func (s *Storage) Upload(_ context.Context, localPath, folder string) (*storage.UploadResult, error) {
	info, err := os.Stat(localPath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", localPath, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("upload %s: not a regular file", localPath)
	}

	publicID := storage.JoinFolder(folder, uuid.NewString())
	url := fmt.Sprintf("%s/%s%s", s.baseURL, publicID, filepath.Ext(localPath))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = append(s.objects, Object{
		PublicID:  publicID,
		LocalPath: localPath,
		Size:      info.Size(),
		URL:       url,
	})

	return &storage.UploadResult{SecureURL: url, PublicID: publicID}, nil
}

// Objects returns the recorded uploads in order.
func (s *Storage) Objects() []Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Object, len(s.objects))
	copy(out, s.objects)
	return out
}
