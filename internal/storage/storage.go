package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/dlandlab/voicetrack/config"
)

// Object is a stored blob as seen by callers: its durable path and a URL that may expire.
type Object struct {
	Path string
	URL  string
}

type ObjectInfo struct {
	Path        string
	Size        int64
	ContentType string
}

// Store is the storage collaborator. SignedURL results are time-limited; callers
// re-request them instead of caching.
type Store interface {
	Upload(ctx context.Context, r io.Reader, path, contentType string) (*Object, error)
	SignedURL(ctx context.Context, path string) (string, error)
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
}

func NewStore(cfg *config.Config) (Store, error) {
	switch cfg.Storage.Driver {
	case "local":
		return NewLocalStore(cfg.Storage.LocalPath, cfg.Server.PublicBaseURL, cfg.Auth.JWTSecret, cfg.Storage.SignedURLTTL)
	case "gcs", "":
		return NewGCSStore(context.Background(), cfg.Storage)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
