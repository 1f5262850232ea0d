package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/dlandlab/voicetrack/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type GCSStore struct {
	client      *gcs.Client
	bucket      *gcs.BucketHandle
	signerEmail string
	ttl         time.Duration
}

func NewGCSStore(ctx context.Context, cfg config.Storage) (*GCSStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("GCS_BUCKET is required for the gcs storage driver")
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage client: %w", err)
	}
	log.Info().Str("bucket", cfg.Bucket).Msg("GCS storage initialized")
	return &GCSStore{
		client:      client,
		bucket:      client.Bucket(cfg.Bucket),
		signerEmail: cfg.SignerEmail,
		ttl:         cfg.SignedURLTTL,
	}, nil
}

func (s *GCSStore) Upload(ctx context.Context, r io.Reader, path, contentType string) (*Object, error) {
	w := s.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType
	// Small audio clips, a single request is enough.
	w.ChunkSize = 0
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return nil, errors.Wrapf(err, "could not upload %s", path)
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrapf(err, "could not finalize upload of %s", path)
	}
	url, err := s.SignedURL(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Object{Path: path, URL: url}, nil
}

func (s *GCSStore) SignedURL(_ context.Context, path string) (string, error) {
	opts := &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(s.ttl),
	}
	if s.signerEmail != "" {
		opts.GoogleAccessID = s.signerEmail
	}
	url, err := s.bucket.SignedURL(path, opts)
	if err != nil {
		return "", errors.Wrapf(err, "could not sign url for %s", path)
	}
	return url, nil
}

func (s *GCSStore) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	it := s.bucket.Objects(ctx, &gcs.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "could not list %s", prefix)
		}
		if attrs.Prefix != "" {
			continue
		}
		objects = append(objects, ObjectInfo{Path: attrs.Name, Size: attrs.Size, ContentType: attrs.ContentType})
	}
	return objects, nil
}

func (s *GCSStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	rc, err := s.bucket.Object(path).NewReader(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open %s", path)
	}
	return rc, nil
}

func (s *GCSStore) Delete(ctx context.Context, path string) error {
	err := s.bucket.Object(path).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return errors.Wrapf(err, "could not delete %s", path)
	}
	return nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
