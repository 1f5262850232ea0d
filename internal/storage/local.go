package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// FilesRoute is where the HTTP layer serves LocalStore objects.
const FilesRoute = "/api/files"

var ErrInvalidToken = errors.New("invalid or expired file token")

// LocalStore keeps objects on the local filesystem and hands out HS256-signed,
// path-bound URLs served under FilesRoute.
type LocalStore struct {
	basePath string
	baseURL  string
	secret   []byte
	ttl      time.Duration
}

func NewLocalStore(basePath, baseURL, secret string, ttl time.Duration) (*LocalStore, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required to sign local storage urls")
	}
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStore{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
		secret:   []byte(secret),
		ttl:      ttl,
	}, nil
}

// resolve maps an object path to a file under basePath, rejecting anything that escapes it.
func (s *LocalStore) resolve(objectPath string) (string, error) {
	clean := path.Clean("/" + objectPath)
	if clean == "/" {
		return "", errors.Errorf("invalid object path %q", objectPath)
	}
	return filepath.Join(s.basePath, filepath.FromSlash(clean)), nil
}

func (s *LocalStore) Upload(ctx context.Context, r io.Reader, objectPath, _ string) (*Object, error) {
	filePath, err := s.resolve(objectPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create object directory")
	}
	dst, err := os.Create(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create object file")
	}
	if _, err := io.Copy(dst, r); err != nil {
		_ = dst.Close()
		_ = os.Remove(filePath)
		return nil, errors.Wrapf(err, "could not upload %s", objectPath)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(filePath)
		return nil, errors.Wrapf(err, "could not finish writing %s", objectPath)
	}
	signed, err := s.SignedURL(ctx, objectPath)
	if err != nil {
		return nil, err
	}
	return &Object{Path: objectPath, URL: signed}, nil
}

func (s *LocalStore) SignedURL(_ context.Context, objectPath string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   objectPath,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrapf(err, "could not sign url for %s", objectPath)
	}
	// escaped so the server decodes the request path back to objectPath
	escaped := (&url.URL{Path: strings.TrimLeft(objectPath, "/")}).EscapedPath()
	return fmt.Sprintf("%s%s/%s?token=%s", s.baseURL, FilesRoute, escaped, url.QueryEscape(token)), nil
}

// Verify checks that token was issued by SignedURL for objectPath and has not expired.
func (s *LocalStore) Verify(objectPath, token string) error {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || strings.TrimLeft(claims.Subject, "/") != strings.TrimLeft(objectPath, "/") {
		return ErrInvalidToken
	}
	return nil
}

// FilePath returns the on-disk location of an object, for serving it.
func (s *LocalStore) FilePath(objectPath string) (string, error) {
	return s.resolve(objectPath)
}

func (s *LocalStore) List(_ context.Context, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	err := filepath.WalkDir(s.basePath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.basePath, p)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if !strings.HasPrefix(name, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		objects = append(objects, ObjectInfo{
			Path:        name,
			Size:        info.Size(),
			ContentType: mime.TypeByExtension(filepath.Ext(name)),
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not list %s", prefix)
	}
	return objects, nil
}

func (s *LocalStore) Open(_ context.Context, objectPath string) (io.ReadCloser, error) {
	filePath, err := s.resolve(objectPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open %s", objectPath)
	}
	return f, nil
}

func (s *LocalStore) Delete(_ context.Context, objectPath string) error {
	filePath, err := s.resolve(objectPath)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "could not delete %s", objectPath)
	}
	return nil
}
