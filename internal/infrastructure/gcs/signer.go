package gcs

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// Signer issues V4 pre-signed URLs against a single bucket. The server never
// touches file bytes; clients upload and download directly against the
// returned URLs.
type Signer struct {
	client      *storage.Client
	bucket      string
	uploadTTL   time.Duration
	downloadTTL time.Duration
}

func NewSigner(client *storage.Client, bucket string, uploadTTL, downloadTTL time.Duration) *Signer {
	return &Signer{
		client:      client,
		bucket:      bucket,
		uploadTTL:   uploadTTL,
		downloadTTL: downloadTTL,
	}
}

// SignUpload returns a short-lived PUT URL bound to contentType, plus the
// object key the client must later reference.
func (s *Signer) SignUpload(fileName, contentType string) (url string, key string, err error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	key = filepath.ToSlash(filepath.Join("posts", uuid.NewString()+ext))

	opts := &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      http.MethodPut,
		ContentType: contentType,
		Expires:     time.Now().Add(s.uploadTTL),
	}
	url, err = s.client.Bucket(s.bucket).SignedURL(key, opts)
	if err != nil {
		return "", "", err
	}
	return url, key, nil
}

// SignDownload returns a read URL for a stored key. The expiry is anchored to
// call time, so repeated calls for the same key yield distinct URLs.
func (s *Signer) SignDownload(key string) (string, error) {
	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(s.downloadTTL),
	}
	return s.client.Bucket(s.bucket).SignedURL(key, opts)
}
