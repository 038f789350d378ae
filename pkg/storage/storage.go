// Package storage writes finished documents to their destination.
//
// A destination is either a local path or an s3://bucket/key URL. [Open]
// picks the matching [Store]; both backends accept the same keys.
package storage

import (
	"context"
	"path"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/usawrapco/wrapdoc/pkg/config"
	"github.com/usawrapco/wrapdoc/pkg/errors"
)

// Store saves and loads document bytes by key.
type Store interface {
	// Put stores data under key and returns where it was written.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Get loads the data stored under key. A missing key is FILE_NOT_FOUND.
	Get(ctx context.Context, key string) ([]byte, error)
}

const s3Scheme = "s3://"

// IsS3 reports whether dest is an s3:// URL.
func IsS3(dest string) bool { return strings.HasPrefix(dest, s3Scheme) }

// ParseS3URL splits s3://bucket/key into its bucket and key.
func ParseS3URL(dest string) (bucket, key string, err error) {
	if !IsS3(dest) {
		return "", "", errors.New(errors.ErrCodeInvalidPath, "%q is not an s3:// URL", dest)
	}
	bucket, key, _ = strings.Cut(strings.TrimPrefix(dest, s3Scheme), "/")
	if bucket == "" {
		return "", "", errors.New(errors.ErrCodeInvalidPath, "%q has no bucket", dest)
	}
	if key == "" || strings.HasSuffix(key, "/") {
		return "", "", errors.New(errors.ErrCodeInvalidPath, "%q has no object key", dest)
	}
	if err := errors.ValidateObjectKey(key); err != nil {
		return "", "", err
	}
	return bucket, key, nil
}

// Open returns the store for dest and the key to write under. Local paths
// are written as given; s3:// URLs go to the named bucket with cfg's
// region and endpoint.
func Open(ctx context.Context, dest string, cfg config.S3Config, logger *log.Logger) (Store, string, error) {
	if !IsS3(dest) {
		return NewFileStore(""), dest, nil
	}
	bucket, key, err := ParseS3URL(dest)
	if err != nil {
		return nil, "", err
	}
	cfg.Bucket = bucket
	cfg.Prefix = ""
	s, err := NewS3Store(ctx, cfg, logger)
	if err != nil {
		return nil, "", err
	}
	return s, key, nil
}

// ContentType guesses the content type of a document key.
func ContentType(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".pdf":
		return "application/pdf"
	case ".json":
		return "application/json"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
