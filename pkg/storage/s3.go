package storage

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/charmbracelet/log"

	"github.com/usawrapco/wrapdoc/pkg/config"
	"github.com/usawrapco/wrapdoc/pkg/errors"
)

// s3API is the part of the S3 client the store uses.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store writes documents to an S3 bucket or any S3-compatible store.
// Credentials come from the default AWS chain (environment, shared
// config, instance role).
type S3Store struct {
	client s3API
	bucket string
	prefix string
	logger *log.Logger
}

// NewS3Store creates a store for cfg.Bucket. A custom cfg.Endpoint
// switches to path-style addressing for MinIO and similar servers.
func NewS3Store(ctx context.Context, cfg config.S3Config, logger *log.Logger) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "storage.s3.bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load AWS config")
	}

	endpoint := cfg.Endpoint
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Store(client, cfg.Bucket, cfg.Prefix, logger), nil
}

func newS3Store(client s3API, bucket, prefix string, logger *log.Logger) *S3Store {
	if logger == nil {
		logger = log.Default()
	}
	return &S3Store{client: client, bucket: bucket, prefix: prefix, logger: logger}
}

func (s *S3Store) objectKey(key string) string { return s.prefix + key }

// Put uploads data and returns its s3:// location.
func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := errors.ValidateObjectKey(key); err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = ContentType(key)
	}
	obj := s.objectKey(key)

	start := time.Now()
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(obj),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "upload s3://%s/%s", s.bucket, obj)
	}
	s.logger.Debug("uploaded", "bucket", s.bucket, "key", obj, "bytes", len(data), "elapsed", time.Since(start).Round(time.Millisecond))
	return fmt.Sprintf("s3://%s/%s", s.bucket, obj), nil
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	obj := s.objectKey(key)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(obj),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if stderrors.As(err, &noKey) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "s3://%s/%s not found", s.bucket, obj)
		}
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "download s3://%s/%s", s.bucket, obj)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "download s3://%s/%s", s.bucket, obj)
	}
	return data, nil
}

var _ Store = (*S3Store)(nil)
