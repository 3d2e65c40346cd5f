package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/legacy-sukawarna/rsvp-app/core/logger"
)

// Storage is the blob store events keep their images in. Upload returns the
// publicly fetchable URL; the domain stores only that string.
type Storage interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) (string, bool)
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
}

type s3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func InitS3(config S3Config) (Storage, error) {
	if config.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is not configured")
	}

	client := s3.New(s3.Options{
		Region: config.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(config.AccessKeyID, config.SecretAccessKey, ""),
		),
	})

	baseURL := config.PublicBaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", config.Bucket, config.Region)
	}
	baseURL = strings.TrimRight(baseURL, "/")

	logger.Info("S3 storage initialized", "bucket", config.Bucket, "region", config.Region)

	return &s3Storage{
		client:  client,
		bucket:  config.Bucket,
		baseURL: baseURL,
	}, nil
}

func (s *s3Storage) Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		logger.Error("Storage:Upload:Error", "error", err, "key", key)
		return "", err
	}

	url := s.baseURL + "/" + key
	logger.Info("Storage:Upload:Success", "key", key, "url", url)
	return url, nil
}

func (s *s3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		logger.Error("Storage:Delete:Error", "error", err, "key", key)
		return err
	}
	return nil
}

// KeyFromURL maps a stored public URL back to its object key. Returns false
// for URLs that do not belong to this bucket.
func (s *s3Storage) KeyFromURL(url string) (string, bool) {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}
