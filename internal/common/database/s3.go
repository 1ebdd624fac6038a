// internal/common/database/s3.go
package database

import (
	"context"
	"fmt"

	"loan-risk-sim/internal/common/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Client wraps a minio client pointed at the bucket holding applicant files.
type S3Client struct {
	Client *minio.Client
	Bucket string
}

func NewS3(cfg config.S3Config) (*S3Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is empty")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}
	return &S3Client{Client: client, Bucket: cfg.Bucket}, nil
}

// Ping checks that the configured bucket is reachable.
func (c *S3Client) Ping(ctx context.Context) error {
	if c.Bucket == "" {
		return nil
	}
	exists, err := c.Client.BucketExists(ctx, c.Bucket)
	if err != nil {
		return fmt.Errorf("s3 bucket check failed: %w", err)
	}
	if !exists {
		return fmt.Errorf("s3 bucket %q does not exist", c.Bucket)
	}
	return nil
}
