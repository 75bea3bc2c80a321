// Package blob stores generated media in an S3-compatible bucket.
package blob

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/lumenlearn/lumen/internal/config"
	"github.com/lumenlearn/lumen/internal/generation"
)

// putObjectAPI is the subset of *s3.Client the uploader calls.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader implements generation.BlobUploader.
type S3Uploader struct {
	client    putObjectAPI
	bucket    string
	publicURL string
}

var _ generation.BlobUploader = (*S3Uploader)(nil)

// NewS3Uploader builds an S3 client from cfg. A custom endpoint switches the
// client to path-style addressing, which R2 and MinIO expect.
func NewS3Uploader(ctx context.Context, cfg config.StorageConfig) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: storage bucket is required", generation.ErrInvalidConfig)
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Uploader(client, cfg.Bucket, cfg.PublicURL), nil
}

func newS3Uploader(client putObjectAPI, bucket, publicURL string) *S3Uploader {
	return &S3Uploader{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// UploadBlob writes data under filename and returns its public URL.
func (u *S3Uploader) UploadBlob(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	key := strings.TrimLeft(filename, "/")
	if key == "" {
		return "", fmt.Errorf("%w: empty object key", generation.ErrProviderFailure)
	}

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to upload %s: %w", generation.ErrProviderFailure, key, err)
	}

	return u.PublicURL(key), nil
}

// PublicURL returns the URL an uploaded key is served from.
func (u *S3Uploader) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s", u.publicURL, strings.TrimLeft(key, "/"))
}
