// Package media stores player and tournament images and videos in an
// S3-compatible bucket (AWS, Cloudflare R2, MinIO).
package media

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/okian/fcleague/pkg/logger"
)

// Uploader stores objects and returns their public URL.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

// Config locates the bucket.
type Config struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	PublicURL string
}

// ObjectAPI is the part of the S3 client the uploader calls.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Uploader implements Uploader on top of aws-sdk-go-v2.
type S3Uploader struct {
	client    ObjectAPI
	bucket    string
	publicURL string
	log       logger.Logger
}

// New builds an uploader from cfg. A custom endpoint switches to path-style
// addressing, which R2 and MinIO expect.
func New(ctx context.Context, cfg Config) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, ErrDisabled
	}
	if cfg.PublicURL == "" {
		return nil, fmt.Errorf("%w: public url is required", ErrBadConfig)
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	sdkCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3Uploader(client, cfg.Bucket, cfg.PublicURL), nil
}

// NewS3Uploader wraps an existing client.
func NewS3Uploader(client ObjectAPI, bucket, publicURL string) *S3Uploader {
	return &S3Uploader{
		client:    client,
		bucket:    bucket,
		publicURL: publicURL,
		log:       logger.Named("media"),
	}
}

// Upload puts body under key.
func (u *S3Uploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}

	location, err := PublicURL(u.publicURL, key)
	if err != nil {
		return "", err
	}
	u.log.Info(ctx, "media uploaded", logger.String("key", key), logger.String("url", location))
	return location, nil
}

// Delete removes key.
func (u *S3Uploader) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// PublicURL joins base and key with exactly one slash.
func PublicURL(base, key string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: public url: %v", ErrBadConfig, err)
	}
	u.Path = path.Join("/", u.Path, strings.TrimPrefix(key, "/"))
	return u.String(), nil
}

// Disabled rejects every call. It is used when no bucket is configured.
type Disabled struct{}

func (Disabled) Upload(context.Context, string, string, io.Reader) (string, error) {
	return "", ErrDisabled
}

func (Disabled) Delete(context.Context, string) error { return ErrDisabled }
