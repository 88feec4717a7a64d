package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/lumapanel/lumapanel/internal/pkg/env"
)

// Config carries the S3 connection settings for product image storage.
type Config struct {
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
	UsePathStyle  bool
	Prefix        string
}

// ConfigFromEnv reads the uploader configuration from the environment.
func ConfigFromEnv() Config {
	return Config{
		Endpoint:      env.GetEnv("S3_ENDPOINT", ""),
		Region:        env.GetEnv("S3_REGION", "us-east-1"),
		AccessKey:     env.GetEnv("S3_ACCESS_KEY", ""),
		SecretKey:     env.GetEnv("S3_SECRET_KEY", ""),
		Bucket:        env.GetEnv("S3_BUCKET", ""),
		PublicBaseURL: env.GetEnv("S3_PUBLIC_BASE_URL", ""),
		UsePathStyle:  env.GetEnv("S3_USE_PATH_STYLE", "false") == "true",
		Prefix:        env.GetEnv("S3_PREFIX", "products"),
	}
}

// Uploader stores product pattern and color images in an S3-compatible
// bucket and hands back their public URLs.
type Uploader struct {
	cfg    Config
	client *s3.Client
}

// NewUploader creates an uploader from explicit configuration.
func NewUploader(cfg Config) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("s3 region is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("s3 credentials are required")
	}
	if cfg.PublicBaseURL == "" {
		return nil, fmt.Errorf("s3 public base url is required")
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "products"
	}

	options := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: cfg.UsePathStyle,
	}
	if cfg.Endpoint != "" {
		options.BaseEndpoint = aws.String(cfg.Endpoint)
	}

	return &Uploader{cfg: cfg, client: s3.New(options)}, nil
}

// Upload stores one image blob and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("no data to upload")
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}

	key := u.generateKey(contentType)
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return u.PublicURL(key), nil
}

// PublicURL joins the configured base URL with an object key.
func (u *Uploader) PublicURL(key string) string {
	return strings.TrimRight(u.cfg.PublicBaseURL, "/") + "/" + key
}

func (u *Uploader) generateKey(contentType string) string {
	ext := ".jpg"
	switch contentType {
	case "image/png":
		ext = ".png"
	case "image/webp":
		ext = ".webp"
	case "image/gif":
		ext = ".gif"
	}
	return path.Join(u.cfg.Prefix, uuid.New().String()+ext)
}
