package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"coparent-api/internal/config"
	"coparent-api/internal/infrastructure/metrics"
)

const s3KeyPrefix = "uploads/"

// S3Storage writes uploads to an S3-compatible bucket.
type S3Storage struct {
	bucket    string
	publicURL string
	client    *s3.Client
	log       zerolog.Logger
}

func NewS3Storage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*S3Storage, error) {
	logger := log.With().Str("component", "s3-storage").Logger()

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.UploadS3Region),
	}
	if cfg.UploadS3AccessKeyID != "" && cfg.UploadS3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.UploadS3AccessKeyID, cfg.UploadS3SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := strings.TrimSpace(cfg.UploadS3Endpoint)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UploadS3UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	storage := &S3Storage{
		bucket:    strings.TrimSpace(cfg.UploadS3Bucket),
		publicURL: publicBaseURL(cfg, endpoint),
		client:    client,
		log:       logger,
	}

	logger.Info().
		Str("bucket", storage.bucket).
		Str("public_url", storage.publicURL).
		Msg("s3 storage initialized")

	return storage, nil
}

// publicBaseURL is where stored objects can be fetched, without a trailing slash.
func publicBaseURL(cfg *config.Config, endpoint string) string {
	if u := strings.TrimSpace(cfg.UploadS3PublicURL); u != "" {
		return strings.TrimSuffix(u, "/")
	}
	bucket := strings.TrimSpace(cfg.UploadS3Bucket)
	if endpoint != "" {
		return strings.TrimSuffix(endpoint, "/") + "/" + bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, cfg.UploadS3Region)
}

func (s *S3Storage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (url string, err error) {
	defer func() { metrics.RecordStorageOperation(BackendS3, "put", err) }()

	objectKey := s3KeyPrefix + key
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	s.log.Debug().
		Str("key", objectKey).
		Int64("bytes", size).
		Msg("object stored")

	return s.publicURL + "/" + objectKey, nil
}

// Health performs a HeadBucket request.
func (s *S3Storage) Health(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}
