package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type Storage interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) error
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// S3Storage keeps reports in a bucket. A non-empty endpoint targets an S3
// compatible service such as LocalStack or MinIO.
type S3Storage struct {
	client *s3.Client
	bucket string
	region string
}

func NewS3Storage(ctx context.Context, bucket, region, endpoint string) (*S3Storage, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket cannot be empty")
	}
	if region == "" {
		return nil, fmt.Errorf("region cannot be empty")
	}

	if endpoint != "" {
		cfg, err := config.LoadDefaultConfig(ctx,
			config.WithRegion(region),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client := s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
		return &S3Storage{client: client, bucket: bucket, region: region}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3Storage{client: s3.NewFromConfig(cfg), bucket: bucket, region: region}, nil
}

func (s *S3Storage) Upload(ctx context.Context, key string, body []byte, contentType string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload report to S3: %w", err)
	}
	return nil
}

func (s *S3Storage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key cannot be empty")
	}
	if expiry <= 0 {
		return "", fmt.Errorf("expiry must be greater than 0")
	}

	presigned, err := s3.NewPresignClient(s.client).PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return presigned.URL, nil
}

// ObjectKey names a report: reports/{userID}/{unix}-{short id}.xlsx
func ObjectKey(userID string, at time.Time) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("userID cannot be empty")
	}
	return fmt.Sprintf("reports/%s/%d-%s.xlsx", userID, at.UTC().Unix(), uuid.New().String()[:8]), nil
}
