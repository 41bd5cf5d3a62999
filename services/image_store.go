package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// ImageStore persists meal photos and returns their public URL.
type ImageStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// S3PutAPI is the subset of the S3 client used here.
type S3PutAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3ImageStore struct {
	client    S3PutAPI
	bucket    string
	publicURL string
	logger    *zap.Logger
}

// NewS3ImageStore uploads into bucket; URLs are publicURL/key (a CloudFront
// distribution in production).
func NewS3ImageStore(client S3PutAPI, bucket, publicURL string, logger *zap.Logger) *S3ImageStore {
	return &S3ImageStore{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		logger:    logger.Named("image-store"),
	}
}

func (s *S3ImageStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	s.logger.Debug("image stored", zap.String("key", key), zap.Int("bytes", len(data)))
	return fmt.Sprintf("%s/%s", s.publicURL, key), nil
}
