package utils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectStore reads and writes schema documents in S3.
type ObjectStore struct {
	client *s3.Client
}

// NewObjectStore loads the default AWS credential chain for region.
func NewObjectStore(ctx context.Context, region string) (*ObjectStore, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config, %v", err)
	}

	log.Println("S3 Client Initialized")
	return &ObjectStore{client: s3.NewFromConfig(cfg)}, nil
}

// PutObject uploads body under bucket/key and returns the s3:// URI.
func (o *ObjectStore) PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) (string, error) {
	_, err := o.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", bucket, key), nil
}

// GetObject downloads bucket/key.
func (o *ObjectStore) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := o.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download file from S3: %w", err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}
