package aws

import (
	"bytes"
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewS3Client creates a new S3 client from AWS config. Custom endpoints
// (LocalStack) need path-style addressing.
func NewS3Client(cfg sdkaws.Config) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = UsesCustomEndpoint(cfg)
	})
}

// S3Archiver stores documents in a single bucket under a key prefix.
type S3Archiver struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewS3Archiver(cfg sdkaws.Config, bucket, prefix string) *S3Archiver {
	return &S3Archiver{client: NewS3Client(cfg), bucket: bucket, prefix: prefix}
}

// Put uploads body as key (relative to the archiver prefix) and returns the full object key.
func (a *S3Archiver) Put(ctx context.Context, key, contentType string, body []byte) (string, error) {
	fullKey := key
	if a.prefix != "" {
		fullKey = a.prefix + "/" + key
	}
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      sdkaws.String(a.bucket),
		Key:         sdkaws.String(fullKey),
		Body:        bytes.NewReader(body),
		ContentType: sdkaws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s/%s: %w", a.bucket, fullKey, err)
	}
	return fullKey, nil
}
