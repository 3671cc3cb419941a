package archive

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dukerupert/vigie"
)

// Compile-time interface check
var _ vigie.ArchiveStore = (*S3Archive)(nil)

// S3Archive implements vigie.ArchiveStore on AWS S3.
type S3Archive struct {
	client  *s3.Client
	bucket  string
	baseURL string // CloudFront or S3 URL
}

// NewS3Archive creates a new S3 archive instance.
func NewS3Archive(client *s3.Client, bucket, baseURL string) *S3Archive {
	return &S3Archive{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}
}

// Put uploads a blob to S3 under the given key.
func (a *S3Archive) Put(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        reader,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return a.URL(key), nil
}

// Delete removes a blob from S3.
func (a *S3Archive) Delete(ctx context.Context, key string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

// URL returns the URL to access the blob.
func (a *S3Archive) URL(key string) string {
	return fmt.Sprintf("%s/%s", a.baseURL, key)
}

// Exists checks whether a blob exists in the bucket.
func (a *S3Archive) Exists(ctx context.Context, key string) (bool, error) {
	_, err := a.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to head S3 object: %w", err)
	}
	return true, nil
}
