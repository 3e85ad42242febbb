package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Client defines the minimal S3 client interface needed for manifest operations.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store keeps the manifest as a JSON object in a bucket.
type S3Store struct {
	Client S3Client
	Bucket string
	Key    string
}

// S3Key returns the manifest object key under prefix.
func S3Key(prefix string) string {
	if prefix != "" && prefix[len(prefix)-1] != '/' {
		prefix += "/"
	}
	return prefix + ".tarmac-manifest.json"
}

// Load downloads and parses the manifest.
// Returns an empty manifest if the object doesn't exist (first run).
// Returns an error for other failures (network, permissions, corrupt JSON).
func (s *S3Store) Load(ctx context.Context) (*Manifest, error) {
	output, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		if isNotFound(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("downloading manifest: %w", err)
	}
	defer func() { _ = output.Body.Close() }()

	var m Manifest
	if err := json.NewDecoder(output.Body).Decode(&m); err != nil {
		return nil, fmt.Errorf("parsing manifest JSON: %w", err)
	}

	if err := m.check(); err != nil {
		return nil, err
	}

	return &m, nil
}

// Save uploads the manifest as indented JSON.
func (s *S3Store) Save(ctx context.Context, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}

	_, err = s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(s.Key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("uploading manifest: %w", err)
	}

	return nil
}

// isNotFound reports whether err means the object does not exist.
func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	if errors.As(err, &nsk) || errors.As(err, &nf) {
		return true
	}

	// Some S3-compatible providers only surface the error code.
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}

	return false
}
