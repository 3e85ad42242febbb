package uploader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// HeadObjectAPI is the S3 call used to look for an existing mirror copy.
type HeadObjectAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// MirrorClient is the S3 surface the mirror needs.
type MirrorClient interface {
	HeadObjectAPI
	manager.UploadAPIClient
}

// Mirror copies uploaded images into an S3-compatible bucket.
type Mirror struct {
	client   MirrorClient
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// NewMirror creates a mirror writing under prefix in bucket.
func NewMirror(client MirrorClient, bucket, prefix string) *Mirror {
	return &Mirror{
		client: client,
		uploader: manager.NewUploader(client, func(mu *manager.Uploader) {
			mu.Concurrency = 5            // 5 concurrent parts per image
			mu.PartSize = 5 * 1024 * 1024 // 5MB parts
		}),
		bucket: bucket,
		prefix: prefix,
	}
}

// Put stores data under key unless an object of the same size is already
// there. It reports whether an upload happened.
func (m *Mirror) Put(ctx context.Context, key string, data []byte) (bool, error) {
	needed, err := ShouldUpload(ctx, m.client, m.bucket, key, int64(len(data)))
	if err != nil {
		return false, err
	}
	if !needed {
		return false, nil
	}

	_, err = m.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(http.DetectContentType(data)),
	})
	if err != nil {
		return false, fmt.Errorf("s3 upload: %w", err)
	}

	return true, nil
}

// ShouldUpload reports whether key has to be written: the object is missing
// or its stored size differs from localSize. Mirror keys embed the content
// hash, so equal size means equal content.
func ShouldUpload(ctx context.Context, client HeadObjectAPI, bucket, key string, localSize int64) (bool, error) {
	head, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	switch {
	case isNotFound(err):
		return true, nil
	case err != nil:
		return false, fmt.Errorf("checking mirrored object %s: %w", key, err)
	}

	return head.ContentLength == nil || *head.ContentLength != localSize, nil
}

// isNotFound matches the typed S3 errors and the bare 404 codes some
// S3-compatible providers return for HEAD requests.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}

	var nsk *types.NoSuchKey
	var nf *types.NotFound
	if errors.As(err, &nsk) || errors.As(err, &nf) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

// Key returns the object key for an image in this mirror.
func (m *Mirror) Key(name, hash, ext string) string {
	return ComputeMirrorKey(m.prefix, name, hash, ext)
}

// ComputeMirrorKey generates the S3 key for a mirrored image.
// Format: <prefix><name>-<first 12 hash chars><ext>
// The prefix is normalized to have a trailing slash if non-empty.
// Path separators are converted to forward slashes for S3 compatibility.
func ComputeMirrorKey(prefix, name, hash, ext string) string {
	// filepath.ToSlash only converts the OS-specific separator, so
	// backslashes are replaced explicitly.
	prefix = strings.ReplaceAll(prefix, "\\", "/")
	name = strings.ReplaceAll(name, "\\", "/")

	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	if len(hash) > 12 {
		hash = hash[:12]
	}

	return prefix + name + "-" + hash + strings.ToLower(ext)
}
