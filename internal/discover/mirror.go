package discover

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/13rac1/tarmac/internal/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// hashLen is the number of hash characters embedded in mirror keys.
const hashLen = 12

// Mirrored lists images stored under prefix in bucket.
// Keys that do not follow the <name>-<hash><ext> layout, such as the
// manifest object, are ignored. Uses pagination to handle large buckets.
func Mirrored(ctx context.Context, client s3.ListObjectsV2APIClient, bucket, prefix string) ([]types.MirroredImage, error) {
	// Ensure prefix ends with / for consistent prefix matching
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix = prefix + "/"
	}

	var images []types.MirroredImage

	paginator := s3.NewListObjectsV2Paginator(client, &s3.ListObjectsV2Input{
		Bucket: &bucket,
		Prefix: &prefix,
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}

		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			name, hash, ok := parseMirrorKey(*obj.Key, prefix)
			if !ok {
				continue
			}

			img := types.MirroredImage{Name: name, Hash: hash, Key: *obj.Key}
			if obj.Size != nil {
				img.Size = *obj.Size
			}
			if obj.LastModified != nil {
				img.LastModified = *obj.LastModified
			}
			images = append(images, img)
		}
	}

	// Sort by name for deterministic output
	sort.Slice(images, func(i, j int) bool {
		if images[i].Name != images[j].Name {
			return images[i].Name < images[j].Name
		}
		return images[i].Key < images[j].Key
	})

	return images, nil
}

// parseMirrorKey splits a mirror key into asset name and hash prefix.
// Given prefix="tarmac/" and key="tarmac/ui/button-0123456789ab.png",
// returns "ui/button" and "0123456789ab".
func parseMirrorKey(key, prefix string) (name, hash string, ok bool) {
	rest, found := strings.CutPrefix(key, prefix)
	if !found || rest == "" || strings.HasSuffix(rest, "/") {
		return "", "", false
	}

	rest = strings.TrimSuffix(rest, path.Ext(rest))

	i := strings.LastIndex(rest, "-")
	if i <= 0 {
		return "", "", false
	}

	name, hash = rest[:i], rest[i+1:]
	if len(hash) != hashLen || !isHex(hash) {
		return "", "", false
	}

	return name, hash, true
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f':
		default:
			return false
		}
	}
	return true
}
