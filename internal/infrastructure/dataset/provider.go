package dataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/bibbank/heartrisk/internal/domain/model"
	"github.com/bibbank/heartrisk/internal/domain/port"
)

const s3Scheme = "s3://"

// ParseS3Location splits s3://bucket/key into its parts.
func ParseS3Location(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("not an s3 location: %q", location)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 location must be s3://bucket/key, got %q", location)
	}
	return bucket, key, nil
}

// Open returns the provider matching location: an S3 object for s3:// URLs,
// a local file otherwise. The S3 client is only built when needed.
func Open(ctx context.Context, location string) (port.DatasetProvider, error) {
	if !strings.HasPrefix(location, s3Scheme) {
		return NewFileProvider(location), nil
	}

	bucket, key, err := ParseS3Location(location)
	if err != nil {
		return nil, err
	}
	client, err := NewS3Client(ctx)
	if err != nil {
		return nil, &model.DataUnavailableError{Source: location, Err: err}
	}
	return NewS3Provider(client, bucket, key), nil
}
