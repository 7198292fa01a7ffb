package dataset

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/bibbank/heartrisk/internal/domain/model"
)

// ObjectGetter is the subset of the S3 client the provider needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Provider reads the training table from an S3 object.
type S3Provider struct {
	client ObjectGetter
	bucket string
	key    string
}

// NewS3Provider creates a provider for s3://bucket/key.
func NewS3Provider(client ObjectGetter, bucket, key string) *S3Provider {
	return &S3Provider{client: client, bucket: bucket, key: key}
}

// NewS3Client builds an S3 client from the default AWS configuration chain.
// Path-style addressing keeps S3-compatible stores such as MinIO working.
func NewS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return s3.New(s3.Options{
		Region:       cfg.Region,
		Credentials:  cfg.Credentials,
		HTTPClient:   cfg.HTTPClient,
		BaseEndpoint: cfg.BaseEndpoint,
		UsePathStyle: true,
	}), nil
}

func (p *S3Provider) location() string {
	return "s3://" + p.bucket + "/" + p.key
}

// FetchTrainingTable downloads and parses the object on every call.
func (p *S3Provider) FetchTrainingTable(ctx context.Context) (*model.TrainingTable, error) {
	resp, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(p.key),
	})
	if err != nil {
		return nil, &model.DataUnavailableError{Source: p.location(), Err: fmt.Errorf("failed to get object from S3: %w", err)}
	}
	defer resp.Body.Close()

	table, err := ParseCSV(resp.Body)
	if err != nil {
		return nil, &model.DataUnavailableError{Source: p.location(), Err: fmt.Errorf("failed to parse dataset: %w", err)}
	}
	return table, nil
}
