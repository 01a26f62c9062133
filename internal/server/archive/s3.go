// Package archive ships immutable transaction-log snapshots to S3-compatible
// object storage for offsite audit retention.
package archive

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	sc "github.com/dmitrijs2005/ledgerkeeper/internal/server/config"
)

// Seams for testing the AWS SDK calls.
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
)

// S3Archiver uploads objects to the bucket configured in the server config.
type S3Archiver struct {
	config *sc.Config
}

func NewS3Archiver(cfg *sc.Config) *S3Archiver {
	return &S3Archiver{config: cfg}
}

func (a *S3Archiver) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(a.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			a.config.S3RootUser,
			a.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(a.config.S3BaseEndpoint)
	}), nil
}

// Put uploads body under key.
func (a *S3Archiver) Put(ctx context.Context, key string, body []byte) error {
	client, err := a.getClient(ctx)
	if err != nil {
		return err
	}

	bucket := a.config.S3Bucket
	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   bytes.NewReader(body),
	})
	return err
}
