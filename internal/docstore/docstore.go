// Package docstore stores note documents (the full PDF or text file behind
// a catalog note) in S3-compatible object storage. Catalog records carry
// only the storage key; readers get a short-lived presigned GET and
// uploaders a presigned PUT, so document bytes never pass through the
// record store.
package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// URLExpiry is the lifetime of issued presigned URLs.
const URLExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Config locates the bucket and its credentials. BaseEndpoint supports
// S3-compatible stores such as MinIO.
type Config struct {
	Region       string
	Bucket       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

// Store issues presigned URLs against one bucket.
type Store struct {
	cfg Config
}

// New returns a document store for the configured bucket.
func New(cfg Config) *Store {
	return &Store{cfg: cfg}
}

// NewStorageKey returns a fresh date-partitioned object key.
func NewStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("notes/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *Store) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.AccessKey,
			s.cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.BaseEndpoint)
		}
	})

	return newS3PresignClient(client), nil
}

// PresignedPutURL issues an upload URL under a fresh storage key and
// returns the key alongside the URL. The key becomes the note's
// DocumentRef once the upload succeeds.
func (s *Store) PresignedPutURL(ctx context.Context) (string, string, error) {
	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", "", err
	}

	bucket := s.cfg.Bucket
	key := NewStorageKey()

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(URLExpiry))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// PresignedGetURL issues a download URL for an existing document key.
func (s *Store) PresignedGetURL(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.cfg.Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(URLExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
