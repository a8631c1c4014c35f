package docstore

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore() *Store {
	return New(Config{
		Region:       "us-east-1",
		Bucket:       "notes",
		BaseEndpoint: "http://localhost:9000",
		AccessKey:    "minio",
		SecretKey:    "minio123",
	})
}

func TestNewStorageKey_Unique(t *testing.T) {
	a := NewStorageKey()
	b := NewStorageKey()
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "notes/"))
}

func TestPresignedPutURL(t *testing.T) {
	origPut := presignPutObject
	defer func() { presignPutObject = origPut }()

	var gotBucket, gotKey string
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		gotBucket = aws.ToString(in.Bucket)
		gotKey = aws.ToString(in.Key)
		return &v4.PresignedHTTPRequest{URL: "http://signed/put"}, nil
	}

	key, url, err := testStore().PresignedPutURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http://signed/put", url)
	assert.Equal(t, gotKey, key)
	assert.Equal(t, "notes", gotBucket)
}

func TestPresignedGetURL(t *testing.T) {
	origGet := presignGetObject
	defer func() { presignGetObject = origGet }()

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		assert.Equal(t, "notes/2024/3/15/doc", aws.ToString(in.Key))
		return &v4.PresignedHTTPRequest{URL: "http://signed/get"}, nil
	}

	url, err := testStore().PresignedGetURL(context.Background(), "notes/2024/3/15/doc")
	require.NoError(t, err)
	assert.Equal(t, "http://signed/get", url)
}

func TestPresignedGetURL_Error(t *testing.T) {
	origGet := presignGetObject
	defer func() { presignGetObject = origGet }()

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign failed")
	}

	_, err := testStore().PresignedGetURL(context.Background(), "some/key")
	require.Error(t, err)
}
