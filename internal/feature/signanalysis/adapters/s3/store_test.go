package s3_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sign_backend/internal/feature/signanalysis/adapters/s3"
	"sign_backend/internal/feature/signanalysis/domain/entity"
)

// mockObjectAPI はObjectAPIインターフェースのモック実装です。
type mockObjectAPI struct {
	PutObjectFunc  func(ctx context.Context, in *awss3.PutObjectInput) (*awss3.PutObjectOutput, error)
	GetObjectFunc  func(ctx context.Context, in *awss3.GetObjectInput) (*awss3.GetObjectOutput, error)
	PutObjectCalls int
}

func (m *mockObjectAPI) PutObject(ctx context.Context, in *awss3.PutObjectInput, _ ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	m.PutObjectCalls++
	return m.PutObjectFunc(ctx, in)
}

func (m *mockObjectAPI) GetObject(ctx context.Context, in *awss3.GetObjectInput, _ ...func(*awss3.Options)) (*awss3.GetObjectOutput, error) {
	return m.GetObjectFunc(ctx, in)
}

func TestS3Store_Put(t *testing.T) {
	var captured *awss3.PutObjectInput
	api := &mockObjectAPI{
		PutObjectFunc: func(ctx context.Context, in *awss3.PutObjectInput) (*awss3.PutObjectOutput, error) {
			captured = in
			return &awss3.PutObjectOutput{}, nil
		},
	}
	store := s3.NewS3Store(api, "signs")

	ref, err := store.Put(context.Background(), "uploads/abc_sign.jpg", []byte("fake-image"), "image/jpeg")

	require.NoError(t, err)
	assert.Equal(t, entity.StoredImageRef{Store: "s3", Bucket: "signs", Key: "uploads/abc_sign.jpg"}, ref)
	require.NotNil(t, captured)
	assert.Equal(t, "signs", aws.ToString(captured.Bucket))
	assert.Equal(t, "uploads/abc_sign.jpg", aws.ToString(captured.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(captured.ContentType))
	assert.Equal(t, int64(10), aws.ToInt64(captured.ContentLength))
	body, _ := io.ReadAll(captured.Body)
	assert.Equal(t, []byte("fake-image"), body)
}

func TestS3Store_Put_NoContentType(t *testing.T) {
	api := &mockObjectAPI{
		PutObjectFunc: func(ctx context.Context, in *awss3.PutObjectInput) (*awss3.PutObjectOutput, error) {
			assert.Nil(t, in.ContentType)
			return &awss3.PutObjectOutput{}, nil
		},
	}

	_, err := s3.NewS3Store(api, "signs").Put(context.Background(), "k", []byte("x"), "")
	require.NoError(t, err)
}

func TestS3Store_Put_Error(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "credentials rejected", err: &smithy.GenericAPIError{Code: "InvalidAccessKeyId", Message: "bad key"}},
		{name: "other failure", err: errors.New("connection reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &mockObjectAPI{
				PutObjectFunc: func(ctx context.Context, in *awss3.PutObjectInput) (*awss3.PutObjectOutput, error) {
					return nil, tt.err
				},
			}

			ref, err := s3.NewS3Store(api, "signs").Put(context.Background(), "k", []byte("x"), "image/png")

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, entity.StoredImageRef{}, ref)
			assert.Equal(t, 1, api.PutObjectCalls, "no retries")
		})
	}
}

func TestS3Store_Get(t *testing.T) {
	api := &mockObjectAPI{
		GetObjectFunc: func(ctx context.Context, in *awss3.GetObjectInput) (*awss3.GetObjectOutput, error) {
			assert.Equal(t, "signs", aws.ToString(in.Bucket))
			assert.Equal(t, "uploads/abc_sign.jpg", aws.ToString(in.Key))
			return &awss3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader([]byte("fake-image")))}, nil
		},
	}

	data, err := s3.NewS3Store(api, "signs").Get(context.Background(), entity.StoredImageRef{Store: "s3", Bucket: "signs", Key: "uploads/abc_sign.jpg"})

	require.NoError(t, err)
	assert.Equal(t, []byte("fake-image"), data)
}

func TestS3Store_Get_Error(t *testing.T) {
	api := &mockObjectAPI{
		GetObjectFunc: func(ctx context.Context, in *awss3.GetObjectInput) (*awss3.GetObjectOutput, error) {
			return nil, errors.New("no such key")
		},
	}

	_, err := s3.NewS3Store(api, "signs").Get(context.Background(), entity.StoredImageRef{Bucket: "signs", Key: "missing"})
	assert.Error(t, err)
}

func TestIsCredentialError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "invalid access key", err: &smithy.GenericAPIError{Code: "InvalidAccessKeyId"}, want: true},
		{name: "signature mismatch", err: &smithy.GenericAPIError{Code: "SignatureDoesNotMatch"}, want: true},
		{name: "wrapped access denied", err: fmt.Errorf("put: %w", &smithy.GenericAPIError{Code: "AccessDenied"}), want: true},
		{name: "no such bucket", err: &smithy.GenericAPIError{Code: "NoSuchBucket"}, want: false},
		{name: "plain error", err: errors.New("timeout"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, s3.IsCredentialError(tt.err))
		})
	}
}
