// Package s3 はAmazon S3を使用した画像ストアを提供します。
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"sign_backend/internal/feature/signanalysis/domain/entity"
	"sign_backend/internal/feature/signanalysis/usecase"
)

// StoreName は画像参照URIのスキームです。
const StoreName = "s3"

// ObjectAPI はS3Storeが使用するS3クライアントの操作です。
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store は1つのバケットに画像を書き込みます。
type S3Store struct {
	client ObjectAPI
	bucket string
}

// S3StoreがImageStoreを実装していることをコンパイル時に検証します。
var _ usecase.ImageStore = (*S3Store)(nil)

// NewS3Store は指定されたクライアントとバケットでS3Storeを生成します。
func NewS3Store(client ObjectAPI, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket}
}

// NewClient はaws.ConfigからS3クライアントを生成します。
// endpointが指定された場合はパス形式でそのエンドポイントを使用します（MinIO・localstack向け）。
func NewClient(cfg aws.Config, endpoint string) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
}

// Bucket は書き込み先のバケット名を返します。
func (s *S3Store) Bucket() string {
	return s.bucket
}

// Put は画像を1回だけ書き込みます。リトライは行いません。
func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) (entity.StoredImageRef, error) {
	in := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		if IsCredentialError(err) {
			slog.Error("S3への書き込みが認証情報で拒否されました", "error", err, "bucket", s.bucket, "key", key, "reason", "credentials")
		} else {
			slog.Error("S3への書き込みに失敗", "error", err, "bucket", s.bucket, "key", key)
		}
		return entity.StoredImageRef{}, fmt.Errorf("s3 put object %q: %w", key, err)
	}

	slog.Info("画像をS3に保存しました", "bucket", s.bucket, "key", key, "size", len(data))
	return entity.StoredImageRef{Store: StoreName, Bucket: s.bucket, Key: key}, nil
}

// Get は保存済みオブジェクトを読み出します。
func (s *S3Store) Get(ctx context.Context, ref entity.StoredImageRef) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(ref.Bucket),
		Key:    aws.String(ref.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get object %q: %w", ref.Key, err)
	}
	defer func() {
		if err := out.Body.Close(); err != nil {
			slog.Warn("failed to close object body", "error", err)
		}
	}()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read object %q: %w", ref.Key, err)
	}
	return data, nil
}

// credentialErrorCodes はS3が認証情報を拒否した場合のエラーコードです。
var credentialErrorCodes = map[string]struct{}{
	"InvalidAccessKeyId":    {},
	"SignatureDoesNotMatch": {},
	"AccessDenied":          {},
	"ExpiredToken":          {},
	"InvalidToken":          {},
}

// IsCredentialError は認証情報の拒否によるエラーかどうかを返します。ログの分類にのみ使用します。
func IsCredentialError(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		_, ok := credentialErrorCodes[apiErr.ErrorCode()]
		return ok
	}
	return false
}
