// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/redis/go-redis/v9"

	"sign_backend/internal/feature/signanalysis/adapters/gemini"
	"sign_backend/internal/feature/signanalysis/adapters/rekognition"
	s3adapter "sign_backend/internal/feature/signanalysis/adapters/s3"
	"sign_backend/internal/feature/signanalysis/adapters/vision"
	"sign_backend/internal/feature/signanalysis/usecase"
	"sign_backend/internal/platform/cache"
	"sign_backend/internal/platform/config"
)

// NewImageStore creates the S3-backed image store for the configured bucket.
func NewImageStore(awsCfg aws.Config, cfg config.StorageConfig) *s3adapter.S3Store {
	return s3adapter.NewS3Store(s3adapter.NewClient(awsCfg, cfg.Endpoint), cfg.Bucket)
}

// NewTextDetector creates the TextDetector for the configured OCR provider.
// The returned closer releases provider clients that hold connections.
func NewTextDetector(ctx context.Context, provider string, awsCfg aws.Config, store *s3adapter.S3Store) (usecase.TextDetector, io.Closer, error) {
	switch provider {
	case config.OCRProviderRekognition:
		return rekognition.NewRekognitionTextDetector(rekognition.NewClient(awsCfg)), nopCloser{}, nil
	case config.OCRProviderVision:
		client, err := vision.NewClient(ctx)
		if err != nil {
			return nil, nil, err
		}
		return vision.NewVisionTextDetector(client, store), client, nil
	default:
		return nil, nil, fmt.Errorf("unknown OCR provider %q", provider)
	}
}

// NewLocationInferer creates the Gemini inferer, wrapped with a Redis cache when rdb is set.
// A missing API key yields an inferer in permanent not-configured mode.
func NewLocationInferer(ctx context.Context, cfg config.InferenceConfig, httpClient *http.Client, rdb *redis.Client) (usecase.LocationInferer, bool) {
	g := gemini.NewGeminiLocationInferer(ctx, cfg.APIKey, cfg.Model, httpClient)
	if rdb == nil || !g.Enabled() {
		return g, g.Enabled()
	}
	return cache.NewCachingLocationInferer(rdb, cfg.CacheTTL, g, "location"), true
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
