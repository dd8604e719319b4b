// Package usecase はsignanalysisフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"sign_backend/internal/feature/signanalysis/domain"
	"sign_backend/internal/feature/signanalysis/domain/entity"
)

const (
	// DefaultMaxImageSize は画像アップロードの既定の最大サイズ（10MB）です。
	DefaultMaxImageSize = 10 * 1024 * 1024
)

// ImageStore は画像をオブジェクトストアに保存するリポジトリインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type ImageStore interface {
	// Put は画像を指定キーで1回だけ書き込み、保存先の参照を返します。
	Put(ctx context.Context, key string, data []byte, contentType string) (entity.StoredImageRef, error)
}

// TextDetector は保存済み画像からテキストを抽出するリポジトリインターフェースです。
type TextDetector interface {
	// DetectText は保存済みオブジェクトを直接参照してテキストを抽出します。
	DetectText(ctx context.Context, ref entity.StoredImageRef) (entity.DetectedText, error)
}

// LocationInferer はテキストから位置の説明を推定するリポジトリインターフェースです。
type LocationInferer interface {
	// InferLocation は短い位置の説明を返します。
	InferLocation(ctx context.Context, text string) (string, error)
}

// Config は各外部呼び出しの上限値を保持します。0以下のタイムアウトは無制限を意味します。
type Config struct {
	MaxImageSize      int
	StorageTimeout    time.Duration
	ExtractionTimeout time.Duration
	InferenceTimeout  time.Duration
}

// signAnalysisUsecase は標識画像の解析パイプラインを提供します。
type signAnalysisUsecase struct {
	store    ImageStore
	detector TextDetector
	inferer  LocationInferer
	cfg      Config
	newKey   func(filename string) string
}

// NewSignAnalysisUsecase はsignAnalysisUsecaseの新しいインスタンスを生成します。
func NewSignAnalysisUsecase(store ImageStore, td TextDetector, li LocationInferer, cfg Config) *signAnalysisUsecase {
	if cfg.MaxImageSize <= 0 {
		cfg.MaxImageSize = DefaultMaxImageSize
	}
	return &signAnalysisUsecase{
		store:    store,
		detector: td,
		inferer:  li,
		cfg:      cfg,
		newKey:   NewObjectKey,
	}
}

// Analyze は画像を保存し、テキストを抽出し、必要であれば位置を推定します。
// 各ステップは前のステップの結果に依存するため順番に実行されます。
// 失敗時は *domain.PipelineError を返します。位置推定の失敗は結果の文字列に埋め込まれます。
func (u *signAnalysisUsecase) Analyze(ctx context.Context, req entity.UploadRequest) (*entity.AnalysisResult, error) {
	if err := u.validate(req); err != nil {
		return nil, err
	}

	key := u.newKey(req.Filename)
	ref, err := u.put(ctx, key, req)
	if err != nil {
		return nil, domain.NewPipelineError(domain.KindStorageFailure, domain.MsgStorageFailure, err)
	}

	text, err := u.detect(ctx, ref)
	if err != nil {
		// 保存済みオブジェクトは調査用に残す
		return nil, domain.NewPipelineError(domain.KindExtractionFailure, domain.MsgExtractionFailure, err)
	}

	location := entity.LocationNotSearched
	if text.Found() {
		location = u.infer(ctx, ref, text)
	} else {
		slog.Info("テキスト未検出のため位置推定をスキップ", "stage", "infer", "key", ref.Key, "bucket", ref.Bucket)
	}

	return &entity.AnalysisResult{
		ImageSource:  ref.URI(),
		DetectedText: text,
		LocationInfo: location,
	}, nil
}

func (u *signAnalysisUsecase) validate(req entity.UploadRequest) error {
	if req.ImageData == nil {
		return domain.NewPipelineError(domain.KindInvalidInput, domain.MsgMissingImage, nil)
	}
	if req.Filename == "" {
		return domain.NewPipelineError(domain.KindInvalidInput, domain.MsgEmptyFilename, nil)
	}
	if len(req.ImageData) == 0 {
		return domain.NewPipelineError(domain.KindInvalidInput, domain.MsgEmptyImage, nil)
	}
	if len(req.ImageData) > u.cfg.MaxImageSize {
		return domain.NewPipelineError(domain.KindInvalidInput, domain.MsgImageTooLarge, nil)
	}
	return nil
}

func (u *signAnalysisUsecase) put(ctx context.Context, key string, req entity.UploadRequest) (entity.StoredImageRef, error) {
	ctx, cancel := withTimeout(ctx, u.cfg.StorageTimeout)
	defer cancel()

	start := time.Now()
	slog.Info("画像の保存を開始", "stage", "persist", "key", key, "size", len(req.ImageData))
	ref, err := u.store.Put(ctx, key, req.ImageData, req.ContentType)
	if err != nil {
		slog.Error("画像の保存に失敗", "stage", "persist", "key", key, "duration", time.Since(start), "error", err)
		return entity.StoredImageRef{}, err
	}
	slog.Info("画像の保存が完了", "stage", "persist", "key", ref.Key, "bucket", ref.Bucket, "duration", time.Since(start))
	return ref, nil
}

func (u *signAnalysisUsecase) detect(ctx context.Context, ref entity.StoredImageRef) (entity.DetectedText, error) {
	ctx, cancel := withTimeout(ctx, u.cfg.ExtractionTimeout)
	defer cancel()

	start := time.Now()
	slog.Info("テキスト抽出を開始", "stage", "extract", "key", ref.Key, "bucket", ref.Bucket)
	text, err := u.detector.DetectText(ctx, ref)
	if err != nil {
		slog.Error("テキスト抽出に失敗", "stage", "extract", "key", ref.Key, "bucket", ref.Bucket, "duration", time.Since(start), "error", err)
		return "", err
	}
	if text == "" {
		text = entity.NoTextDetected
	}
	slog.Info("テキスト抽出が完了", "stage", "extract", "key", ref.Key, "bucket", ref.Bucket, "duration", time.Since(start), "found", text.Found())
	return text, nil
}

// infer は位置推定を呼び出し、失敗時はエラー文字列に変換します。リクエスト自体は失敗させません。
func (u *signAnalysisUsecase) infer(ctx context.Context, ref entity.StoredImageRef, text entity.DetectedText) string {
	ctx, cancel := withTimeout(ctx, u.cfg.InferenceTimeout)
	defer cancel()

	start := time.Now()
	slog.Info("位置推定を開始", "stage", "infer", "key", ref.Key, "bucket", ref.Bucket)
	location, err := u.inferer.InferLocation(ctx, text.String())
	if err == nil {
		slog.Info("位置推定が完了", "stage", "infer", "key", ref.Key, "bucket", ref.Bucket, "duration", time.Since(start))
		return location
	}
	if errors.Is(err, domain.ErrInferenceNotConfigured) {
		slog.Warn("位置推定は未設定", "stage", "infer", "key", ref.Key, "bucket", ref.Bucket, "duration", time.Since(start))
		return domain.MsgInferenceNotConfigured
	}
	slog.Warn("位置推定に失敗", "stage", "infer", "key", ref.Key, "bucket", ref.Bucket, "duration", time.Since(start), "error", err, "text", text.String())
	return domain.MsgInferenceFailed
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
