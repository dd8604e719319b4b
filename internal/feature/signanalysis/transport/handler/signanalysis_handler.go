// Package handler はsignanalysisフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"sign_backend/internal/feature/signanalysis/domain"
	"sign_backend/internal/feature/signanalysis/domain/entity"
	"sign_backend/internal/feature/signanalysis/transport/http/dto"
	"sign_backend/internal/feature/signanalysis/usecase"
)

const (
	// ImageField はアップロード画像のマルチパートフィールド名です。
	ImageField = "image"

	msgReadFailed = "Error al leer la imagen"
	msgInternal   = "Error interno del servidor"
)

// SignAnalysisUsecase は標識解析のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type SignAnalysisUsecase interface {
	Analyze(ctx context.Context, req entity.UploadRequest) (*entity.AnalysisResult, error)
}

// SignAnalysisHandler は標識解析のHTTPリクエストを処理します。
type SignAnalysisHandler struct {
	uc           SignAnalysisUsecase
	maxImageSize int64
}

// NewSignAnalysisHandler はSignAnalysisHandlerの新しいインスタンスを生成します。
// maxImageSize を超える画像は最大 maxImageSize+1 バイトだけ読み込み、サイズ超過の判定はユースケースに任せます。
func NewSignAnalysisHandler(uc SignAnalysisUsecase, maxImageSize int) *SignAnalysisHandler {
	if maxImageSize <= 0 {
		maxImageSize = usecase.DefaultMaxImageSize
	}
	return &SignAnalysisHandler{uc: uc, maxImageSize: int64(maxImageSize)}
}

// AnalyzeSign は画像をアップロードしてテキストと位置を返します。
//
// エンドポイント: POST /analyze-sign/
// Content-Type: multipart/form-data
// フィールド: image（画像ファイル）
func (h *SignAnalysisHandler) AnalyzeSign(c *gin.Context) {
	req, ok := h.readUpload(c)
	if !ok {
		return
	}

	result, err := h.uc.Analyze(c.Request.Context(), req)
	if err != nil {
		status, msg := statusFor(err)
		if status >= http.StatusInternalServerError {
			slog.Error("標識の解析に失敗", "error", err, "filename", req.Filename)
		} else {
			slog.Warn("不正な解析リクエスト", "error", err, "remote_addr", c.ClientIP())
		}
		c.JSON(status, dto.ErrorResponse{Error: msg})
		return
	}

	slog.Info("標識の解析が完了", "image_source", result.ImageSource, "text_found", result.DetectedText.Found())
	c.JSON(http.StatusOK, dto.NewAnalysisResponse(result))
}

// readUpload はマルチパートの image フィールドを UploadRequest に変換します。
// 入力検証はユースケースに任せるため、フィールドが無い場合も空のリクエストを返します。
// 読み込みエラー時はレスポンスを書き込み false を返します。
func (h *SignAnalysisHandler) readUpload(c *gin.Context) (entity.UploadRequest, bool) {
	file, err := c.FormFile(ImageField)
	if err != nil {
		// filename="" のパートはファイルではなく値として解析される
		if form := c.Request.MultipartForm; form != nil {
			if values, ok := form.Value[ImageField]; ok && len(values) > 0 {
				return entity.UploadRequest{ImageData: append([]byte{}, values[0]...)}, true
			}
		}
		slog.Warn("画像ファイルの取得に失敗", "error", err, "remote_addr", c.ClientIP())
		return entity.UploadRequest{}, true
	}

	f, err := file.Open()
	if err != nil {
		slog.Error("画像ファイルのオープンに失敗", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: msgReadFailed})
		return entity.UploadRequest{}, false
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("画像ファイルのクローズに失敗", "error", err)
		}
	}()

	// 上限を1バイト超えた時点で読み込みを止める
	imageData, err := io.ReadAll(io.LimitReader(f, h.maxImageSize+1))
	if err != nil {
		slog.Error("画像データの読み取りに失敗", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: msgReadFailed})
		return entity.UploadRequest{}, false
	}
	if file.Size > h.maxImageSize {
		slog.Warn("画像サイズが上限を超えています", "filename", file.Filename, "size", file.Size, "max", h.maxImageSize)
	}

	return entity.UploadRequest{
		ImageData:   imageData,
		Filename:    file.Filename,
		ContentType: mimetype.Detect(imageData).String(),
	}, true
}

// statusFor はパイプラインの失敗種別をHTTPステータスとメッセージに対応付けます。
func statusFor(err error) (int, string) {
	pe, ok := domain.AsPipelineError(err)
	if !ok {
		return http.StatusInternalServerError, msgInternal
	}
	switch pe.Kind {
	case domain.KindInvalidInput:
		return http.StatusBadRequest, pe.Message
	case domain.KindStorageFailure, domain.KindExtractionFailure:
		return http.StatusInternalServerError, pe.Message
	default:
		return http.StatusInternalServerError, msgInternal
	}
}
