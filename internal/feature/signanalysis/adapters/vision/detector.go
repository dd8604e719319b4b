// Package vision はGoogle Cloud Vision APIを使用したテキスト検出クライアントを提供します。
package vision

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"

	"sign_backend/internal/feature/signanalysis/domain/entity"
	"sign_backend/internal/feature/signanalysis/usecase"
)

// ImageAnnotator はVisionTextDetectorが使用するVision APIクライアントの操作です。
type ImageAnnotator interface {
	BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error)
}

// ObjectReader は保存済み画像を読み出します。
// Vision APIはS3を直接参照できないため、画像バイト列を送信します。
type ObjectReader interface {
	Get(ctx context.Context, ref entity.StoredImageRef) ([]byte, error)
}

// VisionTextDetector はGoogle Cloud Vision APIを使用してテキストを検出します。
type VisionTextDetector struct {
	client ImageAnnotator
	reader ObjectReader
}

// VisionTextDetectorがTextDetectorを実装していることをコンパイル時に検証します。
var _ usecase.TextDetector = (*VisionTextDetector)(nil)

// NewVisionTextDetector はVisionTextDetectorの新しいインスタンスを生成します。
func NewVisionTextDetector(client ImageAnnotator, reader ObjectReader) *VisionTextDetector {
	return &VisionTextDetector{client: client, reader: reader}
}

// NewClient はADCを使用してVision APIクライアントを生成します。
func NewClient(ctx context.Context) (*gvision.ImageAnnotatorClient, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return client, nil
}

// DetectText は保存済み画像を読み出してテキストを検出します。
func (v *VisionTextDetector) DetectText(ctx context.Context, ref entity.StoredImageRef) (entity.DetectedText, error) {
	imageData, err := v.reader.Get(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("read stored image: %w", err)
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: imageData},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_TEXT_DETECTION},
				},
			},
		},
	}

	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return "", fmt.Errorf("vision API request failed: %w", err)
	}

	if len(resp.Responses) == 0 {
		return entity.NoTextDetected, nil
	}

	if resp.Responses[0].Error != nil {
		return "", fmt.Errorf("vision API error: %s", resp.Responses[0].Error.Message)
	}

	annotations := resp.Responses[0].TextAnnotations
	text := entity.NewDetectedText(toDetections(annotations))
	slog.Info("Visionでテキストを検出", "image", ref.URI(), "annotations", len(annotations), "found", text.Found())
	return text, nil
}

// toDetections はVisionの注釈を検出結果に変換します。
// 先頭の注釈は画像全体のテキスト（改行区切り）で、各行をLINEとして扱います。
// 以降の注釈は単語単位のためWORDとして扱います。
func toDetections(annotations []*visionpb.EntityAnnotation) []entity.TextDetection {
	if len(annotations) == 0 {
		return nil
	}
	out := make([]entity.TextDetection, 0, len(annotations))
	for _, line := range strings.Split(annotations[0].GetDescription(), "\n") {
		out = append(out, entity.TextDetection{Text: line, Type: entity.TextTypeLine})
	}
	for _, a := range annotations[1:] {
		out = append(out, entity.TextDetection{Text: a.GetDescription(), Type: entity.TextTypeWord})
	}
	return out
}
