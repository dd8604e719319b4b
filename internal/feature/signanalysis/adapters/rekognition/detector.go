// Package rekognition はAmazon Rekognitionを使用したテキスト検出クライアントを提供します。
package rekognition

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"sign_backend/internal/feature/signanalysis/domain/entity"
	"sign_backend/internal/feature/signanalysis/usecase"
)

// DetectTextAPI はRekognitionTextDetectorが使用するRekognitionクライアントの操作です。
type DetectTextAPI interface {
	DetectText(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error)
}

// RekognitionTextDetector はS3上のオブジェクトを直接参照してテキストを検出します。
type RekognitionTextDetector struct {
	client DetectTextAPI
}

// RekognitionTextDetectorがTextDetectorを実装していることをコンパイル時に検証します。
var _ usecase.TextDetector = (*RekognitionTextDetector)(nil)

// NewRekognitionTextDetector はRekognitionTextDetectorの新しいインスタンスを生成します。
func NewRekognitionTextDetector(client DetectTextAPI) *RekognitionTextDetector {
	return &RekognitionTextDetector{client: client}
}

// NewClient はaws.ConfigからRekognitionクライアントを生成します。
func NewClient(cfg aws.Config) *rekognition.Client {
	return rekognition.NewFromConfig(cfg)
}

// DetectText は保存済み画像のテキストを検出し、LINE単位で連結して返します。
func (r *RekognitionTextDetector) DetectText(ctx context.Context, ref entity.StoredImageRef) (entity.DetectedText, error) {
	resp, err := r.client.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &types.Image{
			S3Object: &types.S3Object{
				Bucket: aws.String(ref.Bucket),
				Name:   aws.String(ref.Key),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("rekognition detect text for %s: %w", ref.URI(), err)
	}

	text := entity.NewDetectedText(toDetections(resp.TextDetections))
	slog.Info("Rekognitionでテキストを検出", "image", ref.URI(), "detections", len(resp.TextDetections), "found", text.Found())
	return text, nil
}

func toDetections(in []types.TextDetection) []entity.TextDetection {
	out := make([]entity.TextDetection, 0, len(in))
	for _, d := range in {
		t := entity.TextTypeWord
		if d.Type == types.TextTypesLine {
			t = entity.TextTypeLine
		}
		out = append(out, entity.TextDetection{
			Text: aws.ToString(d.DetectedText),
			Type: t,
		})
	}
	return out
}
