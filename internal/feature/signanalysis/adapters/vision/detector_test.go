package vision_test

import (
	"context"
	"errors"
	"testing"

	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/status"

	"sign_backend/internal/feature/signanalysis/adapters/vision"
	"sign_backend/internal/feature/signanalysis/domain/entity"
)

// mockImageAnnotator はImageAnnotatorインターフェースのモック実装です。
type mockImageAnnotator struct {
	BatchAnnotateImagesFunc  func(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest) (*visionpb.BatchAnnotateImagesResponse, error)
	BatchAnnotateImagesCalls int
}

func (m *mockImageAnnotator) BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, _ ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error) {
	m.BatchAnnotateImagesCalls++
	return m.BatchAnnotateImagesFunc(ctx, req)
}

// mockObjectReader はObjectReaderインターフェースのモック実装です。
type mockObjectReader struct {
	GetFunc func(ctx context.Context, ref entity.StoredImageRef) ([]byte, error)
}

func (m *mockObjectReader) Get(ctx context.Context, ref entity.StoredImageRef) ([]byte, error) {
	return m.GetFunc(ctx, ref)
}

var testRef = entity.StoredImageRef{Store: "s3", Bucket: "signs", Key: "uploads/abc_sign.jpg"}

func okReader() *mockObjectReader {
	return &mockObjectReader{
		GetFunc: func(ctx context.Context, ref entity.StoredImageRef) ([]byte, error) {
			return []byte("fake-image"), nil
		},
	}
}

func TestVisionTextDetector_DetectText(t *testing.T) {
	tests := []struct {
		name     string
		resp     *visionpb.BatchAnnotateImagesResponse
		expected entity.DetectedText
	}{
		{
			name: "success: full text lines joined",
			resp: &visionpb.BatchAnnotateImagesResponse{
				Responses: []*visionpb.AnnotateImageResponse{
					{
						TextAnnotations: []*visionpb.EntityAnnotation{
							{Description: "MAIN ST\nSPRINGFIELD\n"},
							{Description: "MAIN"},
							{Description: "ST"},
							{Description: "SPRINGFIELD"},
						},
					},
				},
			},
			expected: "MAIN ST SPRINGFIELD",
		},
		{
			name: "success: no annotations",
			resp: &visionpb.BatchAnnotateImagesResponse{
				Responses: []*visionpb.AnnotateImageResponse{{}},
			},
			expected: entity.NoTextDetected,
		},
		{
			name:     "success: empty response list",
			resp:     &visionpb.BatchAnnotateImagesResponse{},
			expected: entity.NoTextDetected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &mockImageAnnotator{
				BatchAnnotateImagesFunc: func(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest) (*visionpb.BatchAnnotateImagesResponse, error) {
					require.Len(t, req.Requests, 1)
					assert.Equal(t, []byte("fake-image"), req.Requests[0].Image.Content)
					assert.Equal(t, visionpb.Feature_TEXT_DETECTION, req.Requests[0].Features[0].Type)
					return tt.resp, nil
				},
			}

			got, err := vision.NewVisionTextDetector(api, okReader()).DetectText(context.Background(), testRef)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestVisionTextDetector_DetectText_Errors(t *testing.T) {
	t.Run("error: object read fails", func(t *testing.T) {
		api := &mockImageAnnotator{}
		reader := &mockObjectReader{
			GetFunc: func(ctx context.Context, ref entity.StoredImageRef) ([]byte, error) {
				return nil, errors.New("no such key")
			},
		}

		_, err := vision.NewVisionTextDetector(api, reader).DetectText(context.Background(), testRef)

		require.Error(t, err)
		assert.Equal(t, 0, api.BatchAnnotateImagesCalls)
	})

	t.Run("error: api request fails", func(t *testing.T) {
		api := &mockImageAnnotator{
			BatchAnnotateImagesFunc: func(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest) (*visionpb.BatchAnnotateImagesResponse, error) {
				return nil, errors.New("unavailable")
			},
		}

		_, err := vision.NewVisionTextDetector(api, okReader()).DetectText(context.Background(), testRef)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "vision API request failed")
	})

	t.Run("error: per-image error", func(t *testing.T) {
		api := &mockImageAnnotator{
			BatchAnnotateImagesFunc: func(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest) (*visionpb.BatchAnnotateImagesResponse, error) {
				return &visionpb.BatchAnnotateImagesResponse{
					Responses: []*visionpb.AnnotateImageResponse{
						{Error: &status.Status{Message: "bad image data"}},
					},
				}, nil
			},
		}

		_, err := vision.NewVisionTextDetector(api, okReader()).DetectText(context.Background(), testRef)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad image data")
	})
}
