// Package dto はsignanalysisフィーチャーのHTTPレスポンスを定義します。
package dto

import "sign_backend/internal/feature/signanalysis/domain/entity"

// AnalysisResponse は POST /analyze-sign/ の成功レスポンスです。
type AnalysisResponse struct {
	ImageSource  string `json:"image_source"`
	DetectedText string `json:"detected_text"`
	LocationInfo string `json:"location_info"`
}

// ErrorResponse は全てのエラーレスポンスの形式です。
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewAnalysisResponse は解析結果をレスポンスに変換します。
func NewAnalysisResponse(r *entity.AnalysisResult) AnalysisResponse {
	return AnalysisResponse{
		ImageSource:  r.ImageSource,
		DetectedText: r.DetectedText.String(),
		LocationInfo: r.LocationInfo,
	}
}
