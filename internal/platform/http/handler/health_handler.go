// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Readiness は /healthz で報告する外部サービスの構成です。起動時に確定し変更されません。
type Readiness struct {
	OCRProvider      string
	InferenceEnabled bool
}

// NewHealth はサービスヘルスチェック用の /healthz ハンドラーを返します。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
func NewHealth(r Readiness) gin.HandlerFunc {
	inference := "disabled"
	if r.InferenceEnabled {
		inference = "ready"
	}
	body := gin.H{"status": "ok", "ocr": r.OCRProvider, "inference": inference}

	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		switch c.Request.Method {
		case http.MethodHead:
			c.Status(http.StatusOK)
		case http.MethodOptions:
			c.Status(http.StatusNoContent)
		default:
			c.JSON(http.StatusOK, body)
		}
	}
}
