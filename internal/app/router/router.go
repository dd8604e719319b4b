package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	signhandler "sign_backend/internal/feature/signanalysis/transport/handler"
)

// Options はルーター全体の設定です。
type Options struct {
	AllowedOrigins []string
	MaxUploadSize  int64
}

func NewRouter(sign *signhandler.SignAnalysisHandler, health gin.HandlerFunc, opts Options) *gin.Engine {
	r := gin.Default()

	// マルチパートのメモリ上限（超過分は一時ファイル）
	if opts.MaxUploadSize > 0 {
		r.MaxMultipartMemory = opts.MaxUploadSize
	}

	// ブラウザのデモUIから呼び出すためCORSを許可
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	// 導通確認用
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)

	// デモページ
	r.GET("/", signhandler.Index)

	// 標識の解析
	r.POST("/analyze-sign/", sign.AnalyzeSign)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
