package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"sign_backend/internal/app/di"
	"sign_backend/internal/app/router"
	signhandler "sign_backend/internal/feature/signanalysis/transport/handler"
	"sign_backend/internal/feature/signanalysis/usecase"
	platformaws "sign_backend/internal/platform/aws"
	"sign_backend/internal/platform/config"
	platformhttp "sign_backend/internal/platform/http"
	platformhandler "sign_backend/internal/platform/http/handler"
	"sign_backend/internal/platform/logging"
	infraredis "sign_backend/internal/platform/redis"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	// 必須のストレージ設定が無ければ起動しない
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := platformhttp.NewHTTPClient(cfg.Timeouts.HTTPClient)

	// AWS
	awsCfg, err := platformaws.LoadConfig(ctx, cfg.Storage, httpClient)
	if err != nil {
		log.Fatal(err)
	}

	// Redis（任意）
	var rdb *redisv9.Client
	if cfg.CacheEnabled() {
		if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
			log.Println("[WARN] Redis unavailable. Running without location cache.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					log.Println("[ERROR] Failed to close Redis client:", err)
				}
			}()
		}
	}

	// Adapter
	store := di.NewImageStore(awsCfg, cfg.Storage)
	detector, detectorCloser, err := di.NewTextDetector(ctx, cfg.OCR.Provider, awsCfg, store)
	if err != nil {
		log.Fatalf("failed to create text detector: %v", err)
	}
	defer func() {
		if err := detectorCloser.Close(); err != nil {
			log.Println("[ERROR] Failed to close text detector:", err)
		}
	}()
	inferer, inferenceEnabled := di.NewLocationInferer(ctx, cfg.Inference, httpClient, rdb)

	// Usecase
	signUC := usecase.NewSignAnalysisUsecase(store, detector, inferer, usecase.Config{
		MaxImageSize:      cfg.MaxUploadSize,
		StorageTimeout:    cfg.Timeouts.Storage,
		ExtractionTimeout: cfg.Timeouts.Extraction,
		InferenceTimeout:  cfg.Timeouts.Inference,
	})

	// Handler
	signH := signhandler.NewSignAnalysisHandler(signUC, cfg.MaxUploadSize)
	health := platformhandler.NewHealth(platformhandler.Readiness{
		OCRProvider:      cfg.OCR.Provider,
		InferenceEnabled: inferenceEnabled,
	})

	// ルータ生成
	r := router.NewRouter(signH, health, router.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		MaxUploadSize:  int64(cfg.MaxUploadSize),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "ocr", cfg.OCR.Provider, "bucket", cfg.Storage.Bucket)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
}
