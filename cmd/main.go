package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hakimbdev/NutriSnap/config"
	"github.com/hakimbdev/NutriSnap/controllers"
	"github.com/hakimbdev/NutriSnap/metrics"
	"github.com/hakimbdev/NutriSnap/nutrition"
	"github.com/hakimbdev/NutriSnap/routes"
	"github.com/hakimbdev/NutriSnap/services"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := config.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !cfg.IsLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.OpenDB(cfg.Database, logger)
	if err != nil {
		return err
	}

	table, err := nutrition.LoadTableFile(cfg.Analysis.TablePath)
	if err != nil {
		return err
	}
	logger.Info("reference table loaded", zap.Int("foods", table.Len()), zap.String("path", cfg.Analysis.TablePath))

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return err
	}
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) { o.Region = cfg.AWS.S3RegionOrDefault() })

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	analysisMetrics, err := metrics.NewAnalysisMetrics(reg)
	if err != nil {
		return err
	}

	hub := services.NewRealtimeHub(logger)
	push := services.NewPushService(db, sns.NewFromConfig(awsCfg), cfg.AWS.SNSFCMArn, logger)
	alerts := services.NewAlertBus(db, hub, push, logger)
	profiles := services.NewProfileService(db, cfg.Analysis.TargetsCacheTTL, logger)

	var images services.ImageStore
	if cfg.AWS.S3Bucket != "" {
		images = services.NewS3ImageStore(s3Client, cfg.AWS.S3Bucket, cfg.AWS.CloudFrontURL, logger)
	} else {
		logger.Warn("S3_BUCKET not set; meal photos are not stored")
	}

	recognizer := services.NewRekognitionService(rekognition.NewFromConfig(awsCfg),
		cfg.Analysis.MaxLabels, cfg.Analysis.MinConfidence, logger)

	analyses := services.NewAnalysisService(services.AnalysisDeps{
		DB:                db,
		Analyzer:          nutrition.NewAnalyzer(table),
		Recognizer:        recognizer,
		Images:            images,
		Targets:           profiles,
		Alerts:            alerts,
		Realtime:          hub,
		Metrics:           analysisMetrics,
		LowScoreThreshold: cfg.Analysis.LowScoreThreshold,
	}, logger)
	mailer := services.NewSESMailer(ses.NewFromConfig(awsCfg), cfg.AWS.SESEmail, logger)
	trends := services.NewTrendService(analyses, profiles, mailer, cfg.Analysis.TrendWindowDays, logger)

	router := routes.SetupRouter(routes.Handlers{
		Analyses: controllers.NewAnalysisController(analyses),
		Profiles: controllers.NewProfileController(profiles),
		Trends:   controllers.NewTrendController(trends),
		Alerts:   controllers.NewAlertController(alerts),
		Devices:  controllers.NewDeviceController(push),
		Realtime: controllers.NewRealtimeController(hub),
		Foods:    controllers.NewFoodController(table),
	}, reg, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
