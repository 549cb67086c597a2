package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"research-samples/internal/auth"
	"research-samples/internal/config"
	apphttp "research-samples/internal/http"
	"research-samples/internal/repository"
	"research-samples/internal/repository/objectstore"
	"research-samples/internal/repository/sqlite"
	"research-samples/internal/service"
	"research-samples/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown log level %q, keeping %s", cfg.Log.Level, logger.GetLevel())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}

	sampleRepo, err := buildSampleRepository(ctx, cfg, db, logger)
	if err != nil {
		logger.Fatalf("setup sample store: %v", err)
	}
	if err := sampleRepo.Init(ctx); err != nil {
		logger.Fatalf("init sample repository: %v", err)
	}

	hasher, err := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatalf("setup password hasher: %v", err)
	}
	codec, err := auth.NewTokenCodec([]byte(cfg.Auth.Secret), cfg.Auth.Algorithm)
	if err != nil {
		logger.Fatalf("setup token codec: %v", err)
	}

	userService := service.NewUserService(userRepo, hasher)
	authService := service.NewAuthService(userService, codec, cfg.TokenTTL())
	sampleService := service.NewSampleService(sampleRepo)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(userService, authService, sampleService, logger)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func buildSampleRepository(ctx context.Context, cfg config.Config, db *sql.DB, logger *logrus.Logger) (repository.SampleRepository, error) {
	switch cfg.Samples.Backend {
	case config.BackendS3:
		store, err := buildStorage(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return objectstore.NewSampleRepository(store, cfg.Samples.Bucket, cfg.Samples.KeyPrefix), nil
	case config.BackendMemory:
		logger.Warn("samples are kept in memory and lost on restart")
		return objectstore.NewSampleRepository(storage.NewMemoryService(), "samples", cfg.Samples.KeyPrefix), nil
	default:
		logger.Infof("storing samples in %s", cfg.Database.Path)
		return sqlite.NewSampleRepository(db), nil
	}
}

func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Samples.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Samples.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Samples.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Samples.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Samples.Bucket, cfg.Samples.Region)
	return storage.NewS3Service(client), nil
}
