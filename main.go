package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"civiceye-be/config"
	"civiceye-be/controllers"
	"civiceye-be/middlewares"
	"civiceye-be/routes"
	"civiceye-be/services"
	"civiceye-be/store"
	"civiceye-be/uploads"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}

	setupLogging(cfg)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.ConnectDB(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		slog.Error("failed to connect to MongoDB", "err", err)
		os.Exit(1)
	}
	slog.Info("MongoDB connection established", "database", cfg.MongoDatabase)

	issueStore := store.NewMongoIssueStore(db)
	officerStore := store.NewMongoOfficerStore(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := issueStore.EnsureIndexes(ctx); err != nil {
		slog.Warn("failed to create issue indexes", "err", err)
	}
	if err := officerStore.EnsureIndexes(ctx); err != nil {
		slog.Warn("failed to create officer indexes", "err", err)
	}
	created, err := services.EnsureBootstrapOfficer(ctx, officerStore,
		cfg.BootstrapOfficerName, cfg.BootstrapOfficerEmail, cfg.BootstrapOfficerPassword)
	cancel()
	if err != nil {
		slog.Error("failed to bootstrap officer account", "err", err)
		os.Exit(1)
	}
	if created {
		slog.Info("bootstrap officer account created", "email", cfg.BootstrapOfficerEmail)
	}

	uploader, err := uploads.NewDiskUploader(cfg.UploadDir, cfg.MaxUploadBytes)
	if err != nil {
		slog.Error("failed to prepare upload directory", "dir", cfg.UploadDir, "err", err)
		os.Exit(1)
	}

	var limiter gin.HandlerFunc
	if cfg.RedisAddress != "" {
		redisClient, err := config.ConnectRedis(cfg.RedisAddress, cfg.RedisPassword)
		if err != nil {
			slog.Error("failed to connect to Redis", "err", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		slog.Info("connected to Redis", "addr", cfg.RedisAddress)
		limiter = middlewares.IssueRateLimiter(redisClient, cfg.IssueLimitQueue, cfg.IssueDailyLimit)
	} else {
		slog.Warn("REDIS_ADDRESS not set, issue creation is not rate limited")
	}

	issueService := services.NewIssueService(issueStore, uploader, cfg.MaxImages)

	r := routes.NewRouter(routes.Options{
		Issues:             controllers.NewIssueController(issueService),
		Auth:               controllers.NewAuthController(officerStore, cfg.JWTSecret, cfg.TokenTTL, cfg.IsProduction(), cfg.Domain),
		JWTSecret:          cfg.JWTSecret,
		RateLimiter:        limiter,
		UploadDir:          uploader.Dir(),
		CORSOrigins:        cfg.CORSOrigins,
		MaxMultipartMemory: cfg.MaxUploadBytes,
		MaxCreateBytes:     cfg.MaxCreateBodyBytes(),
	})

	slog.Info("server starting", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		slog.Error("failed to start server", "err", err)
		os.Exit(1)
	}
}

func setupLogging(cfg *config.Config) {
	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))
}
