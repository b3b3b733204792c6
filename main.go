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

	"github.com/gin-gonic/gin"

	"petshop/internal/auth"
	"petshop/internal/config"
	"petshop/internal/database"
	"petshop/internal/logger"
	"petshop/internal/metrics"
	"petshop/internal/router"
	"petshop/internal/storage"
	"petshop/internal/store"
	"petshop/internal/telemetry"
)

func main() {
	config.Load()
	cfg := config.AppEnv
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	appLogger, err := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal(err)
	}
	slog.SetDefault(appLogger)
	gin.SetMode(cfg.GinMode)

	shutdownTracing, err := telemetry.Setup(cfg.ServiceName, cfg.TracingEnabled, os.Stdout)
	if err != nil {
		log.Fatal(err)
	}

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}
	db := client.Database(cfg.DBName)
	slog.Info("mongo connected", "database", db.Name())

	if err := database.EnsureIndexes(db); err != nil {
		slog.Warn("index warning", "error", err.Error())
	}

	images, err := storage.Open(context.Background(), cfg.UploadBucketURL, cfg.UploadPublicURL)
	if err != nil {
		log.Fatal(err)
	}

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal(err)
	}

	stores := store.New(db)
	engine := router.New(router.Deps{
		Users:          stores.Users,
		Products:       stores.Products,
		Carts:          stores.Carts,
		Orders:         stores.Orders,
		Images:         images,
		Tokens:         tokens,
		Passwords:      auth.NewPasswordHasher(0),
		Metrics:        metrics.New(),
		AllowedOrigins: cfg.AllowedOrigins,
		ServiceName:    cfg.ServiceName,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           telemetry.Handler(engine, cfg.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown", "error", err.Error())
	}
	if err := images.Close(); err != nil {
		slog.Error("close image bucket", "error", err.Error())
	}
	if err := shutdownTracing(ctx); err != nil {
		slog.Error("tracing shutdown", "error", err.Error())
	}
	if err := client.Disconnect(ctx); err != nil {
		slog.Error("mongo disconnect", "error", err.Error())
	}
}
