package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/recovera-ai/platform/pkg/common/config"
	"github.com/recovera-ai/platform/pkg/common/database"
	"github.com/recovera-ai/platform/pkg/common/logger"
	"github.com/recovera-ai/platform/pkg/serving"
)

func main() {
	logger.Init()
	cfg := config.Load()

	service, err := serving.NewService(cfg.ArtifactBaseDir)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load model artifacts")
	}

	db, err := database.ConnectPostgres(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to connect to database")
	}
	defer database.ClosePostgres(db)

	repo := serving.NewRepository(db, service.RunID())
	if err := repo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to migrate prediction log tables")
	}

	redisClient := database.ConnectRedis(cfg)
	defer database.CloseRedis(redisClient)
	cache := serving.NewScoreCache(redisClient, cfg.ScoreCacheTTL)

	handler := serving.NewHTTPHandler(service, cache, repo, cfg.MaxRequestBody)

	router := mux.NewRouter()
	router.Use(serving.Logging, serving.Recovery)
	handler.Register(router)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host":   cfg.ServerHost,
			"port":   cfg.ServerPort,
			"run_id": service.RunID(),
		}).Info("Serving Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Serving Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("Serving Service stopped")
}
