// Package main runs the bills backend emulator, a development stand-in for
// the real Billed backend.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/billed-app/billed/internal/config"
	"github.com/billed-app/billed/internal/emulator"
	"github.com/billed-app/billed/pkg/database"
	"github.com/billed-app/billed/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
)

func main() {
	_ = gotenv.Load()

	configPath := "configs/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting bills backend emulator",
		zap.Int("port", cfg.Emulator.Port))

	if err := os.MkdirAll(cfg.Emulator.UploadDir, 0755); err != nil {
		logger.Fatal("Failed to create upload directory", zap.Error(err))
	}

	db, err := database.New(database.Config{
		Path:            cfg.Emulator.DatabasePath,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	repo := emulator.NewBillRepository(db.DB, logger)
	if err := repo.Init(context.Background()); err != nil {
		logger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	if cfg.Logger.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	publicURL := fmt.Sprintf("http://%s:%d", cfg.Emulator.Host, cfg.Emulator.Port)
	server := emulator.NewServer(repo, cfg.Emulator.UploadDir, publicURL, cfg.Store.Token, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Emulator.Host, cfg.Emulator.Port),
		Handler:      server.Router(),
		ReadTimeout:  cfg.Emulator.ReadTimeout,
		WriteTimeout: cfg.Emulator.WriteTimeout,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down emulator...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
