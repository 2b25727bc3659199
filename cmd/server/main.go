package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"

	"github.com/siliconvoice/voice-upload/internal/browser"
	"github.com/siliconvoice/voice-upload/internal/client"
	"github.com/siliconvoice/voice-upload/internal/config"
	"github.com/siliconvoice/voice-upload/internal/logging"
	"github.com/siliconvoice/voice-upload/internal/metrics"
	"github.com/siliconvoice/voice-upload/internal/server"
	"github.com/siliconvoice/voice-upload/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	fs := afero.NewOsFs()

	logger, logFile, err := logging.New(fs, &cfg.Log)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logFile.Close()

	m := metrics.NewMetrics()

	// Initialize clients and services
	sfClient := client.NewSiliconFlowClient(&cfg.SiliconFlow, logger)
	uploadService := service.NewUploadService(sfClient, fs, cfg, logger, m)

	app, err := server.New(server.Deps{
		Config:   cfg,
		Uploader: uploadService,
		Fs:       fs,
		Metrics:  m,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatalf("Failed to build server: %v", err)
	}

	if cfg.Server.OpenBrowser {
		launcher := browser.NewLauncher(logger)
		app.Hooks().OnListen(func(fiber.ListenData) error {
			go launcher.Launch(cfg.Server.URL())
			return nil
		})
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Printf("Server shutdown error: %v", err)
		}
	}()

	logger.Printf("Voice upload form starting on %s", cfg.Server.URL())
	if err := app.Listen(cfg.Server.Addr()); err != nil {
		logger.Fatalf("Server error: %v", err)
	}
}
