package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/teboho/graft/internal/api"
	"github.com/teboho/graft/internal/cli"
	"github.com/teboho/graft/internal/config"
	"github.com/teboho/graft/internal/db"
	"github.com/teboho/graft/internal/logging"
	"github.com/teboho/graft/internal/security"
	"github.com/teboho/graft/internal/storage"
	"go.uber.org/zap"
)

func main() {
	grantAdminEmail := flag.String("grant-admin", "", "grant admin to the user with this email, then exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrSecretMissing) || errors.Is(err, config.ErrSecretInsecure) {
			if suggestion, genErr := security.NewSecretKey(); genErr == nil {
				log.Printf("hint: set SECRET_KEY, for example SECRET_KEY=%s", suggestion)
			}
		}
		log.Fatalf("config load failed: %v", err)
	}

	if *grantAdminEmail != "" {
		operator := os.Getenv("USER")
		if operator == "" {
			operator = "unknown"
		}
		if err := cli.RunGrantAdminCommand(cfg.DBPath, *grantAdminEmail, operator); err != nil {
			log.Fatalf("grant-admin failed: %v", err)
		}
		log.Printf("admin granted to %s", *grantAdminEmail)
		return
	}

	appLogger, err := logging.NewLogger(cfg.LogLevel, cfg.LogPath)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer appLogger.Sync()

	location := mustLoadLocation(cfg.Timezone, appLogger)
	time.Local = location

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		appLogger.Fatal("database init failed", zap.Error(err))
	}

	proofs, err := storage.NewProofStore(cfg.UploadDir)
	if err != nil {
		appLogger.Fatal("proof store init failed", zap.Error(err))
	}

	handler := api.NewHandler(database, cfg.SecretKey, proofs, location, appLogger, false)

	app := fiber.New(fiber.Config{
		AppName:               "graft",
		DisableStartupMessage: true,
		BodyLimit:             storage.MaxProofSize + 1<<20,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Error("server shutdown failed", zap.Error(err))
		}
	}()

	appLogger.Info("graft listening",
		zap.String("port", cfg.Port),
		zap.String("db", cfg.DBPath),
		zap.String("tz", location.String()))
	if err := app.Listen(":" + cfg.Port); err != nil {
		appLogger.Fatal("server exited", zap.Error(err))
	}
}

func mustLoadLocation(name string, appLogger *zap.Logger) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		appLogger.Warn("invalid TZ, falling back to UTC", zap.String("tz", name))
		return time.UTC
	}
	return location
}
