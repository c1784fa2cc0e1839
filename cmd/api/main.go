package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/factumhumanum/registry-backend/internal/config"
	"github.com/factumhumanum/registry-backend/internal/db"
	"github.com/factumhumanum/registry-backend/internal/mail"
	appmw "github.com/factumhumanum/registry-backend/internal/middleware"
	"github.com/factumhumanum/registry-backend/internal/payments"
	"github.com/factumhumanum/registry-backend/internal/server"
	"github.com/factumhumanum/registry-backend/internal/storage"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	conn, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatalf("auto migrate error: %v", err)
	}

	var checkout payments.Client
	if cfg.StripeSecretKey != "" {
		checkout = payments.NewStripeClient(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.StripePriceID, cfg.SiteURL)
	} else {
		logger.Warn("stripe not configured; credit purchase endpoints disabled")
	}

	var files storage.FileStore
	if cfg.StorageBucket != "" {
		files, err = storage.NewGCSStore(ctx, cfg.StorageBucket)
		if err != nil {
			log.Fatalf("storage init error: %v", err)
		}
	} else {
		files = storage.NewDiskStore(cfg.UploadDir)
	}

	var mailer mail.Mailer = mail.NoopMailer{}
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom, cfg.EmailName)
	} else {
		logger.Warn("smtp not configured; notifications disabled")
	}

	staff, err := appmw.NewStaffAuth(ctx, cfg.FirebaseProjectID, cfg.AdminToken)
	if err != nil {
		log.Fatalf("staff auth init error: %v", err)
	}

	srv := server.New(cfg, server.Deps{
		DB:       conn,
		Checkout: checkout,
		Files:    files,
		Mailer:   mailer,
		Staff:    staff,
		Logger:   logger,
	})

	addr := ":" + cfg.Port
	log.Printf("starting server on %s (review enabled: %v)", addr, cfg.ReviewEnabled)
	if err := srv.Start(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
