package server

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/factumhumanum/registry-backend/internal/config"
	"github.com/factumhumanum/registry-backend/internal/handler"
	"github.com/factumhumanum/registry-backend/internal/mail"
	appmw "github.com/factumhumanum/registry-backend/internal/middleware"
	"github.com/factumhumanum/registry-backend/internal/payments"
	"github.com/factumhumanum/registry-backend/internal/repository"
	"github.com/factumhumanum/registry-backend/internal/service"
	"github.com/factumhumanum/registry-backend/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

type Server struct {
	e *echo.Echo
}

// Deps carries the externally constructed collaborators; credentials are
// injected here rather than read from package globals.
type Deps struct {
	DB       *gorm.DB
	Checkout payments.Client
	Files    storage.FileStore
	Mailer   mail.Mailer
	Staff    *appmw.StaffAuth
	Logger   *slog.Logger
}

func New(cfg *config.Config, deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Stripe-Signature"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return false, nil
			}
			site, err := url.Parse(cfg.SiteURL)
			if err != nil {
				return false, nil
			}
			return u.Hostname() == site.Hostname(), nil
		},
	}))

	creatorRepo := repository.NewCreatorRepository(deps.DB)
	workRepo := repository.NewWorkRepository(deps.DB)
	paymentRepo := repository.NewPaymentRepository(deps.DB)

	notifier := service.NewNotifier(deps.Mailer, deps.Logger)
	workSvc := service.NewWorkService(workRepo, creatorRepo, notifier, cfg.SiteURL, cfg.ReviewEnabled)
	reviewSvc := service.NewReviewService(workRepo, notifier, cfg.SiteURL)
	creditSvc := service.NewCreditService(creatorRepo)
	fulfillSvc := service.NewFulfillmentService(paymentRepo, creatorRepo,
		cfg.CreditsPerPurchase, cfg.CreditPriceCents, cfg.Currency, deps.Logger)

	workHandler := handler.NewWorkHandler(workSvc, deps.Files)
	certHandler := handler.NewCertificateHandler(workSvc)
	paymentHandler := handler.NewPaymentHandler(deps.Checkout, fulfillSvc, cfg.CreditsPerPurchase)
	adminHandler := handler.NewAdminHandler(reviewSvc, creditSvc)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"ok": "true"})
	})

	api := e.Group("/api")
	api.POST("/works", workHandler.Register)
	api.GET("/works", workHandler.List)
	api.GET("/works/:id", workHandler.Get)
	api.GET("/works/:id/certificate", certHandler.View)
	api.GET("/works/:id/certificate/download", certHandler.Download)

	api.POST("/credits/checkout", paymentHandler.Checkout)
	api.GET("/credits/success", paymentHandler.CheckoutSuccess)
	api.GET("/credits/cancel", paymentHandler.CheckoutCancel)
	api.POST("/stripe/webhook", paymentHandler.Webhook)

	admin := api.Group("/admin", deps.Staff.RequireStaff)
	admin.GET("/works", adminHandler.ListQueue)
	admin.POST("/works/review", adminHandler.ReviewWorks)
	admin.GET("/creators", adminHandler.ListCreators)
	admin.POST("/creators/:id/credits", adminHandler.AdjustCredits)

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}
