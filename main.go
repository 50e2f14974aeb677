package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Zero-Base-1/DonationTracker/internal/config"
	"github.com/Zero-Base-1/DonationTracker/internal/db"
	"github.com/Zero-Base-1/DonationTracker/internal/handler"
	"github.com/Zero-Base-1/DonationTracker/internal/service"
	"github.com/Zero-Base-1/DonationTracker/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := newLogger(cfg.App.Env)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx := context.Background()

	store, err := db.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatal("failed to ensure schema", zap.Error(err))
	}

	sessions := session.NewStore()
	credentials := service.NewCredentialService(store, logger)
	remember := service.NewRememberService(store, cfg.Auth.RememberTTL, logger)
	reset := service.NewResetService(store, cfg.Auth.ResetTTL, logger)
	donations := service.NewDonationService(store)
	events := service.NewEventService(store)
	reports := service.NewReportService(store)

	if err := credentials.EnsureAdmin(ctx, cfg.Auth); err != nil {
		logger.Fatal("failed to seed admin account", zap.Error(err))
	}

	cookies := handler.CookieConfig{
		Secure:         cfg.Auth.CookieSecure,
		Domain:         cfg.Auth.CookieDomain,
		RememberMaxAge: int(cfg.Auth.RememberTTL.Seconds()),
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	handler.RegisterRoutes(router, handler.RouterDeps{
		Sessions:  sessions,
		Remember:  remember,
		Auth:      handler.NewAuthHandler(credentials, remember, reset, sessions, cookies, cfg.Auth.DebugResetLinks, logger),
		Donations: handler.NewDonationHandler(donations, logger),
		Events:    handler.NewEventHandler(events, logger),
		Reports:   handler.NewReportHandler(reports, logger),
		Cookies:   cookies,
		Logger:    logger,
	})

	logger.Info("starting server", zap.String("addr", cfg.App.ListenAddr))
	if err := router.Run(cfg.App.ListenAddr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
