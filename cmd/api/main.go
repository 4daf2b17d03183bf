package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"preemmachine/internal/adapter/repo"
	"preemmachine/internal/http/handlers"
	"preemmachine/internal/http/httpapi"
	"preemmachine/internal/infra"
	"preemmachine/internal/infra/geoip"
	"preemmachine/internal/infra/google"
	"preemmachine/internal/ledger"
	"preemmachine/internal/payments"
)

func main() {
	// Load .env (optional)
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	sqlRunner := infra.NewSQLRunner(dbpool, logger)
	txRunner := &infra.TxRunner{DB: dbpool, Logger: logger}

	geo, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open geoip database")
	}

	payClient, err := payments.New(payments.Options{
		APIKey:  cfg.PaymentAPIKey,
		BaseURL: cfg.PaymentBaseURL,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build payment client")
	}

	app := &handlers.App{
		SQL:            sqlRunner,
		Logger:         logger,
		JWTSecret:      cfg.JWTSecret,
		WebhookSecret:  cfg.PaymentWebhookSecret,
		Currency:       cfg.DefaultCurrency,
		GoogleVerifier: google.NewVerifier(cfg.GoogleIssuer, cfg.GoogleClientID),
		Payments:       payClient,
		Updater:        ledger.NewUpdater(txRunner, logger),
		Geo:            geo,
		Users:          repo.NewUserRepository(dbpool),
		Orgs:           repo.NewOrganizationRepository(dbpool),
		Hierarchy:      repo.NewHierarchyRepository(dbpool),
		Preems:         repo.NewPreemRepository(dbpool),
	}

	router := httpapi.NewRouter(app, cfg)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
