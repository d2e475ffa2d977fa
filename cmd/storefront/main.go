// Command storefront serves the shopper-facing pharmacy site on top of the
// pharmacy REST API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-pharmacy/config"
	"go-pharmacy/session"
	"go-pharmacy/storefront/api"
	"go-pharmacy/storefront/catalog"
	"go-pharmacy/storefront/checkout"
	"go-pharmacy/storefront/symptoms"
	"go-pharmacy/storefront/web"
	"go-pharmacy/utils"

	"go.uber.org/zap"
)

func main() {
	cfg, envFile, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := utils.NewLogger(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if !envFile {
		logger.Info("no .env file found, proceeding with environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	verifier, err := session.NewVerifier(ctx, cfg.AuthProvider, []byte(cfg.JWTSecret), cfg.FirebaseProjectID)
	if err != nil {
		logger.Fatal("auth setup failed", zap.Error(err))
	}

	client := api.New(cfg.APIBaseURL, &http.Client{Timeout: cfg.RequestTimeout})

	var gateway checkout.Gateway = client
	if cfg.PaymentMode == "simulated" {
		gateway = checkout.SimulatedGateway{Delay: checkout.DefaultSimulatedDelay}
		logger.Info("payments are simulated")
	}

	handler := web.New(web.Options{
		Verifier:  verifier,
		Catalog:   catalog.New(client, logger),
		Symptoms:  symptoms.New(client, logger),
		Shoppers:  web.NewRegistry(client, gateway, logger),
		Orders:    client,
		Logger:    logger,
		SignInURL: cfg.SignInURL,
		Timeout:   cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.StorefrontPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("storefront listening", zap.String("port", cfg.StorefrontPort), zap.String("api", cfg.APIBaseURL))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
}
