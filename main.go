// main.go
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
	"go-pharmacy/controllers"
	"go-pharmacy/middleware"
	"go-pharmacy/repository"
	"go-pharmacy/routes"
	"go-pharmacy/session"
	"go-pharmacy/utils"

	"github.com/gorilla/mux"
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

	// Connect to MongoDB
	client, err := utils.ConnectDB(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("database disconnect", zap.Error(err))
		}
	}()
	db := client.Database(cfg.MongoDB)

	products := repository.NewProducts(db)
	carts := repository.NewCarts(db)
	orders := repository.NewOrders(db)

	var mailer controllers.Mailer
	if cfg.EmailEnabled() {
		mailer = utils.NewEmailService(cfg.PostmarkToken, cfg.EmailSender, logger)
	} else {
		logger.Info("order confirmation emails disabled")
	}

	// Initialize controllers
	c := routes.Controllers{
		Product: controllers.NewProductController(products, logger),
		Cart:    controllers.NewCartController(carts, products, logger),
		Payment: controllers.NewPaymentController(carts, products, orders, mailer, cfg.PaymentMaxAmount, logger),
		Order:   controllers.NewOrderController(orders, logger),
		Symptom: controllers.NewSymptomController(utils.NewAdvisor(cfg.AIEndpointURL, cfg.AIAPIKey, nil), logger),
	}
	if cfg.AuthProvider == "jwt" {
		c.Admin = controllers.NewAdminController(cfg.AdminEmail, cfg.AdminPasswordHash, []byte(cfg.JWTSecret), logger)
	}

	router := mux.NewRouter()
	router.Use(middleware.Logging(logger))
	routes.RegisterRoutes(router, verifier, logger, c)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("api server listening", zap.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
}
