package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shoply/checkout-service-go/internal/cart"
	"github.com/shoply/checkout-service-go/internal/catalog"
	"github.com/shoply/checkout-service-go/internal/checkout"
	"github.com/shoply/checkout-service-go/internal/config"
	"github.com/shoply/checkout-service-go/internal/coupon"
	"github.com/shoply/checkout-service-go/internal/db"
	"github.com/shoply/checkout-service-go/internal/events"
	httpapi "github.com/shoply/checkout-service-go/internal/http"
	"github.com/shoply/checkout-service-go/internal/order"
	"github.com/shoply/checkout-service-go/internal/pricing"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- DB ---
	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	sqlDB, err := db.Open(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatalf("db open: %v", err)
	}
	defer sqlDB.Close()

	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
			logger.Fatalf("db migrate: %v", err)
		}
	}

	catalogRepo := catalog.NewPostgresRepository(pool)
	couponRepo := coupon.NewPostgresRepository(pool)
	cartRepo := cart.NewRepository(sqlDB)
	orderRepo := order.NewRepository(sqlDB)

	cartSvc := cart.NewService(cartRepo, catalogRepo)
	registry := coupon.NewRegistry(couponRepo)
	engine := pricing.NewEngine(cartSvc, registry)

	// --- AMQP (optional) ---
	var publisher checkout.Publisher
	if cfg.RabbitURL != "" {
		conn, err := events.Dial(cfg.RabbitURL)
		if err != nil {
			logger.Fatalf("rabbitmq connect: %v", err)
		}
		defer conn.Close()

		pub, err := events.NewPublisher(conn)
		if err != nil {
			logger.Fatalf("rabbitmq publisher: %v", err)
		}
		defer pub.Close()
		publisher = pub
	} else {
		logger.Warn("RABBITMQ_URL not set, OrderPlaced events disabled")
	}

	guard := checkout.NewGuard(cartSvc, engine, catalogRepo, couponRepo, checkout.NewPostgresWriter(), publisher, logger)

	// --- HTTP ---
	h := httpapi.NewHandler(cartSvc, engine, guard, orderRepo, catalogRepo, couponRepo)
	r := httpapi.NewRouter(h)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Infof("http listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Infof("shutdown signal: %s", sig)
	case err := <-errCh:
		logger.Errorf("fatal error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = httpServer.Shutdown(shutdownCtx)
	cancel()

	logger.Info("shutdown complete")
}
