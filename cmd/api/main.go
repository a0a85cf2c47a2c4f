package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/guideway/guideway-backend/api/routes"
	"github.com/guideway/guideway-backend/internal/attachments"
	"github.com/guideway/guideway-backend/internal/checkin"
	"github.com/guideway/guideway-backend/internal/ledger"
	"github.com/guideway/guideway-backend/internal/orders"
	"github.com/guideway/guideway-backend/internal/overtime"
	"github.com/guideway/guideway-backend/internal/payments"
	"github.com/guideway/guideway-backend/internal/refunds"
	"github.com/guideway/guideway-backend/pkg/config"
	"github.com/guideway/guideway-backend/pkg/db"
	"github.com/guideway/guideway-backend/pkg/instance"
	"github.com/guideway/guideway-backend/pkg/logger"
	"github.com/guideway/guideway-backend/pkg/migrate"
	"github.com/guideway/guideway-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	provider := payments.NewSandboxProvider()
	if !cfg.Gateway.Sandbox() {
		logg.Warn(context.Background(), "live gateway mode requested but no live provider is configured, using sandbox")
	}

	ordersRepo := orders.NewRepository(dbClient.DB())

	ordersService, err := orders.NewService(ordersRepo, dbClient, provider)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}
	checkinService, err := checkin.NewService(
		checkin.NewRepository(dbClient.DB()),
		ordersRepo,
		attachments.NewRepository(dbClient.DB()),
		dbClient,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create check-in service", err)
		os.Exit(1)
	}
	overtimeService, err := overtime.NewService(overtime.NewRepository(dbClient.DB()), ordersRepo, dbClient, provider)
	if err != nil {
		logg.Error(context.Background(), "failed to create overtime service", err)
		os.Exit(1)
	}
	refundsService, err := refunds.NewService(refunds.NewRepository(dbClient.DB()), ordersRepo, dbClient, provider)
	if err != nil {
		logg.Error(context.Background(), "failed to create refunds service", err)
		os.Exit(1)
	}
	ledgerService, err := ledger.NewService(ledger.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, registry, routes.Services{
			Orders:   ordersService,
			CheckIn:  checkinService,
			Overtime: overtimeService,
			Refunds:  refundsService,
			Ledger:   ledgerService,
		}, dbClient, redisClient),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "error draining api server", err)
		}
	}
}
