package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/abhaysharma1/Acquisitions/pkg/api"
	"github.com/abhaysharma1/Acquisitions/pkg/auth"
	"github.com/abhaysharma1/Acquisitions/pkg/config"
	"github.com/abhaysharma1/Acquisitions/pkg/middleware"
	"github.com/abhaysharma1/Acquisitions/pkg/observability"
	"github.com/abhaysharma1/Acquisitions/pkg/storage/postgres"
	"github.com/abhaysharma1/Acquisitions/pkg/users"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		observability.NewLogger(observability.ErrorLevel, os.Stderr).Fatalf("failed to load configuration: %v", err)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(prometheus.NewRegistry())
	}

	connections, err := postgres.NewConnectionManager(cfg.Storage, logger)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}

	ctx := context.Background()
	if err := postgres.EnsureSchema(ctx, connections.Primary()); err != nil {
		logger.Fatalf("failed to ensure schema: %v", err)
	}

	store := postgres.NewUserStore(connections)
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	cookies := auth.NewCookieCarrier(cfg.Auth.CookieSecure, cfg.Auth.TokenTTL)

	accounts := users.NewAccountService(store, hasher, logger)
	directory := users.NewDirectoryService(store, logger)

	authn := middleware.NewAuthenticator(tokens, cookies, logger)
	guard := middleware.NewGuard(middleware.GuardConfig{
		Monitor:          cfg.Guard.Mode == config.ModeMonitor,
		BaselineMax:      cfg.Guard.BaselineMax,
		BaselineInterval: cfg.Guard.BaselineInterval,
		RoleInterval:     cfg.Guard.RoleInterval,
		RoleLimits: map[auth.Role]int{
			auth.RoleGuest: cfg.Guard.GuestMax,
			auth.RoleUser:  cfg.Guard.UserMax,
			auth.RoleAdmin: cfg.Guard.AdminMax,
		},
	}, authn, logger, metrics)

	server := api.NewServer(api.Dependencies{
		Accounts:  accounts,
		Directory: directory,
		Tokens:    tokens,
		Cookies:   cookies,
		Guard:     guard,
		Authn:     authn,
		Logger:    logger,
		Metrics:   metrics,
	})

	apiServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	health := observability.NewHealthChecker(connections.Primary())
	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/health", health.Liveness)
	healthMux.HandleFunc("/ready", health.Readiness)
	if metrics != nil {
		healthMux.Handle("/metrics", metrics.Handler())
	}
	healthServer := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.HealthPort),
		Handler: healthMux,
	}

	shutdown := observability.NewShutdownManager(logger, cfg.Server.ShutdownTimeout, apiServer, healthServer)
	shutdown.RegisterShutdownFunc(func(context.Context) error {
		return connections.Close()
	})

	var group errgroup.Group
	group.Go(func() error {
		logger.Infof("API server listening on %s", apiServer.Addr)
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		logger.Infof("health server listening on %s", healthServer.Addr)
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(shutdown.WaitForShutdown)

	if err := group.Wait(); err != nil {
		logger.Fatalf("server error: %v", err)
	}
}
