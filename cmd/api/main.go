// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

// Command api is the entry point for the Altura users API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Connect the Kafka event publisher and collaborator HTTP clients.
//  7. Wire repositories, services, and the command dispatcher.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lureyes/altura/internal/agreements"
	"github.com/lureyes/altura/internal/api"
	"github.com/lureyes/altura/internal/clients/addresses"
	"github.com/lureyes/altura/internal/clients/customers"
	"github.com/lureyes/altura/internal/clients/identityval"
	"github.com/lureyes/altura/internal/command"
	"github.com/lureyes/altura/internal/identity"
	"github.com/lureyes/altura/internal/platform/config"
	"github.com/lureyes/altura/internal/platform/constants"
	"github.com/lureyes/altura/internal/platform/events"
	"github.com/lureyes/altura/internal/platform/migration"
	pgstore "github.com/lureyes/altura/internal/platform/postgres"
	redisstore "github.com/lureyes/altura/internal/platform/redis"
	"github.com/lureyes/altura/internal/signup"
	"github.com/lureyes/altura/internal/users"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "altura-users"))
	slog.SetDefault(log)

	log.Info("[Altura] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "altura-users"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Event Publisher ────────────────────────────────────────────────
	// Without brokers configured, events are dropped. That is a supported
	// mode for local development.
	var publisher events.Publisher = events.NoopPublisher{}
	var checkBroker func() error
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaEventTopic, log)
		defer func() {
			log.Info("closing kafka publisher")
			if cerr := kafkaPublisher.Close(); cerr != nil {
				log.Error("kafka close error", slog.Any("error", cerr))
			}
		}()
		publisher = kafkaPublisher
		checkBroker = func() error {
			return kafkaPublisher.Ping(context.Background())
		}
		log.Info("kafka_publisher_connected", slog.String("topic", cfg.KafkaEventTopic))
	} else {
		log.Warn("kafka_brokers_not_configured_events_dropped")
	}

	// ── 7. Collaborator Clients ───────────────────────────────────────────
	customersClient := customers.New(cfg.CustomersAPIURL, constants.DefaultClientTimeout)
	identityClient := identityval.New(cfg.IdentityAPIURL, constants.DefaultClientTimeout)
	addressesClient := addresses.New(cfg.AddressesAPIURL, constants.DefaultClientTimeout)

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
		CheckBroker: checkBroker,
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	userRepository := users.NewUserRepository(pool)
	contactMethodRepository := users.NewContactMethodRepository(pool)
	contactMethodTypeRepository := users.NewContactMethodTypeRepository(pool)
	signUpRepository := signup.NewSignUpRepository(pool)
	agreementRepository := agreements.NewRepository(pool)
	otpThrottle := signup.NewOTPThrottle(rdb)
	tokenSigner := signup.NewTokenSigner(cfg.ConfirmationTokenSecret)

	dispatcher := command.NewDispatcher()

	users.RegisterHandlers(dispatcher, users.NewService(userRepository, customersClient))
	signup.RegisterHandlers(dispatcher, signup.NewService(
		signUpRepository,
		userRepository,
		contactMethodRepository,
		contactMethodTypeRepository,
		tokenSigner,
		otpThrottle,
		publisher,
		time.Duration(cfg.ConfirmationTTLHours)*time.Hour,
	))
	identity.RegisterHandlers(dispatcher, identity.NewService(
		userRepository,
		signUpRepository,
		identityClient,
		customersClient,
		addressesClient,
	))
	agreements.RegisterHandlers(dispatcher, agreements.NewService(agreementRepository))

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Users:      users.NewHandler(dispatcher),
		SignUp:     signup.NewHandler(dispatcher),
		Identity:   identity.NewHandler(dispatcher),
		Agreements: agreements.NewHandler(dispatcher),
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
