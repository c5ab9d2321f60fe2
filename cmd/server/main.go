// Copyright 2026 The RentLedger Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rentledger/rentledger/internal/audit"
	"github.com/rentledger/rentledger/internal/config"
	"github.com/rentledger/rentledger/internal/document"
	"github.com/rentledger/rentledger/internal/ledger"
	"github.com/rentledger/rentledger/internal/maintenance"
	"github.com/rentledger/rentledger/internal/observability/logger"
	"github.com/rentledger/rentledger/internal/observability/metrics"
	"github.com/rentledger/rentledger/internal/observability/tracing"
	"github.com/rentledger/rentledger/internal/owner"
	"github.com/rentledger/rentledger/internal/property"
	"github.com/rentledger/rentledger/internal/reminder"
	"github.com/rentledger/rentledger/internal/session"
	"github.com/rentledger/rentledger/internal/store/postgres"
	"github.com/rentledger/rentledger/internal/tenancy"
	transportHTTP "github.com/rentledger/rentledger/internal/transport/http"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.InitLogger(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})
	slog.Info("starting rentledger")

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := runMigrate(cfg); err != nil {
			fmt.Printf("Migration failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	ctx := context.Background()

	// Initialize tracer
	tracer, err := tracing.New(ctx, tracing.Config{
		Enabled:        cfg.Observability.OTELEnabled,
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		SamplingRate:   1.0,
	})
	if err != nil {
		slog.Error("failed to initialize tracer", logger.Error(err))
	}
	defer tracer.Shutdown(ctx)

	// Initialize meter
	meter, err := metrics.New(ctx, metrics.Config{
		Enabled: cfg.Observability.OTELEnabled,
	}, cfg.Observability.ServiceName)
	if err != nil {
		slog.Error("failed to initialize meter", logger.Error(err))
		os.Exit(1)
	}

	// Initialize database
	db, err := postgres.New(ctx, postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", logger.Error(err))
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("connected to database")

	// Initialize repositories
	ownerRepo := postgres.NewOwnerRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	propertyRepo := postgres.NewPropertyRepository(db)
	tenantRepo := postgres.NewTenantRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	expenseRepo := postgres.NewExpenseRepository(db)
	maintenanceRepo := postgres.NewMaintenanceRepository(db)
	documentRepo := postgres.NewDocumentRepository(db)
	leaseRepo := postgres.NewLeaseRepository(db)

	// Initialize helpers
	auditLogger := audit.NewSlogLogger()
	passwordHasher := owner.NewPasswordHasher(
		cfg.Security.Argon2Memory,
		cfg.Security.Argon2Iterations,
		cfg.Security.Argon2Parallelism,
		cfg.Security.Argon2SaltLength,
		cfg.Security.Argon2KeyLength,
	)

	// Initialize services
	ownerService := owner.NewService(
		ownerRepo,
		passwordHasher,
		auditLogger,
		cfg.Security.LockoutMaxAttempts,
		cfg.Security.LockoutDuration,
	)
	sessionService := session.NewService(sessionRepo, cfg.Session.Lifetime, cfg.Session.IdleTimeout)
	propertyService := property.NewService(propertyRepo, auditLogger)
	tenancyService := tenancy.NewService(tenantRepo, propertyRepo, auditLogger)
	ledgerService := ledger.NewService(
		paymentRepo,
		expenseRepo,
		propertyRepo,
		tenantRepo,
		maintenanceRepo,
		auditLogger,
	)
	maintenanceService := maintenance.NewService(maintenanceRepo, propertyRepo, tenantRepo, auditLogger)
	documentService := document.NewService(documentRepo, propertyRepo, auditLogger)

	// Rent reminders are optional; without Twilio credentials the endpoint
	// reports itself unconfigured and the scheduler never starts.
	var reminderService *reminder.Service
	var scheduler *reminder.Scheduler
	if cfg.Reminder.Enabled {
		sender := reminder.NewTwilioSender(
			cfg.Reminder.TwilioAccountSID,
			cfg.Reminder.TwilioAuthToken,
			cfg.Reminder.TwilioFromNumber,
		)
		reminderService = reminder.NewService(sender, tenantRepo, propertyRepo, auditLogger, meter)

		scheduler, err = reminder.NewScheduler(cfg.Reminder.CronSpec, leaseRepo, sender, auditLogger, meter)
		if err != nil {
			slog.Error("failed to initialize reminder scheduler", logger.Error(err))
			os.Exit(1)
		}
		scheduler.Start()
		defer scheduler.Stop()
		slog.Info("rent reminder scheduler started")
	}

	// Rate Limiter
	rateLimiter := transportHTTP.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	// Configure SameSite mode
	sameSite := http.SameSiteLaxMode
	switch cfg.Session.CookieSameSite {
	case "Strict":
		sameSite = http.SameSiteStrictMode
	case "None":
		sameSite = http.SameSiteNoneMode
	}

	// Initialize HTTP handler
	handler := transportHTTP.NewHandler(
		ownerService,
		sessionService,
		propertyService,
		tenancyService,
		ledgerService,
		maintenanceService,
		documentService,
		reminderService,
		auditLogger,
		meter,
		transportHTTP.SessionConfig{
			CookieName:     cfg.Session.CookieName,
			CookieDomain:   cfg.Session.CookieDomain,
			CookiePath:     cfg.Session.CookiePath,
			CookieSecure:   cfg.Session.CookieSecure,
			CookieHTTPOnly: cfg.Session.CookieHTTPOnly,
			CookieSameSite: sameSite,
			CookieMaxAge:   int(cfg.Session.Lifetime.Seconds()),
		},
	)

	// Create router
	router := transportHTTP.NewRouter(handler, rateLimiter)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start session cleanup goroutine
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := sessionService.CleanupExpired(ctx); err != nil {
				slog.ErrorContext(ctx, "failed to cleanup expired sessions", logger.Error(err))
			}
		}
	}()

	// Start server
	go func() {
		slog.Info("starting http server", logger.Component("server"), logger.Operation("listen"))
		slog.Info(fmt.Sprintf("listening on %s", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", logger.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", logger.Error(err))
	}

	slog.Info("server stopped")
}

func runMigrate(cfg *config.Config) error {
	fmt.Println("Applying migrations...")
	if err := postgres.Migrate(context.Background(), cfg.Database.DSN()); err != nil {
		return err
	}
	fmt.Println("Migration successful.")
	return nil
}
