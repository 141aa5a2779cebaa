package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	authhandler "consultly/internal/auth/handler"
	authmetrics "consultly/internal/auth/metrics"
	authservice "consultly/internal/auth/service"
	jwttoken "consultly/internal/jwt_token"
	"consultly/internal/otp"
	"consultly/internal/platform/config"
	"consultly/internal/platform/httpserver"
	"consultly/internal/platform/logger"
	"consultly/internal/platform/metrics"
	"consultly/internal/platform/postgres"
	platformredis "consultly/internal/platform/redis"
	reghandler "consultly/internal/registration/handler"
	regmetrics "consultly/internal/registration/metrics"
	regservice "consultly/internal/registration/service"
	reviewhandler "consultly/internal/review/handler"
	reviewmetrics "consultly/internal/review/metrics"
	reviewservice "consultly/internal/review/service"
	httptransport "consultly/internal/transport/http"
	"consultly/internal/upload"
	"consultly/pkg/platform/audit/publisher"
	"consultly/pkg/platform/middleware/ratelimit"
	"consultly/pkg/secrets"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Environment, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
	}
	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	infra := infrastructure{cfg: cfg, log: log, db: db, redis: redisClient}

	directory := infra.directory()
	sequences, err := infra.sequences()
	if err != nil {
		return err
	}
	revocations := infra.revocations()
	auditPublisher := publisher.NewPublisher(infra.auditStore(), publisher.WithLogger(log))
	defer auditPublisher.Close()

	notifications, err := infra.notifications(ctx)
	if err != nil {
		return err
	}

	codes := otp.NewIssuer(cfg.OTP.Length)
	hasher := secrets.DefaultHasher()
	jwtService := jwttoken.NewJWTService(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.IndividualTTL, cfg.JWT.OrganizationTTL)

	registration := regservice.New(directory, sequences, codes, notifications.queue,
		regservice.WithLogger(log),
		regservice.WithAuditPublisher(auditPublisher),
		regservice.WithMetrics(regmetrics.New()),
		regservice.WithOTPTTL(cfg.OTP.VerificationTTL),
		regservice.WithHasher(hasher),
	)
	review := reviewservice.New(directory, notifications.queue,
		reviewservice.WithLogger(log),
		reviewservice.WithAuditPublisher(auditPublisher),
		reviewservice.WithMetrics(reviewmetrics.New()),
	)
	auth := authservice.New(directory, registration, jwtService, hasher, codes, notifications.queue,
		authservice.WithLogger(log),
		authservice.WithAuditPublisher(auditPublisher),
		authservice.WithMetrics(authmetrics.New()),
		authservice.WithResetTTL(cfg.OTP.PasswordResetTTL),
		authservice.WithRevocationList(revocations),
	)

	if cfg.Admin.Email != "" {
		admin, err := registration.BootstrapAdmin(ctx, cfg.Admin.Email, cfg.Admin.Phone, cfg.Admin.Password)
		if err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
		log.Info("admin account ready", "display_id", admin.Base().DisplayID)
	}

	routerCfg := httptransport.Config{
		Auth:         authhandler.New(auth, log),
		Registration: reghandler.New(registration, upload.NewLocalUploader(cfg.Upload.Dir, cfg.Upload.BaseURL), log, cfg.Server.MaxUploadBytes),
		Review:       reviewhandler.New(review, log),
		Validator:    jwttoken.NewJWTServiceAdapter(jwtService),
		Access:       directory,
		Revocations:  revocations,
		Limiter:      ratelimit.New(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst, log),
		Metrics:      metrics.New(),
		Health:       infra.healthChecks(revocations),
		Logger:       log,
	}
	if !cfg.IsProduction() {
		routerCfg.UploadDir = cfg.Upload.Dir
	}
	srv := httpserver.New(cfg.Server.Addr, httptransport.NewRouter(routerCfg))

	g, gctx := errgroup.WithContext(ctx)
	for _, worker := range notifications.workers {
		g.Go(func() error { return worker(gctx) })
	}
	g.Go(func() error {
		log.Info("starting consultly", "addr", cfg.Server.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		notifications.close(shutdownCtx)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("shutdown complete")
	return nil
}
