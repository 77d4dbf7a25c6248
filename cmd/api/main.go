package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/propertybazaar/server/internal/auth"
	"github.com/propertybazaar/server/internal/config"
	"github.com/propertybazaar/server/internal/db"
	httphandler "github.com/propertybazaar/server/internal/http"
	"github.com/propertybazaar/server/internal/logging"
	"github.com/propertybazaar/server/internal/middleware"
	"github.com/propertybazaar/server/internal/notify"
	"github.com/propertybazaar/server/internal/otp"
	"github.com/propertybazaar/server/internal/repo"
)

const (
	otpRateWindow = 10 * time.Minute
	otpRateBurst  = 10
)

func main() {
	// Environment variables take precedence over .env
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer database.Close()

	if err := db.Migrate(database, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	userRepo := repo.NewUserRepo(database)
	propertyRepo := repo.NewPropertyRepo(database)
	appointmentRepo := repo.NewAppointmentRepo(database)
	savedListRepo := repo.NewSavedListRepo(database)

	store := newOTPStore(ctx, cfg, logger)
	dispatcher := newDispatcher(ctx, cfg, logger)

	var opts []otp.Option
	if cfg.DevMode {
		opts = append(opts, otp.WithDevEcho())
		logger.Warn("development mode: codes are logged and echoed in responses")
	}
	otpService := otp.NewService(store, dispatcher, userRepo, logger, opts...)
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	otpLimiter := middleware.NewRateLimiter(otpRateWindow, otpRateBurst)
	go cleanupLimiter(ctx, otpLimiter)

	router := httphandler.NewRouter(httphandler.Deps{
		OTPService:     otpService,
		JWTService:     jwtService,
		Properties:     propertyRepo,
		Appointments:   appointmentRepo,
		SavedLists:     savedListRepo,
		Users:          userRepo,
		OTPLimiter:     otpLimiter,
		AllowedOrigins: cfg.AllowedOrigins,
		TrustProxy:     cfg.TrustProxy,
		Logger:         logger,
	})

	// Create HTTP server with timeouts
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return
	}
	logger.Info("server exited")
}

// newOTPStore picks Redis when configured. The in-memory store gets a sweeper bound to ctx.
func newOTPStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) otp.Store {
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			logger.Fatal("failed to connect to redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		logger.Info("otp store: redis", zap.String("addr", cfg.RedisAddr))
		return otp.NewRedisStore(client, cfg.OTPRetention)
	}

	store := otp.NewMemoryStore(cfg.OTPRetention)
	go otp.NewSweeper(store, cfg.OTPSweepInterval, logger).Run(ctx)
	logger.Info("otp store: memory", zap.Duration("sweep_interval", cfg.OTPSweepInterval))
	return store
}

// newDispatcher wires whichever channels are configured; dev mode only logs.
func newDispatcher(ctx context.Context, cfg *config.Config, logger *zap.Logger) otp.Dispatcher {
	if cfg.DevMode {
		return notify.NewLogDispatcher(logger)
	}

	var sms notify.SMSSender
	if cfg.SNSRegion != "" {
		sender, err := notify.NewSNSSender(ctx, cfg.SNSRegion)
		if err != nil {
			logger.Error("sms channel disabled", zap.Error(err))
		} else {
			sms = sender
		}
	}

	var mailer notify.Mailer
	if cfg.SMTPHost != "" {
		mailer = notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			From:     cfg.SMTPFrom,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
		})
	}

	if sms == nil && mailer == nil {
		logger.Warn("no dispatch channel configured; sends will fail")
	}
	return notify.NewChannelDispatcher(sms, mailer)
}

func cleanupLimiter(ctx context.Context, limiter *middleware.RateLimiter) {
	ticker := time.NewTicker(otpRateWindow)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			limiter.Cleanup(now)
		}
	}
}
