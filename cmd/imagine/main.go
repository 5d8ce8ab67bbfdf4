// Package main запускает HTTP-сервер сервиса Imagine.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/imagine/internal/backend"
	"github.com/mmeshcher/imagine/internal/config"
	"github.com/mmeshcher/imagine/internal/handler"
	"github.com/mmeshcher/imagine/internal/middleware"
	"github.com/mmeshcher/imagine/internal/notify"
	"github.com/mmeshcher/imagine/internal/repository"
	"github.com/mmeshcher/imagine/internal/rewards"
	"github.com/mmeshcher/imagine/internal/service"
)

func newLogger() *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		zap.InfoLevel,
	)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
}

func newResolver(cfg *config.Config) (*rewards.Resolver, error) {
	m, err := rewards.ParseModel(cfg.RewardModel)
	if err != nil {
		return nil, err
	}

	catalog := rewards.DefaultCatalog()
	if cfg.RewardCatalog != "" {
		catalog, err = rewards.LoadCatalog(cfg.RewardCatalog)
		if err != nil {
			return nil, err
		}
	}

	return rewards.NewResolver(m, catalog), nil
}

func newRepository(cfg *config.Config) (service.Repository, error) {
	if cfg.DatabaseURI == "" {
		return repository.NewMemoryRepository(), nil
	}
	return repository.NewPostgresRepository(cfg.DatabaseURI)
}

func newAuthenticator(cfg *config.Config, dir service.EmployeeDirectory) (service.Authenticator, error) {
	if cfg.AuthMode == config.AuthModeRemote {
		return service.NewRemoteAuthenticator(dir), nil
	}
	return service.NewLocalAuthenticator(cfg.AdminUsername, cfg.AdminPassword)
}

func main() {
	logger := newLogger()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	resolver, err := newResolver(cfg)
	if err != nil {
		sugar.Fatalw("reward catalog error", "error", err.Error())
	}

	repo, err := newRepository(cfg)
	if err != nil {
		sugar.Fatalw("database initialization error", "error", err.Error())
	}

	backendClient := backend.NewClient(cfg.BackendAddress)

	notifier := notify.NewClient(cfg.AiSensyAddress, cfg.AiSensyProjectID, cfg.AiSensyAPIPwd)
	if !notifier.Configured() {
		sugar.Warn("AiSensy credentials are not set, welcome messages are disabled")
	}

	auth, err := newAuthenticator(cfg, backendClient)
	if err != nil {
		sugar.Fatalw("auth initialization error", "error", err.Error())
	}

	svc := service.NewService(repo, backendClient, notifier, auth, resolver, cfg.SupportPhone, logger)
	defer svc.Close()

	if cfg.SessionSecret == "" {
		sugar.Warn("SESSION_SECRET is not set, sessions will not survive a restart")
	}
	authMiddleware := middleware.NewAuthMiddleware(cfg.SessionSecret)
	h := handler.NewHandler(svc, logger, authMiddleware)

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           h.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sugar.Infow("starting imagine server",
			"addr", cfg.RunAddress,
			"backend", cfg.BackendAddress,
			"reward_model", resolver.Model(),
			"auth_mode", cfg.AuthMode,
			"persistent_ledger", cfg.DatabaseURI != "",
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Остановка по сигналу или при ошибке сервера.
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
