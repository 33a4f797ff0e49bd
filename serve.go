package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"levelup/config"
	"levelup/handler"
	"levelup/repository"
	"levelup/services"
	"levelup/usecase"
	"levelup/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	apiURL     string
	listenAddr string
	origins    []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Resume the stored session and serve the local view API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&apiURL, "api-url", "", "progression service base URL (overrides LEVELUP_API_URL)")
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "local API listen address (overrides LEVELUP_LISTEN_ADDR)")
	serveCmd.Flags().StringSliceVar(&origins, "allow-origin", []string{"http://localhost:5173"}, "origins allowed to call the local API")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}
	cfg := config.Load()
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := utils.NewLogger(cfg.Env, cfg.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	repo, err := repository.NewProgressionRepo(cfg.APIURL, cfg.HTTPTimeout, logger.Named("remote"))
	if err != nil {
		return err
	}

	store, closeStore := credentialStore(cfg, logger)
	defer closeStore()

	engine := usecase.NewEngine(repo, store, usecase.Options{
		Profile:         cfg.Profile,
		RefreshInterval: cfg.RefreshInterval,
		NotificationTTL: cfg.NotificationTTL,
		Logger:          logger,
	})
	defer engine.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := engine.Auth.CheckExisting(ctx); err == nil {
		logger.Info("resumed stored session")
	}

	router := handler.SetupRouter(engine, handler.RouterOptions{
		AllowedOrigins: origins,
		Logger:         logger.Named("http"),
	})
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("local API listening",
			zap.String("addr", cfg.ListenAddr),
			zap.String("api_url", cfg.APIURL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("local API shutdown incomplete", zap.Error(err))
	}
	return nil
}

// credentialStore uses Redis when configured and reachable, and memory
// otherwise.
func credentialStore(cfg config.Config, logger *zap.Logger) (usecase.CredentialStore, func()) {
	if cfg.RedisURL == "" {
		return services.NewMemoryCredentialStore(), func() {}
	}

	store, err := services.NewRedisCredentialStore(cfg.RedisURL)
	if err != nil {
		logger.Warn("invalid redis url, credentials will not survive a restart", zap.Error(err))
		return services.NewMemoryCredentialStore(), func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if !store.IsConnected(ctx) {
		logger.Warn("redis unavailable, credentials will not survive a restart")
		store.Close()
		return services.NewMemoryCredentialStore(), func() {}
	}
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
