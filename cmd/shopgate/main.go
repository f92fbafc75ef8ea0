// shopgate exposes the storefront over MCP so shopping agents can browse,
// manage a cart, and place orders. Designed for Cloud Run deployment with
// stateless operation; session and token state live in the credential store.
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

	"perdecim-client/internal/api"
	"perdecim-client/internal/config"
	"perdecim-client/internal/credentials"
	"perdecim-client/internal/gateway"
	"perdecim-client/internal/middleware"
	"perdecim-client/internal/model"
	"perdecim-client/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Initialize structured logger
	logger := initLogger()

	// Load configuration
	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.Info("configuration loaded",
		slog.String("store_id", cfg.StoreID),
		slog.String("environment", cfg.Environment),
		slog.String("api_base_url", cfg.Store.APIBaseURL),
	)

	creds, err := credentials.Open(cfg.Store.CredentialsFile)
	if err != nil {
		return fmt.Errorf("opening credentials: %w", err)
	}

	client, err := api.New(api.Config{
		BaseURL: cfg.Store.APIBaseURL,
		Creds:   creds,
		Logger:  logger,
		OnAuthExpired: func() {
			logger.Warn("service account session expired")
		},
	})
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	// Sign in the gateway's shopper account when one is configured;
	// otherwise the gateway shops as a guest session.
	if cfg.Store.ServiceEmail != "" {
		if err := serviceLogin(ctx, client, creds, cfg); err != nil {
			return fmt.Errorf("service account login: %w", err)
		}
		logger.Info("service account signed in", slog.String("email", cfg.Store.ServiceEmail))
	}

	// Setup routes
	g := gateway.New(client, logger)
	mux := http.NewServeMux()
	g.RegisterRoutes(mux)

	// Apply middleware chain: recovery → request id → logging → handler
	// Recovery must be outermost to catch panics from logging middleware
	httpHandler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logging(logger),
	)(mux)

	// Create HTTP server with timeouts
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Channel for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Channel for server errors
	serverErr := make(chan error, 1)

	// Start server in goroutine
	go func() {
		logger.Info("server starting",
			slog.String("port", cfg.Port),
			slog.String("addr", server.Addr),
		)
		serverErr <- server.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErr:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-shutdown:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		// Give outstanding requests time to complete
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			// Force close if graceful shutdown fails
			server.Close()
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}

// serviceLogin signs in the configured shopper account, merging any guest
// cart the credential store carried over. A still-valid token pair is reused
// as is; the client refreshes it on first use when it has gone stale.
func serviceLogin(ctx context.Context, client *api.Client, creds *credentials.Store, cfg *config.Config) error {
	if creds.Tokens().Valid() {
		return nil
	}

	auth := store.NewAuth(store.AuthConfig{
		API:   client,
		Creds: creds,
		Cart: store.NewCart(store.CartConfig{
			API: client,
		}),
	})

	loginCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	requires2FA, err := auth.Login(loginCtx, cfg.Store.ServiceEmail, cfg.Store.ServicePassword)
	if err != nil {
		return err
	}
	if requires2FA {
		return model.NewUnauthorizedError("service account requires two-factor login")
	}
	return nil
}

// initLogger creates a structured logger configured for the environment.
// Production uses JSON format for GCP Cloud Logging compatibility.
// Development uses text format for readability.
func initLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
		// Add source location in debug mode
		AddSource: level == slog.LevelDebug,
	}

	// JSON for production (Cloud Logging compatible), text for development
	if os.Getenv("ENVIRONMENT") == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
