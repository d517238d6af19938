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
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/iconbox/config"
	iconhttp "github.com/sagarc03/iconbox/http"
	"github.com/sagarc03/iconbox/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the iconbox HTTP server.

The administrator password comes from auth.password, auth.password_file,
ICONBOX_AUTH_PASSWORD or ADMIN_PASSWORD. The server refuses to start
without one.`,
	RunE: runServe,
}

var serveMigrate bool

func init() {
	serveCmd.Flags().Int("port", 8080, "HTTP server port (env: ICONBOX_SERVER_PORT)")
	serveCmd.Flags().Int64("max-upload-size", 0, "upload body limit in bytes, 0 for none")
	serveCmd.Flags().String("session", "", "session cookie format: plain, signed (env: ICONBOX_AUTH_SESSION)")
	serveCmd.Flags().String("password-file", "", "read the administrator password from this file")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "create missing tables before serving")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	secret, err := session.LoadSecret(cfg.Auth.SecretConfig)
	if err != nil {
		return fmt.Errorf("load secret: %w", err)
	}

	sessions, err := session.New(cfg.Auth.Session, secret)
	if err != nil {
		return fmt.Errorf("create session manager: %w", err)
	}

	b, err := openBackends(ctx, cfg, serveMigrate || cfg.Database.Type == "memory")
	if err != nil {
		return err
	}
	defer b.Close()

	handlerConfig := iconhttp.HandlerConfig{
		Secret:        secret,
		Sessions:      sessions,
		MaxUploadSize: cfg.Server.MaxUploadSize,
		CORS:          cfg.CORS,
		Logger:        slog.Default(),
	}

	handler := iconhttp.NewHandler(&handlerConfig, b.service)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server",
		"addr", addr,
		"database", cfg.Database.Type,
		"storage", cfg.Storage.Type,
		"session", cfg.Auth.Session,
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
