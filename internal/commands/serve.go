package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tillbook-dev/tillbook/internal/web"
)

func newServeCommand() *cobra.Command {
	var workDir, addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload and settings UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(workDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runServe(absDir, addr)
		},
	}

	cmd.Flags().StringVar(&workDir, "dir", ".", "tillbook work directory")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, TILLBOOK_ADDR overrides)")
	return cmd
}

func runServe(workDir, addr string) error {
	_ = godotenv.Load()

	cfg, err := loadConfig(workDir)
	if err != nil {
		return err
	}

	if addr == "" {
		addr = os.Getenv("TILLBOOK_ADDR")
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	logger, err := newLogger(cfg.Server.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	server := &http.Server{
		Addr:              addr,
		Handler:           web.NewServer(cfg, workDir, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.String("work_dir", workDir))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}
