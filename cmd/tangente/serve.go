// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/tangente/internal/explore"
	"github.com/pdiddy/tangente/internal/logging"
	"github.com/pdiddy/tangente/internal/metrics"
	"github.com/pdiddy/tangente/internal/session"
	"github.com/pdiddy/tangente/internal/web"
	"github.com/pdiddy/tangente/pkg/types"
)

const (
	sessionMaxAge   = 2 * time.Hour
	pruneInterval   = 10 * time.Minute
	shutdownTimeout = 15 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web explorer",
	Long: `Serve starts an HTTP server with the explorer page at /, a JSON API at
/api/explore and /api/session, a health check at /healthz and Prometheus
metrics at /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		logger, err := logging.New(cfg.Log)
		if err != nil {
			return err
		}
		defer logger.Sync()

		collector := metrics.NewCollector()
		explorer, err := newExplorer(cfg.AI, logger)
		if err != nil {
			return err
		}
		if cfg.AI.APIKey == "" {
			logger.Warn("no API key configured; explorations will fail", zap.String("provider", string(cfg.AI.Provider)))
		}

		srv := web.NewServer(web.Options{
			Explorer:       &metrics.InstrumentedExplorer{Next: explorer, Provider: explorer.Provider(), Collector: collector},
			Sessions:       session.NewStore(),
			Metrics:        collector,
			Logger:         logger,
			Provider:       explorer.Provider(),
			ExploreTimeout: cfg.Server.ExploreTimeout,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return runServer(ctx, cfg.Server, srv, logger)
	},
}

func runServer(ctx context.Context, cfg types.ServerConfig, srv *web.Server, logger *zap.Logger) error {
	httpSrv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		ticker := time.NewTicker(pruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := srv.PruneSessions(sessionMaxAge); n > 0 {
					logger.Debug("pruned idle sessions", zap.Int("count", n))
				}
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return srv.Shutdown(shutdownCtx)
}

// newExplorer builds the explorer for the configured provider.
func newExplorer(ai types.AIConfig, logger *zap.Logger) (*explore.Explorer, error) {
	backend, err := explore.NewBackend(ai)
	if err != nil {
		return nil, err
	}
	return explore.New(backend, ai.Temperature, logger), nil
}

func init() {
	serveCmd.Flags().String("addr", types.DefaultAddr, "listen address")
	if err := viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr")); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(serveCmd)
}
