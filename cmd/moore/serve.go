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

	httpAdapter "github.com/aretw0/moore/pkg/adapters/http"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/aretw0/moore/pkg/observability"
	"github.com/aretw0/moore/pkg/registry"
	"github.com/aretw0/moore/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the machine over a JSON API: stateless /process and /step, persisted
sessions under /sessions with server-sent events, and Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		logger := newLogger(cmd)

		handler, closeFn, err := buildHTTPHandler(cmd, logger, prometheus.NewRegistry())
		if err != nil {
			return err
		}
		defer func() {
			if err := closeFn(); err != nil {
				logger.Error("Failed to close session store", "error", err)
			}
		}()

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			fmt.Fprintf(cmd.ErrOrStderr(), "Starting Moore Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			fmt.Fprintln(cmd.ErrOrStderr(), "\nStart shutdown...")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				_ = srv.Close()
				return fmt.Errorf("graceful shutdown did not complete: %w", err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Moore Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Bool("metrics", true, "Expose Prometheus metrics on /metrics")
	addStoreFlags(serveCmd, "")
}

// buildHTTPHandler wires table, session store, metrics and event streams into the HTTP adapter.
// The returned function closes the session store.
func buildHTTPHandler(cmd *cobra.Command, logger *slog.Logger, reg *prometheus.Registry) (http.Handler, func() error, error) {
	table, start, err := loadTable(cmd)
	if err != nil {
		return nil, nil, err
	}
	tables := registry.NewRegistry(table)

	backend, err := openStore(cmd, tables, logger)
	if err != nil {
		return nil, nil, err
	}

	var metrics *observability.Metrics
	hooks := domain.LifecycleHooks{}
	if enabled, _ := cmd.Flags().GetBool("metrics"); enabled {
		metrics, err = observability.NewMetrics(reg)
		if err != nil {
			_ = backend.Close()
			return nil, nil, err
		}
		hooks = metrics.Hooks()
	}

	streams := httpAdapter.NewStreamManager(logger)
	opts := []session.Option{
		session.WithRegistry(tables),
		session.WithLifecycleHooks(hooks),
		session.WithChangeObserver(streams.Observe),
		session.WithLogger(logger),
		session.WithLockTTL(lockTTL),
	}
	if backend.Locker != nil {
		opts = append(opts, session.WithLocker(backend.Locker))
	}
	sessions := session.NewManager(backend.Store, opts...)

	srvOpts := []httpAdapter.Option{
		httpAdapter.WithDefaultTable(table, start),
		httpAdapter.WithRegistry(tables),
		httpAdapter.WithSessions(sessions),
		httpAdapter.WithStreams(streams),
		httpAdapter.WithLogger(logger),
	}
	if metrics != nil {
		srvOpts = append(srvOpts, httpAdapter.WithMetrics(metrics))
	}
	return httpAdapter.NewHandler(srvOpts...), backend.Close, nil
}
