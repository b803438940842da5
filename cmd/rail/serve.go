package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/rail/internal/cli"
	httpAdapter "github.com/aretw0/rail/pkg/adapters/http"
	"github.com/aretw0/rail/pkg/observability"
	"github.com/aretw0/rail/pkg/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve <schema.rail>",
	Short: "Start the HTTP validation server",
	Long: `Serves the schema over HTTP:
  POST /validate   validate a JSON or YAML output document
  GET  /schema     the schema tree (?format=markdown for documentation)
  GET  /healthz    liveness
  GET  /events     server-sent "reload" events (with --watch)
  GET  /metrics    Prometheus metrics (unless metrics.enabled is false)
  GET  /openapi.yaml, /swagger   API description`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		path := args[0]
		logger := env.Logger

		port := env.Config.Server.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}

		var (
			hooks   schema.Hooks
			opts    = []httpAdapter.Option{httpAdapter.WithLogger(logger)}
			metrics *observability.Metrics
		)
		if env.Config.Metrics.Enabled {
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			metrics = observability.NewMetrics(reg)
			hooks = metrics.Hooks()
			opts = append(opts, httpAdapter.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
		}
		if logger.Enabled(cmd.Context(), slog.LevelDebug) {
			hooks = observability.Combine(hooks, observability.LogHooks(logger))
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		guard, err := env.OpenGuard(sigCtx, path, hooks)
		if err != nil {
			return err
		}
		handler, server, err := httpAdapter.NewHandler(sigCtx, guard, opts...)
		if err != nil {
			return err
		}

		if watch, _ := cmd.Flags().GetBool("watch"); watch {
			go func() {
				err := cli.WatchFile(sigCtx, path, logger, func() {
					next, err := env.OpenGuard(sigCtx, path, hooks)
					if metrics != nil {
						metrics.ObserveReload(err)
					}
					if err != nil {
						// Keep serving the last good schema.
						logger.Error("schema reload failed", "path", path, "error", err)
						return
					}
					server.Swap(next)
					logger.Info("schema reloaded", "path", path)
				})
				if err != nil {
					logger.Error("watcher stopped", "error", err)
				}
			}()
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting rail server", "address", srv.Addr, "schema", path)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case <-sigCtx.Done():
			logger.Info("Start shutdown", "signal", sigCtx.Signal())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("rail server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides server.port)")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload the schema when the file changes")
}
