package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/wayfare"
	wayhttp "github.com/aretw0/wayfare/pkg/adapters/http"
	"github.com/aretw0/wayfare/pkg/adapters/rasa"
	"github.com/aretw0/wayfare/internal/cli"
	"github.com/aretw0/wayfare/internal/presentation/tui"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the Rasa action webhook",
	Long: `Starts the Wayfare HTTP API with Prometheus metrics at /metrics.
When server.rasa_addr is set, the Rasa action server listens there too.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		engine, cfg, logger, cleanup, err := setup(cmd, reg)
		if err != nil {
			return err
		}
		defer cleanup()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
			tui.PrintBanner(cmd.ErrOrStderr(), wayfare.Version)
		}

		handler, err := wayhttp.NewHandler(engine,
			wayhttp.WithLogger(logger),
			wayhttp.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})),
		)
		if err != nil {
			return fmt.Errorf("error building http handler: %w", err)
		}

		servers := []*http.Server{{Addr: cfg.Server.Addr, Handler: handler}}
		if cfg.Server.RasaAddr != "" {
			actions := rasa.NewServer(engine, rasa.WithLogger(logger))
			servers = append(servers, &http.Server{Addr: cfg.Server.RasaAddr, Handler: actions.Handler()})
			logger.Info("rasa action server enabled", "addr", cfg.Server.RasaAddr, "actions", actions.Actions())
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		// Channel to listen for errors coming from the listeners.
		serverErrors := make(chan error, len(servers))
		for _, srv := range servers {
			go func(srv *http.Server) {
				logger.Info("listening", "addr", srv.Addr, "store", cfg.Store.Driver)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErrors <- err
				}
			}(srv)
		}

		var runErr error
		select {
		case runErr = <-serverErrors:
			logger.Error("server error", "error", runErr)
		case <-ctx.Done():
			logger.Info("shutting down", "signal", ctx.Signal())
		}

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("graceful shutdown did not complete", "addr", srv.Addr, "error", err)
				_ = srv.Close()
			}
		}
		logger.Info("server stopped")
		return runErr
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address for the HTTP API (overrides server.addr)")
	serveCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
}
