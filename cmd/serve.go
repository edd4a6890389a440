package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/sme-crm/internal/api"
	"github.com/sells-group/sme-crm/internal/config"
	"github.com/sells-group/sme-crm/internal/discovery"
	"github.com/sells-group/sme-crm/internal/monitoring"
)

var (
	servePort int
	serveSeed string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the lead and search HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		cfg.Server.Port = port
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		handler, err := buildHandler(cfg, seedPathFlag(serveSeed, cfg))
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().StringVar(&serveSeed, "seed", "", "YAML lead seed file (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// buildHandler assembles the API and its metrics registry. Search is left
// unconfigured when there is no Google key.
func buildHandler(c *config.Config, seedPath string) (http.Handler, error) {
	store, err := initStore(seedPath)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		monitoring.NewLeadCollector(store),
	)
	metrics := monitoring.NewMetrics(reg)

	var searcher *discovery.Searcher
	if c.Google.Key != "" {
		searcher = initSearcher(c, metrics, nil)
	}

	return api.New(api.Config{
		Store:          store,
		Searcher:       searcher,
		Metrics:        metrics,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSOrigins:    c.Server.CORSOrigins,
		ConversionRate: c.Stats.ConversionRate,
	}), nil
}
