package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/storagegate/devauth"
	"github.com/storagegate/devauth/cache"
	"github.com/storagegate/devauth/config"
)

const tracerName = "github.com/storagegate/devauth"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the token gate in front of a storage server",
	Long: `Starts an HTTP server that checks the token of every request and proxies
admitted requests to the upstream storage server. /metrics and /healthcheck
are served without a token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closer, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closer.Close()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		handler, err := newHandler(cfg, store, logger, reg)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              cfg.Bind,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ErrorLog:          log.New(logger.WriterLevel(logrus.ErrorLevel), "", 0),
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.WithFields(logrus.Fields{
				"bind":     cfg.Bind,
				"upstream": cfg.Upstream,
				"backend":  cfg.CacheBackend,
			}).Info("devauth listening")
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)
		case sig := <-shutdown:
			logger.WithField("signal", sig.String()).Info("shutting down gracefully")
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				srv.Close()
				return fmt.Errorf("could not stop server gracefully: %w", err)
			}
		}
		return nil
	},
}

// newHandler wires the gate in front of a reverse proxy to cfg.Upstream.
func newHandler(cfg config.Config, store cache.Store, logger *logrus.Logger, reg *prometheus.Registry) (http.Handler, error) {
	upstream, err := url.Parse(cfg.Upstream)
	if err != nil || upstream.Scheme == "" || upstream.Host == "" {
		return nil, fmt.Errorf("invalid upstream %q", cfg.Upstream)
	}
	proxy := httputil.NewSingleHostReverseProxy(upstream)
	proxy.ErrorLog = log.New(logger.WriterLevel(logrus.WarnLevel), "proxy: ", 0)

	gate, err := devauth.NewFromSettings(cfg, store,
		devauth.WithLogger(devauth.NewLogrusLogger(logger)),
		devauth.WithMetrics(devauth.NewPrometheusMetrics(reg)),
		devauth.WithTracer(devauth.NewOpenTelemetryTracer(otel.Tracer(tracerName))),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gate: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})
	mux.Handle("/", gate.CheckAuth(proxy))
	return mux, nil
}
