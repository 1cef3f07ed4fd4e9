package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"todoapi/internal/blob"
	"todoapi/internal/config"
	"todoapi/internal/core"
	"todoapi/internal/export"
	"todoapi/internal/httpapi"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server until SIGINT or SIGTERM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := a.load()
			if err != nil {
				return err
			}
			ln, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", cfg.Addr, err)
			}
			return a.serve(cmd.Context(), cfg, logger, ln)
		},
	}
}

// tracer streams spans to stderr when --trace or TODOAPI_TRACE is set and
// returns nil otherwise.
func (a *app) tracer() core.Tracer {
	if !a.v.GetBool("trace") {
		return nil
	}
	return core.NewJSONTracer(a.stderr)
}

// serve runs the API on ln until ctx is cancelled, then drains in-flight
// requests.
func (a *app) serve(ctx context.Context, cfg config.Config, logger *slog.Logger, ln net.Listener) error {
	repo, closeRepo, err := core.OpenRepository(ctx, cfg.Storage)
	if err != nil {
		_ = ln.Close()
		return err
	}
	defer func() {
		if err := closeRepo(); err != nil {
			logger.Warn("close repository", "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promRecorder, err := core.NewPrometheusMetricsRecorder(reg)
	if err != nil {
		_ = ln.Close()
		return err
	}
	svcOpts := []core.ServiceOption{
		core.WithLogger(logger),
		core.WithMetricsRecorder(core.CombineMetricsRecorders(promRecorder, core.NewExpvarMetricsRecorder(""))),
	}
	svc := core.NewService(repo, append(svcOpts, core.WithTracer(a.tracer()))...)

	handlerOpts := []httpapi.Option{httpapi.WithLogger(logger), httpapi.WithRegistry(reg)}
	if cfg.Blob.Enabled() {
		store, err := blob.Open(ctx, cfg.Blob)
		if err != nil {
			_ = ln.Close()
			return err
		}
		handlerOpts = append(handlerOpts, httpapi.WithExporter(export.NewExporter(svc, store)))
	}
	handler, err := httpapi.NewHandler(svc, handlerOpts...)
	if err != nil {
		_ = ln.Close()
		return err
	}

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	logger.Info("listening", "addr", ln.Addr().String(), "storage", string(cfg.Storage.Driver), "blob", cfg.Blob.Driver)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
