package telemetry

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rileyhilliard/vdash/internal/errors"
	"github.com/rileyhilliard/vdash/internal/logger"
)

// MetricsPath is where the exporter serves metrics.
const MetricsPath = "/metrics"

// Handler returns an http.Handler exposing g at MetricsPath.
func Handler(g prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(MetricsPath, promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return mux
}

// Serve exposes g on addr until ctx is cancelled. An empty addr disables
// the exporter and returns immediately.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, log logger.Logger) error {
	if addr == "" {
		return nil
	}
	log = logger.OrDefault(log)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't start the metrics exporter on "+addr,
			"Pick a free port with --metrics-listen, or leave it empty to disable")
	}
	return serveListener(ctx, ln, g, log)
}

func serveListener(ctx context.Context, ln net.Listener, g prometheus.Gatherer, log logger.Logger) error {
	srv := &http.Server{
		Handler:           Handler(g),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Debug("metrics exporter listening on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("metrics exporter shutdown: %v", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.WrapWithCode(err, errors.ErrConfig, "Metrics exporter stopped", "")
	}
}
