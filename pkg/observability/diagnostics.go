package observability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// ErrNoMetricsHandler is returned when a diagnostics server is requested
// without a Prometheus handler to serve.
var ErrNoMetricsHandler = errors.New("prometheus export is disabled")

const (
	statusOK          = "ok"
	statusUnavailable = "unavailable"

	readHeaderTimeout = 5 * time.Second
)

// ReadyCheck reports whether a subsystem can serve; nil means ready.
type ReadyCheck func(ctx context.Context) error

// HealthHandler answers liveness probes with 200 {"status":"ok"}.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		writeStatus(rw, http.StatusOK, statusOK)
	})
}

// ReadyHandler answers readiness probes: 503 {"status":"unavailable"} as
// soon as one check fails, 200 {"status":"ok"} otherwise.
func ReadyHandler(checks ...ReadyCheck) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		for _, check := range checks {
			if check(req.Context()) != nil {
				writeStatus(rw, http.StatusServiceUnavailable, statusUnavailable)

				return
			}
		}

		writeStatus(rw, http.StatusOK, statusOK)
	})
}

func writeStatus(rw http.ResponseWriter, code int, status string) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(code)

	_ = json.NewEncoder(rw).Encode(map[string]string{"status": status}) //nolint:errchkjson // map of strings.
}

// DiagnosticsServer exposes /healthz, /readyz and the Prometheus /metrics
// endpoint of a Providers set.
type DiagnosticsServer struct {
	server   *http.Server
	listener net.Listener
}

// NewDiagnosticsServer starts serving at addr. Use ":0" for an ephemeral port.
func NewDiagnosticsServer(
	ctx context.Context, addr string, metrics http.Handler, logger *slog.Logger, checks ...ReadyCheck,
) (*DiagnosticsServer, error) {
	if metrics == nil {
		return nil, ErrNoMetricsHandler
	}

	mux := http.NewServeMux()
	mux.Handle("/healthz", HealthHandler())
	mux.Handle("/readyz", ReadyHandler(checks...))
	mux.Handle("/metrics", metrics)

	var lc net.ListenConfig

	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: readHeaderTimeout}

	go func() {
		serveErr := srv.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Warn("diagnostics server stopped", "error", serveErr)
		}
	}()

	logger.Info("diagnostics server listening", "addr", listener.Addr().String())

	return &DiagnosticsServer{server: srv, listener: listener}, nil
}

// Addr returns the address the server is listening on.
func (d *DiagnosticsServer) Addr() string {
	return d.listener.Addr().String()
}

// Close gracefully shuts down the server.
func (d *DiagnosticsServer) Close(ctx context.Context) error {
	err := d.server.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("shutdown diagnostics server: %w", err)
	}

	return nil
}
