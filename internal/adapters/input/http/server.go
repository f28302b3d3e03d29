package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"roborock-cleaning-panel/internal/ports"
)

type Server struct {
	panel   ports.PanelPort
	admin   ports.AdminPort
	bridge  ports.BridgePort
	metrics http.Handler
	ip      string
	port    int
	log     *slog.Logger
}

// NewServer builds the HTTP surface. ip and port are what voice clients
// are told to call back on.
func NewServer(panel ports.PanelPort, admin ports.AdminPort, bridge ports.BridgePort, metrics http.Handler, ip string, port int, log *slog.Logger) *Server {
	if port == 0 {
		port = 80
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		panel:   panel,
		admin:   admin,
		bridge:  bridge,
		metrics: metrics,
		ip:      ip,
		port:    port,
		log:     log,
	}
}

func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/panel", s.registerPanelRoutes)
	r.Route("/admin", s.registerAdminRoutes)
	s.registerHueRoutes(r)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
