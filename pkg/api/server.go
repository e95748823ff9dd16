package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/loopcast/loopcast/pkg/config"
	"github.com/loopcast/loopcast/pkg/orchestrator"
	"github.com/loopcast/loopcast/pkg/telemetry"
)

const serverHeader = "Loopcast"

// Config holds the administrative server configuration.
type Config struct {
	// ListenAddress is the address the admin API listens on.
	ListenAddress string

	// AccessToken authorizes administrative requests. An empty token
	// refuses every request; the API never runs open.
	AccessToken string

	// CrossDomains are the origins allowed by CORS. Empty allows none.
	CrossDomains []string
}

// Server is the administrative HTTP server.
type Server struct {
	logger  zerolog.Logger
	cfg     Config
	orch    *orchestrator.Orchestrator
	metrics *telemetry.Metrics

	treeMu sync.RWMutex
	tree   *config.Node

	httpServer *http.Server
}

// NewServer creates the administrative server. tree is the frozen effective
// server configuration served by GET /v1/config; metrics may be nil.
func NewServer(logger zerolog.Logger, cfg Config, orch *orchestrator.Orchestrator, tree *config.Node, metrics *telemetry.Metrics) *Server {
	s := &Server{
		logger:  logger.With().Str("component", "api").Logger(),
		cfg:     cfg,
		orch:    orch,
		tree:    tree,
		metrics: metrics,
	}
	s.httpServer = &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// SwapTree replaces the effective configuration served by GET /v1/config.
// A reload installs the freshly bound, frozen tree here.
func (s *Server) SwapTree(tree *config.Node) {
	s.treeMu.Lock()
	s.tree = tree
	s.treeMu.Unlock()
}

func (s *Server) currentTree() *config.Node {
	s.treeMu.RLock()
	defer s.treeMu.RUnlock()
	return s.tree
}

// Handler returns the routed admin API handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/vhosts", s.handleCreateVirtualHost)
	mux.HandleFunc("DELETE /v1/vhosts/{name}", s.handleDeleteVirtualHost)
	mux.HandleFunc("GET /v1/vhosts", s.handleListVirtualHosts)
	mux.HandleFunc("GET /v1/vhosts/{name}", s.handleGetVirtualHost)
	mux.HandleFunc("GET /v1/config", s.handleGetConfig)

	var h http.Handler = mux
	h = s.auth(h)
	h = s.cors(h)
	h = s.defaultHeaders(h)
	h = s.instrument(h)
	return h
}

// Start runs the server until the context is cancelled, then shuts it down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.ListenAddress).Msg("Admin API listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
