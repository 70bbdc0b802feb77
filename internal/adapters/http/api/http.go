// Package api wires the dashboard's HTTP surface: path dispatch, parameter
// validation, the upstream table query, and static assets.
package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"icingview/internal/adapters/icinga"
	"icingview/internal/config"
	"icingview/internal/render"
	"icingview/pkg/logger"
	"icingview/pkg/metrics"
)

// Server dispatches every inbound request to one of the dashboard's
// handlers. All dependencies are injected at construction; the server
// itself holds no mutable state.
type Server struct {
	store   *config.Store
	icinga  *icinga.Client
	render  *render.Renderer
	log     logger.Logger
	metrics http.Handler
}

// NewServer creates the dashboard server.
func NewServer(store *config.Store, client *icinga.Client, log logger.Logger) *Server {
	return &Server{
		store:   store,
		icinga:  client,
		render:  render.New(log.Named("render")),
		log:     log,
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

// ServeHTTP resolves the route and runs the matching handler wrapped in
// the request middleware. The Server is mounted as the http.Server handler
// directly: dispatch happens on decoded path segments, not mux patterns,
// and a mux's path cleaning would redirect paths the router must see.
//
// Routing uses the escaped path so the router's own segment decoding is
// the only decode that ever runs; Go's URL parsing has already decoded
// r.URL.Path once.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt := resolveRoute(r.URL.EscapedPath())

	var handler http.HandlerFunc
	switch rt.kind {
	case routeIndex:
		handler = s.handleIndex
	case routeTable:
		handler = s.handleTable
	case routeStatic:
		handler = func(w http.ResponseWriter, r *http.Request) {
			s.handleStatic(w, r, rt.asset)
		}
	case routeMetrics:
		handler = s.metrics.ServeHTTP
	default:
		handler = s.handleNotFound
	}

	s.withRequestContext(handler, rt.kind.metricsLabel())(w, r)
}

// handleIndex serves the landing page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render.Index(r.Context(), w)
}

// handleNotFound serves the shared 404 for every unmapped path.
func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	s.render.NotFound(w)
}
