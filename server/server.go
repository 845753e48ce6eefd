// Package server exposes route generation and simulation over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rhartert/tradeways/logging"
	"github.com/rhartert/tradeways/network"
	"github.com/rhartert/tradeways/output"
	"github.com/rhartert/tradeways/routing"
	"github.com/rhartert/tradeways/sim"
	"github.com/rhartert/tradeways/source"
	"github.com/rhartert/tradeways/trip"
	"github.com/rs/cors"
)

// maxBodyBytes bounds the size of request bodies.
const maxBodyBytes = 1 << 16

// RunStore persists simulation runs.
type RunStore interface {
	SaveRun(ctx context.Context, res *sim.Result, runErr error) (int64, error)
	Runs(ctx context.Context) ([]output.Run, error)
	Days(ctx context.Context, runID int64) ([]sim.DayRecord, error)
}

// Options configures a Server.
type Options struct {
	// AllowedOrigins of cross-origin requests. Nil allows all origins.
	AllowedOrigins []string

	// Store, if not nil, records every simulation.
	Store RunStore

	Logger *slog.Logger
}

// Server serves the API of a planner.
type Server struct {
	planner *trip.Planner
	store   RunStore
	logger  *slog.Logger
	handler http.Handler
}

// New returns a server for planner p.
func New(p *trip.Planner, opts Options) *Server {
	s := &Server{
		planner: p,
		store:   opts.Store,
		logger:  logging.OrDiscard(opts.Logger),
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/hubs", s.hubs).Methods(http.MethodGet)
	api.HandleFunc("/edges", s.edges).Methods(http.MethodGet)
	api.HandleFunc("/routes", s.routes).Methods(http.MethodPost)
	api.HandleFunc("/simulate", s.simulate).Methods(http.MethodPost)
	api.HandleFunc("/runs", s.runs).Methods(http.MethodGet)
	api.HandleFunc("/runs/{id:[0-9]+}/days", s.days).Methods(http.MethodGet)

	origins := opts.AllowedOrigins
	if origins == nil {
		origins = []string{"*"}
	}
	s.handler = cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(r)
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// TripRequest asks for the routes, or the simulation of a route, between
// two hubs.
type TripRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`

	// Route is the index of the route to simulate. If nil, the route is
	// picked at random.
	Route *int `json:"route,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"hubs":   s.planner.Graph().NumHubs(),
		"edges":  s.planner.Graph().NumEdges(),
	})
}

func (s *Server) hubs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, source.HubsFeatureCollection(s.planner.Graph()))
}

func (s *Server) edges(w http.ResponseWriter, _ *http.Request) {
	g := s.planner.Graph()
	edges := make([]*network.Edge, g.NumEdges())
	for i := range edges {
		edges[i] = g.Edge(i)
	}
	writeJSON(w, http.StatusOK, source.EdgesFeatureCollection(g, edges))
}

func (s *Server) routes(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeTrip(w, r)
	if !ok {
		return
	}
	rs, err := s.planner.Routes(req.Start, req.End)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, output.Summarize(rs))
}

func (s *Server) simulate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeTrip(w, r)
	if !ok {
		return
	}
	pick := -1
	if req.Route != nil {
		if *req.Route < 0 {
			writeJSON(w, http.StatusBadRequest, errorBody("route must be non-negative"))
			return
		}
		pick = *req.Route
	}

	report, err := s.planner.Simulate(r.Context(), req.Start, req.End, pick)
	if report != nil && report.Result != nil && s.store != nil {
		if _, serr := s.store.SaveRun(r.Context(), report.Result, err); serr != nil {
			s.logger.Error("failed to save run", "error", serr)
		}
	}
	if err != nil {
		var stalled *sim.StalledSimulationError
		if errors.As(err, &stalled) && report != nil {
			writeJSON(w, http.StatusUnprocessableEntity, report)
			return
		}
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) runs(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusNotFound, errorBody("no run store configured"))
		return
	}
	runs, err := s.store.Runs(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs, "count": len(runs)})
}

func (s *Server) days(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusNotFound, errorBody("no run store configured"))
		return
	}
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid run id"))
		return
	}
	days, err := s.store.Days(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"days": days})
}

func decodeTrip(w http.ResponseWriter, r *http.Request) (TripRequest, bool) {
	var req TripRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("request body too large"))
			return req, false
		}
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return req, false
	}
	if req.Start == "" || req.End == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("start and end are required"))
		return req, false
	}
	return req, true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var noRoute *routing.NoRouteError
	switch {
	case errors.As(err, &noRoute):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, trip.ErrRouteOutOfRange):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusServiceUnavailable, errorBody(err.Error()))
	default:
		s.logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
	}
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) // the status is already sent
}
