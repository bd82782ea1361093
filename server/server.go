package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"eldtrip/backend/geo"
	"eldtrip/backend/model"
	"eldtrip/backend/planner"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eldtrip_http_requests_total",
		Help: "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "code"})

	planDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "eldtrip_plan_trip_duration_seconds",
		Help:    "End-to-end trip planning latency.",
		Buckets: prometheus.DefBuckets,
	})
)

// TripPlanner is what the HTTP layer needs from the planning pipeline.
type TripPlanner interface {
	PlanTrip(ctx context.Context, req model.TripRequest) (*model.TripPlan, error)
}

// Suggester serves location autocomplete.
type Suggester interface {
	Suggest(ctx context.Context, query string) ([]geo.Suggestion, error)
}

// Server is the HTTP surface over the planner.
type Server struct {
	planner TripPlanner
	suggest Suggester
	log     *zap.SugaredLogger
}

// New builds a server. suggest may be nil to disable autocomplete.
func New(p TripPlanner, suggest Suggester, log *zap.SugaredLogger) *Server {
	return &Server{planner: p, suggest: suggest, log: log}
}

// Router builds the route table with CORS, request-ID and metrics middleware.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.corsMiddleware, s.requestIDMiddleware, s.observeMiddleware)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/plan-trip/", s.handlePlanTrip).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/health/", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/autocomplete/", s.handleAutocomplete).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}

func (s *Server) handlePlanTrip(w http.ResponseWriter, r *http.Request) {
	var req model.TripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	started := time.Now()
	plan, err := s.planner.PlanTrip(r.Context(), req)
	planDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		var perr *planner.Error
		if errors.As(err, &perr) {
			writeError(w, http.StatusUnprocessableEntity, perr.Error())
			return
		}
		s.log.Errorw("plan-trip internal error", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	if s.suggest == nil {
		writeJSON(w, http.StatusOK, []geo.Suggestion{})
		return
	}
	q := r.URL.Query().Get("q")
	suggestions, err := s.suggest.Suggest(r.Context(), q)
	if err != nil {
		// best-effort endpoint; degrade to empty
		suggestions = []geo.Suggestion{}
	}
	writeJSON(w, http.StatusOK, suggestions)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) observeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		started := time.Now()
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.code)).Inc()
		s.log.Infow("request",
			"method", r.Method,
			"path", r.URL.Path,
			"code", rec.code,
			"duration_ms", time.Since(started).Milliseconds(),
			"request_id", w.Header().Get("X-Request-ID"),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
