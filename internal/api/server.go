// Package api exposes the optimizer over HTTP: submit a study against a
// built-in benchmark objective, list and fetch stored results, and serve
// Prometheus metrics.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/evobandits/gmab"
	"github.com/evobandits/gmab/bench"
	"github.com/evobandits/gmab/internal/store"
)

// Server is the gmab HTTP API server.
type Server struct {
	db  *store.DB
	log *zap.Logger
}

// NewServer creates an API server. db may be nil to disable persistence.
func NewServer(db *store.DB, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{db: db, log: logger}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/functions", s.handleListFunctions)
		r.Post("/studies", s.handleRunStudy)
		r.Get("/studies", s.handleListStudies)
		r.Get("/studies/{id}", s.handleGetStudy)
	})

	return r
}

// ─── Requests & Responses ───────────────────────────────────────────────────

// RunStudyRequest describes one optimization to execute.
type RunStudyRequest struct {
	Function string   `json:"function"`
	Bounds   [][2]int `json:"bounds"`
	Budget   int      `json:"budget"`
	TopK     int      `json:"top_k"`
	Seed     *int64   `json:"seed,omitempty"`
	Maximize bool     `json:"maximize"`

	// Engine overrides; zero values take the documented defaults.
	PopulationSize int     `json:"population_size,omitempty"`
	MutationRate   float64 `json:"mutation_rate,omitempty"`
	CrossoverRate  float64 `json:"crossover_rate,omitempty"`
	MutationSpan   float64 `json:"mutation_span,omitempty"`
}

// RunStudyResponse carries the ranked arms of a finished study.
type RunStudyResponse struct {
	ID      string           `json:"id"`
	Results []gmab.ArmResult `json:"results"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// ─── Handlers ───────────────────────────────────────────────────────────────

func (s *Server) handleListFunctions(w http.ResponseWriter, r *http.Request) {
	type fn struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	out := make([]fn, 0)
	for _, name := range bench.Names() {
		f, _ := bench.Lookup(name)
		out = append(out, fn{Name: f.Name, Description: f.Description})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRunStudy(w http.ResponseWriter, r *http.Request) {
	var req RunStudyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	fn, ok := bench.Lookup(req.Function)
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("unknown function: "+req.Function))
		return
	}

	cfg := gmab.DefaultConfig()
	if req.PopulationSize != 0 {
		cfg.PopulationSize = req.PopulationSize
	}
	if req.MutationRate != 0 {
		cfg.MutationRate = req.MutationRate
	}
	if req.CrossoverRate != 0 {
		cfg.CrossoverRate = req.CrossoverRate
	}
	if req.MutationSpan != 0 {
		cfg.MutationSpan = req.MutationSpan
	}

	engine, err := gmab.New(cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	bounds := make([]gmab.Bound, len(req.Bounds))
	for i, b := range req.Bounds {
		bounds[i] = gmab.Bound{Low: b[0], High: b[1]}
	}
	if req.TopK == 0 {
		req.TopK = 1
	}

	direction := 1.0
	if req.Maximize {
		direction = -1.0
	}
	objective := func(action []int) (float64, error) {
		evaluationsTotal.Inc()
		return direction * fn.Eval(action), nil
	}

	var seed *uint64
	if req.Seed != nil {
		u := uint64(*req.Seed)
		seed = &u
	}

	start := time.Now()
	results, err := engine.Optimize(objective, bounds, req.Budget, req.TopK, seed)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, gmab.ErrConfig) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}
	studyDuration.Observe(time.Since(start).Seconds())
	studiesTotal.WithLabelValues(fn.Name).Inc()

	// Report values in the caller's direction.
	for i := range results {
		results[i].MeanReward = direction * results[i].MeanReward
	}

	id := uuid.NewString()
	if s.db != nil {
		rec := store.StudyRecord{
			ID:       id,
			Function: fn.Name,
			Bounds:   req.Bounds,
			Budget:   req.Budget,
			TopK:     req.TopK,
			Seed:     req.Seed,
			Maximize: req.Maximize,
		}
		for i, arm := range results {
			rec.Arms = append(rec.Arms, store.ArmRecord{
				Rank:         i + 1,
				ActionVector: arm.ActionVector,
				MeanReward:   arm.MeanReward,
				NumPulls:     arm.NumPulls,
			})
		}
		if err := s.db.SaveStudy(rec); err != nil {
			s.log.Error("persist study", zap.String("id", id), zap.Error(err))
		}
	}

	s.log.Info("study finished",
		zap.String("id", id),
		zap.String("function", fn.Name),
		zap.Int("budget", req.Budget),
		zap.Float64("best_value", results[0].MeanReward),
	)
	writeJSON(w, http.StatusOK, RunStudyResponse{ID: id, Results: results})
}

func (s *Server) handleListStudies(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusNotFound, errors.New("persistence is disabled"))
		return
	}
	studies, err := s.db.ListStudies(50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if studies == nil {
		studies = []store.StudyRecord{}
	}
	writeJSON(w, http.StatusOK, studies)
}

func (s *Server) handleGetStudy(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusNotFound, errors.New("persistence is disabled"))
		return
	}
	id := chi.URLParam(r, "id")
	rec, err := s.db.GetStudy(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, errors.New("study not found"))
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
