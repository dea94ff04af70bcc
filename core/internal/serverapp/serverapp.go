package serverapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"universal-harvester/analyzers/report"
	"universal-harvester/core/internal/coordinator"
	"universal-harvester/core/internal/store"
	"universal-harvester/harvesters"
)

// Runner triggers harvest batches; satisfied by the coordinator.
type Runner interface {
	Run(ctx context.Context, selector string) (coordinator.Batch, error)
}

// RecordReader is the read side of the harvest store.
type RecordReader interface {
	Latest(ctx context.Context, src harvesters.Source) (*harvesters.Record, error)
	Query(ctx context.Context, f store.Filter) ([]harvesters.Record, error)
}

type Server struct {
	coord   Runner
	store   RecordReader
	sources []harvesters.Source
	log     *zap.Logger
}

func New(coord Runner, st RecordReader, sources []harvesters.Source, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if len(sources) == 0 {
		sources = harvesters.AllSources()
	}
	return &Server{coord: coord, store: st, sources: sources, log: log}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/harvest", s.handleHarvest)
	mux.HandleFunc("/report", s.handleReport)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	latest := make([]harvesters.Record, 0, len(s.sources))
	for _, src := range s.sources {
		rec, err := s.store.Latest(r.Context(), src)
		if err != nil {
			s.log.Error("latest lookup failed", zap.String("source", string(src)), zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if rec != nil {
			latest = append(latest, *rec)
		}
	}
	writeJSON(w, http.StatusOK, latest)
}

type harvestRequest struct {
	Type string `json:"type"`
}

func (s *Server) handleHarvest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req harvestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if req.Type == "" {
		req.Type = coordinator.SelectorAll
	}
	if req.Type != coordinator.SelectorAll {
		if _, err := harvesters.ParseSource(req.Type); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}

	batch, err := s.coord.Run(r.Context(), req.Type)
	if err != nil {
		var serr *store.StorageError
		if errors.As(err, &serr) {
			s.log.Error("harvest aborted by storage failure", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	// Partial and all-failed batches are still 200: the batch itself
	// carries per-record status.
	writeJSON(w, http.StatusOK, batch)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	records, err := s.store.Query(r.Context(), store.Filter{})
	if err != nil {
		s.log.Error("report query failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, report.Build(records, s.sources))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
