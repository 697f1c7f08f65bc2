package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/adousti/vigil/internal/domain"
	apimw "github.com/adousti/vigil/internal/httpapi/middleware"
	"github.com/adousti/vigil/internal/repo"
)

// Server exposes the latest snapshot and the configured registry, read-only.
// The registry is immutable at runtime so there are no mutating routes.
type Server struct {
	Logger    *zap.Logger
	Targets   []domain.Target
	Snapshots repo.SnapshotStore
}

func NewServer(l *zap.Logger, targets []domain.Target, snapshots repo.SnapshotStore) *Server {
	return &Server{Logger: l, Targets: targets, Snapshots: snapshots}
}

func (s *Server) Router(keys []string, rpm, burst int) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(apimw.RateLimit(rpm, burst))
		r.Use(apimw.RequireKey(keys))
		r.Get("/api/status", s.handleStatus)
		r.Get("/api/targets", s.handleTargets)
	})

	return r
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	rep, err := s.Snapshots.Latest(r.Context())
	if err != nil {
		s.Logger.Warn("status_read_error", zap.Error(err))
		http.Error(w, `{"error":"snapshot read failed"}`, http.StatusInternalServerError)
		return
	}
	if rep == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"no snapshot yet"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rep)
}

func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.Targets)
}
