package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"roborock-cleaning-panel/internal/domain/model"
	"roborock-cleaning-panel/internal/domain/service"
)

func (s *Server) registerAdminRoutes(r chi.Router) {
	r.Get("/config", s.handleGetConfig)
	r.Post("/config", s.handleUpdateConfig)
	r.Get("/ha-entities", s.handleHAEntities)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.admin.GetConfig(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var cfg model.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.admin.UpdateConfig(r.Context(), &cfg); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrInvalidConfig) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}
	s.log.Info("config updated", "entity", cfg.Robot.EntityID, "areas", len(cfg.Areas))
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleHAEntities(w http.ResponseWriter, r *http.Request) {
	entities, err := s.admin.GetAllEntities(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, entities)
}
