package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"roborock-cleaning-panel/internal/domain/model"
	"roborock-cleaning-panel/internal/domain/robot"
	"roborock-cleaning-panel/internal/domain/session"
)

type valueRequest struct {
	Value json.RawMessage `json:"value"`
}

type roomsRequest struct {
	Rooms []string `json:"rooms"`
}

type setter func(ctx context.Context, value string) (*model.PanelView, error)

func (s *Server) registerPanelRoutes(r chi.Router) {
	r.Get("/", s.handleView)
	r.Get("/status", s.handleStatus)
	r.Post("/open", s.handleOpen)
	r.Post("/close", s.handleClose)
	r.Post("/run", s.handleRun)
	r.Post("/run-all", s.handleRunAll)

	r.Put("/cleaning-mode", s.handleSet(s.panel.SetCleaningMode))
	r.Put("/suction-mode", s.handleSet(s.panel.SetSuctionMode))
	r.Put("/mop-mode", s.handleSet(s.panel.SetMopMode))
	r.Put("/route-mode", s.handleSet(s.panel.SetRouteMode))
	r.Put("/cycles", s.handleSet(s.panel.SetCycles))
	r.Put("/rooms", s.handleSelectRooms)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	view, err := s.panel.View(r.Context())
	s.writeView(w, view, err)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.panel.Status(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	view, err := s.panel.Open(r.Context())
	s.writeView(w, view, err)
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	view, err := s.panel.Close(r.Context())
	s.writeView(w, view, err)
}

func (s *Server) handleSet(set setter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req valueRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		value, err := decodeValue(req.Value)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		view, err := set(r.Context(), value)
		s.writeView(w, view, err)
	}
}

func (s *Server) handleSelectRooms(w http.ResponseWriter, r *http.Request) {
	var req roomsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	view, err := s.panel.SelectRooms(r.Context(), req.Rooms)
	s.writeView(w, view, err)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	s.finishRun(w, r, s.panel.Run(r.Context()))
}

func (s *Server) handleRunAll(w http.ResponseWriter, r *http.Request) {
	s.finishRun(w, r, s.panel.RunAll(r.Context()))
}

func (s *Server) finishRun(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		s.log.Warn("run rejected", "path", r.URL.Path, "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	view, err := s.panel.View(r.Context())
	s.writeView(w, view, err)
}

func (s *Server) writeView(w http.ResponseWriter, view *model.PanelView, err error) {
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// decodeValue accepts both "2" and 2, so cycles can be sent as a number.
func decodeValue(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", errors.New("missing value")
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str, nil
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		return num.String(), nil
	}
	return "", fmt.Errorf("value must be a string or a number")
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidMode),
		errors.Is(err, model.ErrInvalidCycles),
		errors.Is(err, session.ErrUnsupportedMode),
		errors.Is(err, session.ErrInvalidRoomID):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrRunInProgress):
		return http.StatusConflict
	case errors.Is(err, robot.ErrNotInitialized):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
