// Package server exposes the room and draft managers over HTTP and
// websockets.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/config"
	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/draft"
	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/results"
	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/room"
)

var errUnknownCommand = errors.New("unknown command type")

// Server wires the HTTP API, the websocket feed and the archive queries.
type Server struct {
	rooms    *room.Manager
	drafts   *draft.Manager
	archive  *results.Archiver
	hub      *Hub
	cfg      config.ServerConfig
	defaults config.DraftConfig
	logger   *slog.Logger
}

// New returns a Server ready to serve its Router.
func New(rooms *room.Manager, drafts *draft.Manager, archive *results.Archiver, hub *Hub, cfg config.ServerConfig, defaults config.DraftConfig, logger *slog.Logger) *Server {
	return &Server{
		rooms:    rooms,
		drafts:   drafts,
		archive:  archive,
		hub:      hub,
		cfg:      cfg,
		defaults: defaults,
		logger:   logger,
	}
}

// Router builds the chi route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/rooms", s.handleCreateRoom)
		r.Route("/rooms/{roomID}", func(r chi.Router) {
			r.Get("/", s.handleGetRoom)
			r.Post("/join", s.handleJoinRoom)
			r.Post("/seats/{seat}", s.handleClaimSeat)
			r.Delete("/seats/{seat}", s.handleReleaseSeat)
			r.Post("/draft", s.handleStartDraft)
			r.Get("/state", s.handleGetState)
			r.Post("/bids", s.handleSubmitBid)
			r.Post("/pause", s.handlePause)
			r.Post("/resume", s.handleResume)
		})

		r.Get("/drafts", s.handleRecentDrafts)
		r.Get("/drafts/{draftID}", s.handleGetDraft)
		r.Get("/drafts/{draftID}/teams/{teamID}/roster", s.handleGetRoster)
	})

	r.Get("/ws/rooms/{roomID}", s.handleWS)

	return r
}

type createRoomRequest struct {
	HostName  string `json:"host_name"`
	TeamCount int    `json:"team_count"`
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if !s.decode(w, r, &req) {
		return
	}
	rm, host, err := s.rooms.Create(req.HostName, req.TeamCount)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]any{
		"room": rm,
		"host": host,
	})
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	rm, err := s.rooms.Get(chi.URLParam(r, "roomID"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, rm)
}

type joinRoomRequest struct {
	DisplayName string `json:"display_name"`
}

func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	var req joinRoomRequest
	if !s.decode(w, r, &req) {
		return
	}
	p, err := s.rooms.Join(chi.URLParam(r, "roomID"), req.DisplayName)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, p)
}

type seatRequest struct {
	PlayerID string `json:"player_id"`
}

func (s *Server) handleClaimSeat(w http.ResponseWriter, r *http.Request) {
	var req seatRequest
	if !s.decode(w, r, &req) {
		return
	}
	seat, err := strconv.Atoi(chi.URLParam(r, "seat"))
	if err != nil {
		s.respondError(w, room.ErrBadSeat)
		return
	}
	if err := s.rooms.ClaimSeat(chi.URLParam(r, "roomID"), req.PlayerID, seat); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReleaseSeat(w http.ResponseWriter, r *http.Request) {
	var req seatRequest
	if !s.decode(w, r, &req) {
		return
	}
	seat, err := strconv.Atoi(chi.URLParam(r, "seat"))
	if err != nil {
		s.respondError(w, room.ErrBadSeat)
		return
	}
	if err := s.rooms.ReleaseSeat(chi.URLParam(r, "roomID"), req.PlayerID, seat); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type startDraftRequest struct {
	PlayerID string         `json:"player_id"`
	Settings draft.Settings `json:"settings"`
}

// handleStartDraft locks the room's seating and launches the draft. Settings
// the host left at zero fall back to the configured defaults.
func (s *Server) handleStartDraft(w http.ResponseWriter, r *http.Request) {
	var req startDraftRequest
	if !s.decode(w, r, &req) {
		return
	}
	roomID := chi.URLParam(r, "roomID")

	settings := s.applyDefaults(req.Settings)

	seats, err := s.rooms.Lock(roomID, req.PlayerID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	state, err := s.drafts.StartDraft(r.Context(), roomID, req.PlayerID, seats, settings)
	if err != nil {
		s.rooms.Unlock(roomID)
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, state)
}

func (s *Server) applyDefaults(in draft.Settings) draft.Settings {
	if in.Generation == 0 {
		in.Generation = s.defaults.Generation
	}
	if in.BudgetPerTeam == 0 {
		in.BudgetPerTeam = s.defaults.BudgetPerTeam
	}
	if in.TotalLots == 0 {
		in.TotalLots = s.defaults.TotalLots
	}
	if in.SecondsPerBid == 0 {
		in.SecondsPerBid = s.defaults.SecondsPerBid
	}
	if in.BotDifficulty == 0 {
		in.BotDifficulty = s.defaults.BotDifficulty
	}
	return in
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	state, err := s.drafts.Snapshot(chi.URLParam(r, "roomID"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, state)
}

type bidRequest struct {
	PlayerID string `json:"player_id"`
	TeamID   string `json:"team_id"`
	Amount   int    `json:"amount"`
}

func (s *Server) handleSubmitBid(w http.ResponseWriter, r *http.Request) {
	var req bidRequest
	if !s.decode(w, r, &req) {
		return
	}
	roomID := chi.URLParam(r, "roomID")
	if err := s.drafts.SubmitBid(r.Context(), roomID, req.PlayerID, req.TeamID, req.Amount); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	var req seatRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.drafts.Pause(r.Context(), chi.URLParam(r, "roomID"), req.PlayerID); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	var req seatRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.drafts.Resume(r.Context(), chi.URLParam(r, "roomID"), req.PlayerID); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecentDrafts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	drafts, err := s.archive.Recent(r.Context(), limit)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, drafts)
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	draftID := chi.URLParam(r, "draftID")
	rec, err := s.archive.GetDraft(r.Context(), draftID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	teams, err := s.archive.TeamResults(r.Context(), draftID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"draft": rec,
		"teams": teams,
	})
}

func (s *Server) handleGetRoster(w http.ResponseWriter, r *http.Request) {
	roster, err := s.archive.Roster(r.Context(), chi.URLParam(r, "draftID"), chi.URLParam(r, "teamID"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, roster)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

// respondError maps domain errors onto HTTP status codes.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, room.ErrRoomNotFound), errors.Is(err, draft.ErrNoDraft):
		status = http.StatusNotFound
	case errors.Is(err, room.ErrNotHost), errors.Is(err, draft.ErrNotHost),
		errors.Is(err, draft.ErrNotYourTeam), errors.Is(err, room.ErrNotMember):
		status = http.StatusForbidden
	case errors.Is(err, room.ErrSeatTaken), errors.Is(err, room.ErrRoomLocked),
		errors.Is(err, draft.ErrDraftRunning), errors.Is(err, draft.ErrNotInLobby):
		status = http.StatusConflict
	case errors.Is(err, room.ErrBadSeat), errors.Is(err, room.ErrBadTeamCount),
		errors.Is(err, draft.ErrBadGeneration), errors.Is(err, draft.ErrBadParticipants),
		errors.Is(err, draft.ErrBadBudget), errors.Is(err, draft.ErrBadTotalLots),
		errors.Is(err, draft.ErrBadSecondsPerBid), errors.Is(err, draft.ErrSeatMismatch):
		status = http.StatusBadRequest
	case errors.Is(err, draft.ErrNoActiveLot), errors.Is(err, draft.ErrDraftPaused),
		errors.Is(err, draft.ErrBidOffStep), errors.Is(err, draft.ErrBidNotHigher),
		errors.Is(err, draft.ErrInsufficientBudget), errors.Is(err, draft.ErrAlreadyHighestBidder),
		errors.Is(err, draft.ErrUnknownTeam), errors.Is(err, draft.ErrDraftFinished):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.respondJSON(w, status, map[string]string{"error": err.Error()})
}
