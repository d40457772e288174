package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/exor2008/koldun/game/config"
	"github.com/exor2008/koldun/game/runtime"
	"github.com/exor2008/koldun/game/service"
	"github.com/exor2008/koldun/game/session"
	"github.com/exor2008/koldun/transport/websocket"
)

// maxWait bounds the wait_ms of a press request.
const maxWait = 5 * time.Second

// Server represents the REST API server
type Server struct {
	service  service.GameService
	hub      *websocket.Hub
	gatherer prometheus.Gatherer
	router   *mux.Router
}

// NewServer creates a new API server. A nil hub disables /ws; a nil gatherer
// serves the default Prometheus registry on /metrics.
func NewServer(gameService service.GameService, hub *websocket.Hub, gatherer prometheus.Gatherer) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	s := &Server{
		service:  gameService,
		hub:      hub,
		gatherer: gatherer,
		router:   mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Input and observation
	api.HandleFunc("/sessions/{id}/buttons/{button}", s.handleButton).Methods("POST")
	api.HandleFunc("/sessions/{id}/press", s.handlePress).Methods("POST")
	api.HandleFunc("/sessions/{id}/board", s.handleBoard).Methods("GET")
	api.HandleFunc("/sessions/{id}/screen.png", s.handleScreen).Methods("GET")

	// Levels
	api.HandleFunc("/levels", s.handleListLevels).Methods("GET")
	api.HandleFunc("/levels", s.handleSaveLevel).Methods("POST")
	api.HandleFunc("/levels/{id}", s.handleGetLevel).Methods("GET")

	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{"error": message, "code": status})
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, config.ErrLevelNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUnknownButton), errors.Is(err, service.ErrTooManyPresses),
		errors.Is(err, config.ErrInvalidLevel), errors.Is(err, session.ErrInvalidSessionID):
		return http.StatusBadRequest
	case errors.Is(err, config.ErrReadOnly), errors.Is(err, session.ErrSessionAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, session.ErrTooManySessions):
		return http.StatusTooManyRequests
	case errors.Is(err, runtime.ErrStopped):
		return http.StatusGone
	}
	return http.StatusInternalServerError
}

func fail(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Level string `json:"level,omitempty"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	info, err := s.service.CreateSession(r.Context(), req.Level)
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		fail(w, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}
		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			sessions = sessions[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Input Handlers

func (s *Server) handleButton(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	result, err := s.service.Press(r.Context(), vars["id"], vars["button"])
	if err != nil {
		fail(w, err)
		return
	}
	logPress(vars["id"], result)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handlePress(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	var req struct {
		Buttons []string `json:"buttons"`
		WaitMS  int      `json:"wait_ms,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Buttons) == 0 {
		respondError(w, http.StatusBadRequest, "buttons is required")
		return
	}

	wait := time.Duration(req.WaitMS) * time.Millisecond
	if wait > maxWait {
		wait = maxWait
	}
	result, err := s.service.PressSequence(r.Context(), sessionID, req.Buttons, wait)
	if err != nil {
		fail(w, err)
		return
	}
	logPress(sessionID, result)
	respondJSON(w, http.StatusOK, result)
}

// logPress writes a compact line per input request.
func logPress(sessionID string, result *service.PressResult) {
	board := result.Board
	where := "-"
	if board.Wizard != nil {
		where = fmt.Sprintf("(%d,%d)", board.Wizard.X, board.Wizard.Y)
	}
	log.Printf("[PRESS] session=%s buttons=%s state=%s wizard=%s blocked=%t",
		sessionID, strings.Join(result.Buttons, ","), board.State, where, board.Blocked)
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	board, err := s.service.GetBoard(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, board)
}

func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.Screen(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Level Handlers

func (s *Server) handleListLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := s.service.ListLevels(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, levels)
}

func (s *Server) handleGetLevel(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(mux.Vars(r)["id"], ".yaml")
	cfg, err := s.service.LoadLevel(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleSaveLevel(w http.ResponseWriter, r *http.Request) {
	var cfg config.LevelConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if cfg.ID == "" {
		respondError(w, http.StatusBadRequest, "Level id is required")
		return
	}

	if err := s.service.SaveLevel(r.Context(), &cfg); err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Level saved successfully",
		"level_id": cfg.ID,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "websocket disabled", http.StatusNotFound)
		return
	}
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	info, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, info.ID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
