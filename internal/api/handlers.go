package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/verte-zerg/typemaster/internal/account"
	"github.com/verte-zerg/typemaster/internal/leaderboard"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/progress"
)

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "type", "error", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: false,
		Error:   &apiError{Code: code, Message: message},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "type", "error", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

type leaderboardResponse struct {
	Entries []leaderboard.Ranked `json:"entries"`
	Total   int                  `json:"total"`
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	top := 0
	if raw := r.URL.Query().Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid_top", "top must be a non-negative integer")
			return
		}
		top = n
	}
	board, err := s.backend.Leaderboard(r.Context())
	if err != nil {
		slog.Error("failed to load leaderboard", "type", "error", "error", err)
		respondError(w, http.StatusServiceUnavailable, "storage_unavailable", "leaderboard is unavailable")
		return
	}
	var entries []leaderboard.Ranked
	if q := r.URL.Query().Get("q"); q != "" {
		entries = board.Find(q)
		if top > 0 && len(entries) > top {
			entries = entries[:top]
		}
	} else {
		entries = board.Top(top)
	}
	if entries == nil {
		entries = []leaderboard.Ranked{}
	}
	respondJSON(w, http.StatusOK, leaderboardResponse{Entries: entries, Total: board.Len()})
}

type userResponse struct {
	User       model.UserRecord           `json:"user"`
	Rank       int                        `json:"rank"`
	Progress   progress.Progress          `json:"progress"`
	Milestones []progress.MilestoneStatus `json:"milestones"`
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	user, err := s.backend.User(r.Context(), username)
	if err != nil {
		slog.Error("failed to load user", "type", "error", "error", err, "user", username)
		respondError(w, http.StatusServiceUnavailable, "storage_unavailable", "user lookup is unavailable")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}
	d, err := s.backend.Dashboard(r.Context(), *user)
	if err != nil {
		slog.Error("failed to load dashboard", "type", "error", "error", err, "user", username)
		respondError(w, http.StatusServiceUnavailable, "storage_unavailable", "user lookup is unavailable")
		return
	}
	respondJSON(w, http.StatusOK, userResponse{
		User:       account.Public(d.User),
		Rank:       d.Rank,
		Progress:   d.Progress,
		Milestones: d.Milestones,
	})
}

func (s *Server) handleMilestones(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, progress.Milestones)
}
