package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	token, err := s.auth.Login(r.Context(), req.Name, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	team, _ := currentTeam(r)
	writeJSON(w, http.StatusOK, team)
}

func (s *Server) handleTaskBoard(taskID int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := s.boards.TaskBoard(r.Context(), taskID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func (s *Server) handleCombinedBoard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.boards.CombinedBoard(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settings.Settings(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleMySubmissions(w http.ResponseWriter, r *http.Request) {
	team, _ := currentTeam(r)

	taskID := 0
	if raw := chi.URLParam(r, "taskID"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || (parsed != 1 && parsed != 2) {
			writeDetail(w, http.StatusBadRequest, "Invalid task id")
			return
		}
		taskID = parsed
	}

	subs, err := s.subs.History(r.Context(), team.ID, taskID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}
