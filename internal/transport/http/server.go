package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"compboard/internal/app"
	"compboard/internal/auth"
	"compboard/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// BoardProvider serves ranked boards; either the leaderboard service directly
// or the Redis snapshot cache decorating it.
type BoardProvider interface {
	TaskBoard(ctx context.Context, taskID int) ([]domain.LeaderboardEntry, error)
	CombinedBoard(ctx context.Context) ([]domain.CombinedLeaderboardEntry, error)
}

// Server mounts the /api contract over the application services.
type Server struct {
	auth     *app.AuthService
	boards   BoardProvider
	settings *app.LeaderboardService
	subs     *app.SubmissionService
	teams    *app.TeamService
	qa       *app.QAService
	tokens   *auth.TokenService
	hub      *app.UpdateHub
	upgrader websocket.Upgrader
}

func NewServer(
	authSvc *app.AuthService,
	boards BoardProvider,
	settings *app.LeaderboardService,
	subs *app.SubmissionService,
	teams *app.TeamService,
	qa *app.QAService,
	tokens *auth.TokenService,
	hub *app.UpdateHub,
) *Server {
	return &Server{
		auth:     authSvc,
		boards:   boards,
		settings: settings,
		subs:     subs,
		teams:    teams,
		qa:       qa,
		tokens:   tokens,
		hub:      hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)

		r.Get("/leaderboard/task1", s.handleTaskBoard(1))
		r.Get("/leaderboard/task2", s.handleTaskBoard(2))
		r.Get("/leaderboard/combined", s.handleCombinedBoard)
		r.Get("/leaderboard/settings", s.handleSettings)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/auth/me", s.handleMe)
			r.Get("/teams/me/submissions", s.handleMySubmissions)
			r.Get("/teams/me/submissions/{taskID}", s.handleMySubmissions)
			r.Get("/ws/leaderboard", s.handleBoardStream)

			r.Get("/qa/questions", s.handleListQuestions)
			r.Post("/qa/questions", s.handleCreateQuestion)
			r.Get("/qa/questions/{id}", s.handleGetQuestion)
			r.Post("/qa/questions/{id}/answers", s.handleCreateAnswer)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAdmin)

				r.Delete("/qa/questions/{id}", s.handleDeleteQuestion)
				r.Delete("/qa/answers/{id}", s.handleDeleteAnswer)

				r.Get("/admin/teams", s.handleListTeams)
				r.Post("/admin/teams", s.handleCreateTeam)
				r.Delete("/admin/teams/{id}", s.handleDeleteTeam)
				r.Post("/admin/teams/batch", s.handleBatchImport)

				r.Get("/admin/submissions", s.handleAllSubmissions)
				r.Delete("/admin/submissions/{id}", s.handleDeleteSubmission)

				r.Get("/admin/settings/leaderboard", s.handleSettings)
				r.Post("/admin/settings/leaderboard", s.handleUpdateSettings)
				r.Post("/admin/calculate-private-leaderboard", s.handleRecompute)
				r.Post("/admin/password/change", s.handleChangePassword)
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	return r
}

type contextKey string

const teamContextKey contextKey = "current-team"

// requireAuth validates the bearer token and loads the calling team into the
// request context. Websocket clients may pass the token as a query parameter.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		teamID, err := s.tokens.ValidateToken(token)
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		team, err := s.auth.CurrentTeam(r.Context(), teamID)
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		ctx := context.WithValue(r.Context(), teamContextKey, team)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		team, ok := currentTeam(r)
		if !ok || !team.IsAdmin {
			writeDetail(w, http.StatusForbidden, "Admin privileges required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

func currentTeam(r *http.Request) (domain.Team, bool) {
	team, ok := r.Context().Value(teamContextKey).(domain.Team)
	return team, ok
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

// writeDetail emits the {"detail": "..."} error envelope the dashboard expects.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeServiceError maps domain errors onto contract status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeDetail(w, http.StatusBadRequest, "Incorrect team name or password")
	case errors.Is(err, domain.ErrTeamExists):
		writeDetail(w, http.StatusBadRequest, "Team already registered")
	case errors.Is(err, domain.ErrTeamNotFound):
		writeDetail(w, http.StatusNotFound, "Team not found")
	case errors.Is(err, domain.ErrSubmissionNotFound):
		writeDetail(w, http.StatusNotFound, "Submission not found")
	case errors.Is(err, domain.ErrQuestionNotFound):
		writeDetail(w, http.StatusNotFound, "Question not found")
	case errors.Is(err, domain.ErrAnswerNotFound):
		writeDetail(w, http.StatusNotFound, "Answer not found")
	case errors.Is(err, domain.ErrAdminRequired):
		writeDetail(w, http.StatusForbidden, "Admin privileges required")
	case errors.Is(err, domain.ErrRecomputeRunning):
		writeDetail(w, http.StatusConflict, "Private leaderboard recompute already running")
	case errors.Is(err, domain.ErrPasswordPolicy):
		writeDetail(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}
