package http

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type createQuestionRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type createAnswerRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := s.qa.Questions(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "Invalid question id")
		return
	}
	question, err := s.qa.Question(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

func (s *Server) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	team, _ := currentTeam(r)

	var req createQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" || req.Content == "" {
		writeDetail(w, http.StatusBadRequest, "Title and content are required")
		return
	}
	question, err := s.qa.Ask(r.Context(), team.ID, req.Title, req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

func (s *Server) handleCreateAnswer(w http.ResponseWriter, r *http.Request) {
	team, _ := currentTeam(r)

	id, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "Invalid question id")
		return
	}
	var req createAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Content == "" {
		writeDetail(w, http.StatusBadRequest, "Content is required")
		return
	}
	answer, err := s.qa.Answer(r.Context(), id, team.ID, req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "Invalid question id")
		return
	}
	if err := s.qa.DeleteQuestion(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Question %d deleted", id),
	})
}

func (s *Server) handleDeleteAnswer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "Invalid answer id")
		return
	}
	if err := s.qa.DeleteAnswer(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Answer %d deleted", id),
	})
}
