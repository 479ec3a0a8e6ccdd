package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/quantic-msse0726/policy-rag-app/internal/answer"
	"github.com/quantic-msse0726/policy-rag-app/internal/embedding"
	"github.com/quantic-msse0726/policy-rag-app/internal/vectorindex"
)

const minQuestionChars = 3

type chatRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	question := strings.TrimSpace(req.Question)
	if len(question) < minQuestionChars {
		jsonError(w, "question must be at least 3 characters", http.StatusBadRequest)
		return
	}

	resp, err := s.answerer.Answer(r.Context(), question)
	if err != nil {
		s.log.Error("answer failed", "error", err)
		jsonError(w, "failed to answer question", errorStatus(err))
		return
	}

	s.stats.Record(resp.LatencyMS)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleChatStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.stats.Snapshot())
}

// errorStatus maps pipeline failures to status codes. External-service
// faults are upstream errors; anything else is a server error.
func errorStatus(err error) int {
	var se *embedding.ServiceError
	var ie *vectorindex.StoreError
	var ge *answer.GenerationError
	if errors.As(err, &se) || errors.As(err, &ie) || errors.As(err, &ge) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
