package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/moodlift/moodlift/internal/app/coach"
	"github.com/moodlift/moodlift/internal/domain"
)

// --- POST /api/users ---

type signupRequest struct {
	Username string `json:"username"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	u, err := s.accounts.Register(req.Username)
	switch {
	case errors.Is(err, domain.ErrEmptyName):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, domain.ErrUserExists):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, u)
}

// --- GET /api/users/{userID} ---

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.accounts.Lookup(chi.URLParam(r, "userID"))
	if errors.Is(err, domain.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// --- GET /api/users/{userID}/schedule ---
// Today's schedule. Unknown users still get a playable default (day 1,
// cohort A): the schedule path never fails outward.

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	sched := s.schedules.Today(chi.URLParam(r, "userID"))
	writeJSON(w, http.StatusOK, sched)
}

// --- GET /api/users/{userID}/stats ---

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snapshot := s.statistics.Get(chi.URLParam(r, "userID"))
	writeJSON(w, http.StatusOK, snapshot)
}

// --- POST /api/users/{userID}/activities ---

type activityRequest struct {
	TaskType   string `json:"task_type"`
	ReactionMS *int   `json:"reaction_ms,omitempty"`
	Outcome    bool   `json:"outcome"`
}

func (s *Server) handleRecordActivity(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	u, err := s.accounts.Lookup(userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	id, err := s.recorder.RecordActivity(domain.ActivityResult{
		UserID:     u.ID,
		Username:   u.Username,
		TaskType:   domain.TaskType(req.TaskType),
		ReactionMS: req.ReactionMS,
		Outcome:    req.Outcome,
	})
	if errors.Is(err, domain.ErrUnknownTaskType) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id": id,
	})
}

// --- POST /api/users/{userID}/mood ---

type moodRequest struct {
	Emotion string   `json:"emotion"`
	Reasons []string `json:"reasons,omitempty"`
}

func (s *Server) handleRecordMood(w http.ResponseWriter, r *http.Request) {
	var req moodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Emotion == "" {
		writeError(w, http.StatusBadRequest, "emotion is required")
		return
	}

	id, err := s.recorder.RecordMood(domain.MoodCheckin{
		UserID:  chi.URLParam(r, "userID"),
		Emotion: req.Emotion,
		Reasons: req.Reasons,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id": id,
	})
}

// --- POST /api/users/{userID}/completion ---
// The one write whose failure surfaces to the client as a retryable error.

type completionRequest struct {
	Day       string `json:"day,omitempty"` // YYYY-MM-DD, defaults to today
	Completed bool   `json:"completed"`
}

func (s *Server) handleCompletion(w http.ResponseWriter, r *http.Request) {
	var req completionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	err := s.recorder.SetCompletion(chi.URLParam(r, "userID"), req.Day, req.Completed)
	if errors.Is(err, domain.ErrBadDay) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "completion write failed, try again: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
	})
}

// --- GET /api/users/{userID}/coach ---

func (s *Server) handleCoach(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	mt := coach.MessageType(r.URL.Query().Get("type"))
	if mt == "" {
		mt = coach.MsgEncouragement
	}

	snapshot := s.statistics.Get(userID)
	msg := s.coach.Message(r.Context(), coach.Context{
		Emotion:  r.URL.Query().Get("emotion"),
		Snapshot: snapshot,
	}, mt)

	writeJSON(w, http.StatusOK, map[string]string{
		"message": msg,
	})
}
