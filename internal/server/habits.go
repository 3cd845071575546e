package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/habitd/habitd/internal/logger"
	"github.com/habitd/habitd/internal/storage"
	"github.com/habitd/habitd/pkg/habit"
	"github.com/habitd/habitd/pkg/versioninfo"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const timezoneHeader = "X-User-Timezone"

type habitRequest struct {
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	CustomCategory  string          `json:"custom_category"`
	Color           string          `json:"color"`
	Priority        int             `json:"priority"`
	Frequency       habit.Frequency `json:"frequency"`
	CustomFrequency string          `json:"custom_frequency"`
	CustomDays      []int           `json:"custom_days"`
}

type toggleRequest struct {
	Date     string `json:"date"`
	Timezone string `json:"timezone"`
}

func (s *Server) getVersionInfo(w http.ResponseWriter, _ *http.Request) {
	info := versioninfo.VersionInfo{
		Version:   versioninfo.Version,
		BuildDate: versioninfo.BuildDate,
	}
	if err := writeJSON(w, http.StatusOK, info); err != nil {
		logger.Error("Failed to serialize version info response", "error", err)
		http.Error(w, `{"error":"failed to serialize version info"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) createHabit(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	if userID == "" {
		http.Error(w, `{"error":"user id is required"}`, http.StatusBadRequest)
		return
	}

	var req habitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid JSON in create habit request", "error", err)
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if err := validateHabitRequest(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The recurrence rule is decided once here, not re-derived from the
	// hint string on every read.
	rule, err := habit.ParseRule(req.Frequency, req.CustomFrequency, req.CustomDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h := habit.Habit{
		ID:              uuid.NewString(),
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		CustomCategory:  req.CustomCategory,
		Color:           req.Color,
		Priority:        req.Priority,
		Frequency:       req.Frequency,
		CustomFrequency: req.CustomFrequency,
		CustomDays:      req.CustomDays,
		Rule:            rule,
		Progress:        habit.Ledger{},
		Streak:          habit.Streak{},
		CreatedAt:       time.Now().Unix(),
	}

	logger.Info("Creating habit", "user_id", userID, "habit_id", h.ID, "title", h.Title)
	if err := s.store.PutHabit(userID, h); err != nil {
		logger.Error("Failed to store habit", "user_id", userID, "error", err)
		http.Error(w, `{"error":"database write failed"}`, http.StatusInternalServerError)
		return
	}
	s.updateActiveHabits(userID)

	if err := writeJSON(w, http.StatusCreated, h); err != nil {
		logger.Error("Failed to serialize create habit response", "user_id", userID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) listHabits(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	logger.Debug("Listing habits", "user_id", userID)
	if userID == "" {
		http.Error(w, `{"error":"user id is required"}`, http.StatusBadRequest)
		return
	}

	habits, err := s.store.ListHabits(userID)
	if err != nil {
		logger.Error("Failed to list habits", "user_id", userID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}
	if err := writeJSON(w, http.StatusOK, HabitListResponse{Habits: habits}); err != nil {
		logger.Error("Failed to serialize habit list response", "user_id", userID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) getHabit(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habit_id")
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	if userID == "" || habitID == "" {
		http.Error(w, `{"error":"user id and habit id are required"}`, http.StatusBadRequest)
		return
	}

	h, err := s.store.GetHabit(userID, habitID)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, `{"error":"habit not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Error("Failed to get habit", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}

	if err := writeJSON(w, http.StatusOK, h); err != nil {
		logger.Error("Failed to serialize get habit response", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) updateHabit(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habit_id")
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	if userID == "" || habitID == "" {
		http.Error(w, `{"error":"user id and habit id are required"}`, http.StatusBadRequest)
		return
	}

	var req habitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if err := validateHabitRequest(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rule, err := habit.ParseRule(req.Frequency, req.CustomFrequency, req.CustomDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.store.MutateHabit(userID, habitID, func(h *habit.Habit) error {
		h.Title = req.Title
		h.Description = req.Description
		h.Category = req.Category
		h.CustomCategory = req.CustomCategory
		h.Color = req.Color
		h.Priority = req.Priority
		h.Frequency = req.Frequency
		h.CustomFrequency = req.CustomFrequency
		h.CustomDays = req.CustomDays
		h.Rule = rule
		return nil
	})
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, `{"error":"habit not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Error("Failed to update habit", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}

	if err := writeJSON(w, http.StatusOK, updated); err != nil {
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) deleteHabit(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habit_id")
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	logger.Info("Deleting habit", "user_id", userID, "habit_id", habitID)
	if userID == "" || habitID == "" {
		http.Error(w, `{"error":"user id and habit id are required"}`, http.StatusBadRequest)
		return
	}

	err := s.store.DeleteHabit(userID, habitID)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, `{"error":"habit not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Error("Failed to delete habit", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}
	s.updateActiveHabits(userID)

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getHabitSummary(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habit_id")
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	logger.Debug("Getting habit summary", "habit_id", habitID, "user_id", userID)
	if userID == "" || habitID == "" {
		http.Error(w, `{"error":"user id and habit id are required"}`, http.StatusBadRequest)
		return
	}

	tz := r.Header.Get(timezoneHeader)
	if tz == "" {
		tz = "UTC"
	}
	today, err := habit.DayKey(time.Now(), tz)
	if errors.Is(err, habit.ErrInvalidTimezone) {
		http.Error(w, `{"error":"invalid timezone"}`, http.StatusBadRequest)
		return
	}

	h, err := s.store.GetHabit(userID, habitID)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, `{"error":"habit not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Error("Failed to get habit for summary", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}

	resp := HabitSummaryResponse{
		HabitID:      habitID,
		HabitSummary: h.Summarize(today, time.Now().Unix()),
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		logger.Error("Failed to serialize habit summary response", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) completeHabit(w http.ResponseWriter, r *http.Request) {
	s.toggleHabit(w, r, true)
}

func (s *Server) uncompleteHabit(w http.ResponseWriter, r *http.Request) {
	s.toggleHabit(w, r, false)
}

// toggleHabit is the server side of the completion toggle workflow:
// normalize the date to a day key, mutate the ledger, recompute the
// streak, and persist ledger and streak as one atomic document write.
// The response is authoritative; clients discard any optimistic guess.
func (s *Server) toggleHabit(w http.ResponseWriter, r *http.Request, complete bool) {
	habitID := chi.URLParam(r, "habit_id")
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	if userID == "" || habitID == "" {
		http.Error(w, `{"error":"user id and habit id are required"}`, http.StatusBadRequest)
		return
	}

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid JSON in toggle request", "error", err)
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.Date == "" {
		http.Error(w, `{"error":"date is required"}`, http.StatusBadRequest)
		return
	}

	tz := req.Timezone
	if tz == "" {
		tz = r.Header.Get(timezoneHeader)
	}
	if tz == "" {
		tz = "UTC"
	}

	day, err := habit.ParseDay(req.Date, tz)
	if errors.Is(err, habit.ErrInvalidTimezone) {
		http.Error(w, `{"error":"invalid timezone"}`, http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"invalid date"}`, http.StatusBadRequest)
		return
	}
	// tz validated above, so this cannot fail.
	today, _ := habit.DayKey(time.Now(), tz)

	updated, err := s.store.MutateHabit(userID, habitID, func(h *habit.Habit) error {
		habit.ApplyToggle(h, day, today, complete)
		return nil
	})
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, `{"error":"habit not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Error("Failed to toggle habit", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"database write failed"}`, http.StatusInternalServerError)
		return
	}

	action := "complete"
	if !complete {
		action = "uncomplete"
	}
	completionTogglesTotal.WithLabelValues(action).Inc()
	logger.Info("Habit toggled", "user_id", userID, "habit_id", habitID,
		"action", action, "day", day.String(), "current_streak", updated.Streak.Current)

	if err := writeJSON(w, http.StatusOK, updated); err != nil {
		logger.Error("Failed to serialize toggle response", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) updateActiveHabits(userID string) {
	habits, err := s.store.ListHabits(userID)
	if err != nil {
		logger.Warn("Failed to update active habits metric", "user_id", userID, "error", err)
		return
	}
	UpdateActiveHabitsForUser(userID, len(habits))
}

func validateHabitRequest(req habitRequest) error {
	const maxTitleLength = 100
	const maxDescriptionLength = 1024

	if len(req.Title) == 0 || len(req.Title) > maxTitleLength {
		return fmt.Errorf("bad habit title: must be 1-%d characters", maxTitleLength)
	}
	if len(req.Description) > maxDescriptionLength {
		return fmt.Errorf("bad habit description: must be 0-%d characters", maxDescriptionLength)
	}
	if req.Priority < 0 || req.Priority > 5 {
		return fmt.Errorf("bad priority: must be 0-5")
	}
	return nil
}
