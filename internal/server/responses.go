package server

import (
	"encoding/json"
	"net/http"

	"github.com/habitd/habitd/pkg/habit"
)

type HabitListResponse struct {
	Habits []habit.Habit `json:"habits"`
}

type HabitSummaryResponse struct {
	HabitID      string             `json:"habit_id"`
	HabitSummary habit.HabitSummary `json:"habit_summary"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

// writeError marshals the message so error text containing quotes stays
// valid JSON.
func writeError(w http.ResponseWriter, code int, msg string) {
	_ = writeJSON(w, code, errorResponse{Error: msg})
}
