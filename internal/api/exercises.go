package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// CreateExerciseRequest is the payload for POST /api/exercises.
type CreateExerciseRequest struct {
	Name        string `json:"name"`
	MuscleGroup string `json:"muscle_group"`
}

// Validate ensures request correctness.
func (r CreateExerciseRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

func (h *Handler) exerciseCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createExercise(w, r)
	case http.MethodGet:
		h.listExercises(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (h *Handler) createExercise(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req CreateExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	exercise, err := h.exercises.Create(r.Context(), uid, strings.TrimSpace(req.Name), strings.TrimSpace(req.MuscleGroup))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]ExerciseView{"exercise": toExerciseView(*exercise)})
}

func (h *Handler) listExercises(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	results, err := h.exercises.List(r.Context(), uid, r.URL.Query().Get("search"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	views := make([]ExerciseView, 0, len(results))
	for _, exercise := range results {
		views = append(views, toExerciseView(exercise))
	}
	writeJSON(w, http.StatusOK, map[string][]ExerciseView{"exercises": views})
}
