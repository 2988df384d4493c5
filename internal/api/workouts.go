package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
)

// CreateWorkoutRequest is the payload for POST /api/workouts.
type CreateWorkoutRequest struct {
	Title string     `json:"title"`
	Date  *time.Time `json:"date"`
}

// CreateWorkoutResponse pairs the workout with its gamification award.
type CreateWorkoutResponse struct {
	Workout   WorkoutView `json:"workout"`
	XPEarned  int         `json:"xp_earned"`
	NewStreak int         `json:"new_streak"`
}

func (h *Handler) workoutCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createWorkout(w, r)
	case http.MethodGet:
		h.listWorkouts(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (h *Handler) createWorkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req CreateWorkoutRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
			return
		}
	}

	workout, award, err := h.workouts.Create(r.Context(), uid, strings.TrimSpace(req.Title), req.Date)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreateWorkoutResponse{
		Workout:   toWorkoutView(*workout),
		XPEarned:  award.XPEarned,
		NewStreak: award.NewStreak,
	})
}

// ListWorkoutsResponse packages paginated workouts.
type ListWorkoutsResponse struct {
	Workouts   []WorkoutView  `json:"workouts"`
	Pagination PaginationView `json:"pagination"`
}

func (h *Handler) listWorkouts(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)

	result, err := h.workouts.List(r.Context(), uid, page, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	workouts := make([]WorkoutView, 0, len(result.Workouts))
	for _, workout := range result.Workouts {
		workouts = append(workouts, toWorkoutView(workout))
	}
	writeJSON(w, http.StatusOK, ListWorkoutsResponse{
		Workouts:   workouts,
		Pagination: toPaginationView(result.Page, result.Limit, result.Total),
	})
}

func (h *Handler) workoutByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/workouts/")
	if rest == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing workout id")
		return
	}

	if id, found := strings.CutSuffix(rest, "/sets"); found {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.addSet(w, r, id)
		return
	}

	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	h.getWorkout(w, r, rest)
}

func (h *Handler) getWorkout(w http.ResponseWriter, r *http.Request, id string) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	workout, err := h.workouts.Get(r.Context(), uid, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]WorkoutView{"workout": toWorkoutView(*workout)})
}

// AddSetRequest is the payload for POST /api/workouts/{id}/sets.
type AddSetRequest struct {
	ExerciseID string   `json:"exercise_id"`
	Reps       int      `json:"reps"`
	Weight     *float64 `json:"weight"`
	RPE        *int     `json:"rpe"`
	Order      int      `json:"order"`
}

// Validate ensures request correctness.
func (r AddSetRequest) Validate() error {
	if strings.TrimSpace(r.ExerciseID) == "" {
		return errors.New("exercise_id is required")
	}
	if r.Reps <= 0 {
		return errors.New("reps must be > 0")
	}
	if r.RPE != nil && (*r.RPE < 1 || *r.RPE > 10) {
		return errors.New("rpe must be between 1 and 10")
	}
	if r.Weight != nil && *r.Weight < 0 {
		return errors.New("weight must be >= 0")
	}
	return nil
}

func (h *Handler) addSet(w http.ResponseWriter, r *http.Request, workoutID string) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req AddSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	set, err := h.workouts.AddSet(r.Context(), uid, workoutID, req.ExerciseID, req.Reps, req.Weight, req.RPE, req.Order)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]SetView{"set": toSetView(*set)})
}
