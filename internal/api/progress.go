package api

import (
	"encoding/json"
	"errors"
	"net/http"
)

// LogProgressRequest is the payload for POST /api/progress.
type LogProgressRequest struct {
	Weight  float64  `json:"weight"`
	BodyFat *float64 `json:"body_fat"`
}

// Validate ensures request correctness.
func (r LogProgressRequest) Validate() error {
	if r.Weight <= 0 {
		return errors.New("weight must be > 0")
	}
	if r.BodyFat != nil && (*r.BodyFat < 0 || *r.BodyFat > 100) {
		return errors.New("body_fat must be between 0 and 100")
	}
	return nil
}

func (h *Handler) progressCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.logProgress(w, r)
	case http.MethodGet:
		h.progressHistory(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (h *Handler) logProgress(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req LogProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	entry, err := h.progress.Log(r.Context(), uid, req.Weight, req.BodyFat)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]ProgressView{"log": toProgressView(*entry)})
}

func (h *Handler) progressHistory(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	entries, err := h.progress.History(r.Context(), uid, queryInt(r, "limit", 30))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	views := make([]ProgressView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, toProgressView(entry))
	}
	writeJSON(w, http.StatusOK, map[string][]ProgressView{"logs": views})
}
