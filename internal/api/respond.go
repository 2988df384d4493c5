package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hukshh/fitchekk/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

// writeDomainError maps domain sentinel errors onto HTTP statuses. Unknown
// errors surface as 500 without leaking internals beyond the message.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrAlreadyCheckedIn),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrDuplicateExercise),
		errors.Is(err, domain.ErrCategoryExists):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, domain.ErrNoOpenSession),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrWorkoutNotFound),
		errors.Is(err, domain.ErrExerciseNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrCartItemNotFound),
		errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrCartEmpty),
		errors.Is(err, domain.ErrInvalidOrderStatus):
		writeError(w, http.StatusBadRequest, "invalid_state", err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrFederatedAccount):
		writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}
