package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/hukshh/fitchekk/internal/auth"
)

// SignupRequest is the payload for POST /api/auth/signup.
type SignupRequest struct {
	UserName     string `json:"user_name"`
	UserEmail    string `json:"user_email"`
	UserPassword string `json:"user_password"`
}

// Validate ensures request correctness.
func (r SignupRequest) Validate() error {
	if strings.TrimSpace(r.UserName) == "" {
		return errors.New("user_name is required")
	}
	if _, err := mail.ParseAddress(r.UserEmail); err != nil {
		return errors.New("user_email must be a valid email address")
	}
	if len(r.UserPassword) < 8 {
		return errors.New("user_password must be at least 8 characters")
	}
	return nil
}

// LoginRequest is the payload for POST /api/auth/login. The email field
// also accepts a username.
type LoginRequest struct {
	UserEmail    string `json:"user_email"`
	UserPassword string `json:"user_password"`
}

// AuthResponse pairs the public account view with a bearer token.
type AuthResponse struct {
	User  UserView `json:"user"`
	Token string   `json:"token"`
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	user, err := h.users.Signup(r.Context(), strings.TrimSpace(req.UserName), strings.TrimSpace(req.UserEmail), req.UserPassword)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	token, err := auth.Issue(user.ID, h.tokens)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{User: toUserView(*user), Token: token})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if strings.TrimSpace(req.UserEmail) == "" || req.UserPassword == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "user_email and user_password are required")
		return
	}

	user, err := h.users.Login(r.Context(), strings.TrimSpace(req.UserEmail), req.UserPassword)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	token, err := auth.Issue(user.ID, h.tokens)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{User: toUserView(*user), Token: token})
}

// ProfileResponse extends the account view with entity counts.
type ProfileResponse struct {
	User   UserView `json:"user"`
	Counts struct {
		Workouts    int `json:"workouts"`
		Attendances int `json:"attendances"`
		Orders      int `json:"orders"`
	} `json:"counts"`
}

// UpdateProfileRequest patches name and/or email.
type UpdateProfileRequest struct {
	UserName  *string `json:"user_name"`
	UserEmail *string `json:"user_email"`
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getProfile(w, r)
	case http.MethodPut:
		h.updateProfile(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	user, counts, err := h.users.Profile(r.Context(), uid)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := ProfileResponse{User: toUserView(*user)}
	resp.Counts.Workouts = counts.Workouts
	resp.Counts.Attendances = counts.Attendances
	resp.Counts.Orders = counts.Orders
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if req.UserEmail != nil {
		if _, err := mail.ParseAddress(*req.UserEmail); err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "user_email must be a valid email address")
			return
		}
	}

	user, err := h.users.UpdateProfile(r.Context(), uid, req.UserName, req.UserEmail)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]UserView{"user": toUserView(*user)})
}
