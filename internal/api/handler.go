// Package api exposes the HTTP handlers of the fitchekk API.
package api

import (
	"net/http"
	"strconv"

	"github.com/hukshh/fitchekk/internal/auth"
	"github.com/hukshh/fitchekk/internal/domain"
)

// Handler coordinates HTTP requests with the domain services.
type Handler struct {
	users      *domain.UserService
	exercises  *domain.ExerciseService
	workouts   *domain.WorkoutService
	attendance *domain.AttendanceService
	progress   *domain.ProgressService
	catalog    *domain.CatalogService
	cart       *domain.CartService
	orders     *domain.OrderService
	tokens     auth.Config
}

// Services bundles the domain services the handler depends on.
type Services struct {
	Users      *domain.UserService
	Exercises  *domain.ExerciseService
	Workouts   *domain.WorkoutService
	Attendance *domain.AttendanceService
	Progress   *domain.ProgressService
	Catalog    *domain.CatalogService
	Cart       *domain.CartService
	Orders     *domain.OrderService
}

// NewHandler builds a Handler.
func NewHandler(services Services, tokens auth.Config) *Handler {
	return &Handler{
		users:      services.Users,
		exercises:  services.Exercises,
		workouts:   services.Workouts,
		attendance: services.Attendance,
		progress:   services.Progress,
		catalog:    services.Catalog,
		cart:       services.Cart,
		orders:     services.Orders,
		tokens:     tokens,
	}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", healthz)
	mux.HandleFunc("/api/auth/signup", h.signup)
	mux.HandleFunc("/api/auth/login", h.login)
	mux.HandleFunc("/api/users/me", h.profile)
	mux.HandleFunc("/api/exercises", h.exerciseCollection)
	mux.HandleFunc("/api/workouts", h.workoutCollection)
	mux.HandleFunc("/api/workouts/", h.workoutByID)
	mux.HandleFunc("/api/attendance/checkin", h.checkIn)
	mux.HandleFunc("/api/attendance/checkout", h.checkOut)
	mux.HandleFunc("/api/attendance/today", h.todayStatus)
	mux.HandleFunc("/api/attendance/history", h.attendanceHistory)
	mux.HandleFunc("/api/progress", h.progressCollection)
	mux.HandleFunc("/api/categories", h.categoryCollection)
	mux.HandleFunc("/api/products", h.productCollection)
	mux.HandleFunc("/api/products/", h.productByID)
	mux.HandleFunc("/api/cart", h.cartCollection)
	mux.HandleFunc("/api/cart/items/", h.cartItemByID)
	mux.HandleFunc("/api/orders", h.orderCollection)
	mux.HandleFunc("/api/orders/", h.orderByID)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// userID extracts the authenticated user from the request context. A
// missing claim means the auth middleware was bypassed; treat as 401.
func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return "", false
	}
	return claims.UserID, true
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
}
