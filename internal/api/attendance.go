package api

import (
	"fmt"
	"net/http"
	"time"
)

func (h *Handler) checkIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	session, err := h.attendance.CheckIn(r.Context(), uid)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"attendance": toAttendanceView(*session),
		"message":    "Checked in successfully!",
	})
}

func (h *Handler) checkOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	session, err := h.attendance.CheckOut(r.Context(), uid)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"attendance": toAttendanceView(*session),
		"message":    fmt.Sprintf("Checked out! Duration: %d minutes", *session.DurationMinutes),
	})
}

// TodayStatusResponse summarises the current day's attendance.
type TodayStatusResponse struct {
	CheckedIn    bool             `json:"checked_in"`
	OpenSession  *AttendanceView  `json:"open_session,omitempty"`
	TodayRecords []AttendanceView `json:"today_records"`
}

func (h *Handler) todayStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	status, err := h.attendance.TodayStatus(r.Context(), uid)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := TodayStatusResponse{
		CheckedIn:    status.CheckedIn,
		TodayRecords: toAttendanceViews(status.Records),
	}
	if status.OpenSession != nil {
		open := toAttendanceView(*status.OpenSession)
		resp.OpenSession = &open
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) attendanceHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var from, to *time.Time
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "from must be RFC 3339")
			return
		}
		from = &parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "to must be RFC 3339")
			return
		}
		to = &parsed
	}
	limit := queryInt(r, "limit", 30)

	records, err := h.attendance.History(r.Context(), uid, from, to, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]AttendanceView{"records": toAttendanceViews(records)})
}
