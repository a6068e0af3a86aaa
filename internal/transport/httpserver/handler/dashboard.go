package handler

import (
	"net/http"
)

func (h *Handlers) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Congregation.DashboardStats(r.Context())
	if err != nil {
		h.respondDomainError(w, "dashboard.stats", err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *Handlers) DashboardReminders(w http.ResponseWriter, r *http.Request) {
	days, err := parseIntParam(r.URL.Query().Get("days"), h.reminderDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid days")
		return
	}

	reminders, err := h.Congregation.Reminders(r.Context(), days)
	if err != nil {
		h.respondDomainError(w, "dashboard.reminders", err)
		return
	}

	writeJSON(w, http.StatusOK, reminders)
}
