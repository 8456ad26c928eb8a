package handlers

import (
	"fmt"
	"net/http"

	"github.com/UmangSachdeva/MessMate/services"
)

func (h *Handler) BookingReport(w http.ResponseWriter, r *http.Request) {
	filter, err := bookingFilter(r)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	report, err := h.svc.Reports.Bookings(r.Context(), filter)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.writeReport(w, r, report)
}

func (h *Handler) RevenueReport(w http.ResponseWriter, r *http.Request) {
	rng, err := dateRange(r)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	report, err := h.svc.Reports.Revenue(r.Context(), rng)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.writeReport(w, r, report)
}

// writeReport sends CSV when format=csv, JSON otherwise.
func (h *Handler) writeReport(w http.ResponseWriter, r *http.Request, report *services.Report) {
	if r.URL.Query().Get("format") != "csv" {
		h.res.OK(w, "", report)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename()))
	w.WriteHeader(http.StatusOK)
	if err := report.WriteCSV(w); err != nil {
		h.res.Log.WithError(err).Error("writing csv report")
	}
}
