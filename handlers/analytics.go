package handlers

import (
	"context"
	"net/http"

	"github.com/UmangSachdeva/MessMate/store"
)

// rangeQuery adapts an analytics call that only needs the request range.
func rangeQuery[T any](h *Handler, fn func(context.Context, store.DateRange) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rng, err := dateRange(r)
		if err != nil {
			h.res.Error(w, r, err)
			return
		}
		out, err := fn(r.Context(), h.svc.Analytics.Range(rng))
		if err != nil {
			h.res.Error(w, r, err)
			return
		}
		h.res.OK(w, "", out)
	}
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	rangeQuery(h, h.svc.Analytics.Dashboard)(w, r)
}

func (h *Handler) RevenueAnalytics(w http.ResponseWriter, r *http.Request) {
	rangeQuery(h, h.svc.Analytics.Revenue)(w, r)
}

func (h *Handler) BookingAnalytics(w http.ResponseWriter, r *http.Request) {
	rangeQuery(h, h.svc.Analytics.Bookings)(w, r)
}

func (h *Handler) UserAnalytics(w http.ResponseWriter, r *http.Request) {
	rangeQuery(h, h.svc.Analytics.Users)(w, r)
}

func (h *Handler) AttendanceAnalytics(w http.ResponseWriter, r *http.Request) {
	rangeQuery(h, h.svc.Analytics.Attendance)(w, r)
}

func (h *Handler) FeedbackAnalytics(w http.ResponseWriter, r *http.Request) {
	rangeQuery(h, h.svc.Analytics.Feedback)(w, r)
}
