package handlers

import (
	"net/http"

	"github.com/UmangSachdeva/MessMate/helpers"
	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/services"
	"github.com/UmangSachdeva/MessMate/store"
	"github.com/gorilla/mux"
)

func bookingFilter(r *http.Request) (store.BookingFilter, error) {
	rng, err := dateRange(r)
	if err != nil {
		return store.BookingFilter{}, err
	}
	q := r.URL.Query()
	return store.BookingFilter{
		Status:   models.BookingStatus(q.Get("status")),
		MealType: models.MealType(q.Get("mealType")),
		Range:    rng,
	}, nil
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	me, err := currentUser(r)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	var in services.BookingInput
	if err := helpers.DecodeJSON(r, &in); err != nil {
		h.res.Error(w, r, err)
		return
	}
	booking, err := h.svc.Bookings.CreateBooking(r.Context(), me.ID, in)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.Created(w, "Booking created successfully", booking)
}

func (h *Handler) MyBookings(w http.ResponseWriter, r *http.Request) {
	me, err := currentUser(r)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	filter, err := bookingFilter(r)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	page := helpers.PageFromRequest(r)
	bookings, total, err := h.svc.Bookings.MyBookings(r.Context(), me.ID, filter, page)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.Page(w, bookings, helpers.NewPagination(page, total))
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	me, err := currentUser(r)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	booking, err := h.svc.Bookings.Get(r.Context(), id, me.ID, me.isAdmin())
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.OK(w, "", booking)
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	me, err := currentUser(r)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	var in services.CancelInput
	if r.ContentLength != 0 {
		if err := helpers.DecodeJSON(r, &in); err != nil {
			h.res.Error(w, r, err)
			return
		}
	}
	booking, err := h.svc.Bookings.CancelBooking(r.Context(), me.ID, id, in.Reason)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.OK(w, "Booking cancelled", booking)
}

func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	filter, err := bookingFilter(r)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	page := helpers.PageFromRequest(r)
	bookings, total, err := h.svc.Bookings.List(r.Context(), filter, page)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.Page(w, bookings, helpers.NewPagination(page, total))
}

func (h *Handler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	var in services.StatusInput
	if err := helpers.DecodeJSON(r, &in); err != nil {
		h.res.Error(w, r, err)
		return
	}
	booking, err := h.svc.Bookings.UpdateBookingStatus(r.Context(), id, in)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.OK(w, "Booking status updated", booking)
}

func (h *Handler) VerifyBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.svc.Bookings.VerifyBooking(r.Context(), mux.Vars(r)["bookingId"])
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.OK(w, "Booking verified", booking)
}
