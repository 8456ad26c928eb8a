package router

import (
	"net/http"

	"github.com/UmangSachdeva/MessMate/handlers"
)

func bookingRoutes(g groups, h *handlers.Handler) {
	g.protected.HandleFunc("/bookings", h.CreateBooking).Methods(http.MethodPost)
	g.protected.HandleFunc("/bookings/my", h.MyBookings).Methods(http.MethodGet)
	g.protected.HandleFunc("/bookings/{id}", h.GetBooking).Methods(http.MethodGet)
	g.protected.HandleFunc("/bookings/{id}/cancel", h.CancelBooking).Methods(http.MethodPatch)

	g.admin.HandleFunc("/bookings", h.ListBookings).Methods(http.MethodGet)
	g.admin.HandleFunc("/bookings/verify/{bookingId}", h.VerifyBooking).Methods(http.MethodGet)
	g.admin.HandleFunc("/bookings/{id}/status", h.UpdateBookingStatus).Methods(http.MethodPatch)
}

func feedbackRoutes(g groups, h *handlers.Handler) {
	g.protected.HandleFunc("/feedback", h.SubmitFeedback).Methods(http.MethodPost)
	g.protected.HandleFunc("/feedback/my", h.MyFeedback).Methods(http.MethodGet)

	g.admin.HandleFunc("/feedback", h.ListFeedback).Methods(http.MethodGet)
	g.admin.HandleFunc("/feedback/{id}/respond", h.RespondFeedback).Methods(http.MethodPatch)
}

func notificationRoutes(g groups, h *handlers.Handler) {
	g.protected.HandleFunc("/notifications", h.ListNotifications).Methods(http.MethodGet)
	g.protected.HandleFunc("/notifications/read-all", h.MarkAllNotificationsRead).Methods(http.MethodPatch)
	g.protected.HandleFunc("/notifications/{id}/read", h.MarkNotificationRead).Methods(http.MethodPatch)

	g.admin.HandleFunc("/notifications/broadcast", h.BroadcastNotification).Methods(http.MethodPost)
}
