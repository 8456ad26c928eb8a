package router

import (
	"net/http"

	"github.com/UmangSachdeva/MessMate/handlers"
)

func inventoryRoutes(g groups, h *handlers.Handler) {
	g.admin.HandleFunc("/inventory", h.ListInventory).Methods(http.MethodGet)
	g.admin.HandleFunc("/inventory", h.CreateInventoryItem).Methods(http.MethodPost)
	g.admin.HandleFunc("/inventory/alerts", h.InventoryAlerts).Methods(http.MethodGet)
	g.admin.HandleFunc("/inventory/{id}", h.GetInventoryItem).Methods(http.MethodGet)
	g.admin.HandleFunc("/inventory/{id}", h.UpdateInventoryItem).Methods(http.MethodPut)
	g.admin.HandleFunc("/inventory/{id}", h.DeleteInventoryItem).Methods(http.MethodDelete)
	g.admin.HandleFunc("/inventory/{id}/add-stock", h.AddStock).Methods(http.MethodPost)
	g.admin.HandleFunc("/inventory/{id}/consume-stock", h.ConsumeStock).Methods(http.MethodPost)
	g.admin.HandleFunc("/inventory/{id}/check-alerts", h.CheckInventoryAlerts).Methods(http.MethodPost)
	g.admin.HandleFunc("/inventory/{id}/alerts/{alertId}/ack", h.AcknowledgeAlert).Methods(http.MethodPatch)
}

func analyticsRoutes(g groups, h *handlers.Handler) {
	g.admin.HandleFunc("/analytics/dashboard", h.Dashboard).Methods(http.MethodGet)
	g.admin.HandleFunc("/analytics/revenue", h.RevenueAnalytics).Methods(http.MethodGet)
	g.admin.HandleFunc("/analytics/bookings", h.BookingAnalytics).Methods(http.MethodGet)
	g.admin.HandleFunc("/analytics/users", h.UserAnalytics).Methods(http.MethodGet)
	g.admin.HandleFunc("/analytics/attendance", h.AttendanceAnalytics).Methods(http.MethodGet)
	g.admin.HandleFunc("/analytics/feedback", h.FeedbackAnalytics).Methods(http.MethodGet)

	g.admin.HandleFunc("/reports/bookings", h.BookingReport).Methods(http.MethodGet)
	g.admin.HandleFunc("/reports/revenue", h.RevenueReport).Methods(http.MethodGet)
}
