package router

import (
	"net/http"

	"github.com/UmangSachdeva/MessMate/handlers"
)

func menuRoutes(g groups, h *handlers.Handler) {
	g.public.HandleFunc("/menu", h.ListMenu).Methods(http.MethodGet)
	g.public.HandleFunc("/menu/today", h.TodayMenu).Methods(http.MethodGet)
	g.protected.HandleFunc("/menu/{id}", h.GetMenuItem).Methods(http.MethodGet)

	g.admin.HandleFunc("/menu", h.CreateMenuItem).Methods(http.MethodPost)
	g.admin.HandleFunc("/menu/{id}", h.UpdateMenuItem).Methods(http.MethodPut)
	g.admin.HandleFunc("/menu/{id}", h.DeleteMenuItem).Methods(http.MethodDelete)
	g.admin.HandleFunc("/menu/{id}/availability", h.SetMenuAvailability).Methods(http.MethodPatch)
	g.admin.HandleFunc("/menu/{id}/image", h.UploadMenuImage).Methods(http.MethodPost)
}
