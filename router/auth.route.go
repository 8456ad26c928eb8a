package router

import (
	"net/http"

	"github.com/UmangSachdeva/MessMate/handlers"
)

func authRoutes(g groups, h *handlers.Handler) {
	g.public.HandleFunc("/auth/register", h.RegisterUser).Methods(http.MethodPost)
	g.public.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)

	g.protected.HandleFunc("/auth/me", h.GetUserDetails).Methods(http.MethodGet)
	g.protected.HandleFunc("/users/me", h.GetUserDetails).Methods(http.MethodGet)
	g.protected.HandleFunc("/users/me", h.UpdateUser).Methods(http.MethodPut)
	g.protected.HandleFunc("/users/me/avatar", h.UploadAvatar).Methods(http.MethodPost)

	g.admin.HandleFunc("/users", h.GetAllUsers).Methods(http.MethodGet)
	g.admin.HandleFunc("/users/{id}", h.GetUserById).Methods(http.MethodGet)
	g.admin.HandleFunc("/users/{id}/status", h.SetUserStatus).Methods(http.MethodPatch)
}
