package handlers

import (
	"net/http"

	"github.com/UmangSachdeva/MessMate/helpers"
	"github.com/UmangSachdeva/MessMate/services"
)

func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := helpers.DecodeJSON(r, &in); err != nil {
		h.res.Error(w, r, err)
		return
	}
	result, err := h.svc.Auth.Register(r.Context(), in)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.Created(w, "User registered successfully", result)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := helpers.DecodeJSON(r, &in); err != nil {
		h.res.Error(w, r, err)
		return
	}
	result, err := h.svc.Auth.Login(r.Context(), in)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.OK(w, "Login successful", result)
}

// GetUserDetails returns the authenticated user.
func (h *Handler) GetUserDetails(w http.ResponseWriter, r *http.Request) {
	me, err := currentUser(r)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	user, err := h.svc.Users.Get(r.Context(), me.ID)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.OK(w, "", user)
}
