package handlers

import (
	"net/http"

	"github.com/UmangSachdeva/MessMate/helpers"
	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/services"
	"github.com/UmangSachdeva/MessMate/store"
)

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	me, err := currentUser(r)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	var in services.ProfileInput
	if err := helpers.DecodeJSON(r, &in); err != nil {
		h.res.Error(w, r, err)
		return
	}
	user, err := h.svc.Users.UpdateProfile(r.Context(), me.ID, in)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.OK(w, "Profile updated", user)
}

func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	me, err := currentUser(r)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	file, name, err := uploadedFile(w, r, "avatar")
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	defer file.Close()

	user, err := h.svc.Users.UploadAvatar(r.Context(), me.ID, name, file)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.OK(w, "Avatar updated", user)
}

func (h *Handler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	page := helpers.PageFromRequest(r)
	filter := store.UserFilter{
		Search: r.URL.Query().Get("search"),
		Role:   models.Role(r.URL.Query().Get("role")),
	}
	users, total, err := h.svc.Users.List(r.Context(), filter, page)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.Page(w, users, helpers.NewPagination(page, total))
}

func (h *Handler) GetUserById(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	user, err := h.svc.Users.Get(r.Context(), id)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.OK(w, "", user)
}

type statusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

func (h *Handler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	var in statusRequest
	if err := helpers.DecodeJSON(r, &in); err != nil {
		h.res.Error(w, r, err)
		return
	}
	user, err := h.svc.Users.SetStatus(r.Context(), id, *in.IsActive)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.OK(w, "User status updated", user)
}
