package handlers

import (
	"net/http"

	"github.com/UmangSachdeva/MessMate/helpers"
	"github.com/UmangSachdeva/MessMate/services"
)

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	me, err := currentUser(r)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	page := helpers.PageFromRequest(r)
	notes, total, err := h.svc.Notifications.List(r.Context(), me.ID, me.Role, page)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.Page(w, notes, helpers.NewPagination(page, total))
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
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
	if err := h.svc.Notifications.MarkRead(r.Context(), id, me.ID); err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.OK(w, "Notification marked as read", nil)
}

func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	me, err := currentUser(r)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	n, err := h.svc.Notifications.MarkAllRead(r.Context(), me.ID)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.OK(w, "Notifications marked as read", map[string]int64{"updated": n})
}

func (h *Handler) BroadcastNotification(w http.ResponseWriter, r *http.Request) {
	var in services.BroadcastInput
	if err := helpers.DecodeJSON(r, &in); err != nil {
		h.res.Error(w, r, err)
		return
	}
	note, err := h.svc.Notifications.Broadcast(r.Context(), in)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.Created(w, "Broadcast sent", note)
}
