package handlers

import (
	"net/http"

	"github.com/UmangSachdeva/MessMate/helpers"
	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/services"
	"github.com/UmangSachdeva/MessMate/store"
)

func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	me, err := currentUser(r)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	var in services.FeedbackInput
	if err := helpers.DecodeJSON(r, &in); err != nil {
		h.res.Error(w, r, err)
		return
	}
	fb, err := h.svc.Feedback.Create(r.Context(), me.ID, in)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.Created(w, "Thanks for your feedback", fb)
}

func (h *Handler) MyFeedback(w http.ResponseWriter, r *http.Request) {
	me, err := currentUser(r)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	page := helpers.PageFromRequest(r)
	items, total, err := h.svc.Feedback.Mine(r.Context(), me.ID, page)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.Page(w, items, helpers.NewPagination(page, total))
}

func (h *Handler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.FeedbackFilter{
		Status:   models.FeedbackStatus(q.Get("status")),
		Category: q.Get("category"),
	}
	page := helpers.PageFromRequest(r)
	items, total, err := h.svc.Feedback.List(r.Context(), filter, page)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.Page(w, items, helpers.NewPagination(page, total))
}

func (h *Handler) RespondFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	var in services.RespondInput
	if err := helpers.DecodeJSON(r, &in); err != nil {
		h.res.Error(w, r, err)
		return
	}
	fb, err := h.svc.Feedback.Respond(r.Context(), id, in)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.OK(w, "Response recorded", fb)
}
