package handlers

import (
	"net/http"

	"github.com/UmangSachdeva/MessMate/helpers"
)

func (h *Handler) PaymentHistory(w http.ResponseWriter, r *http.Request) {
	me, err := currentUser(r)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	page := helpers.PageFromRequest(r)
	payments, total, err := h.svc.Payments.History(r.Context(), me.ID, page)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.Page(w, payments, helpers.NewPagination(page, total))
}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	page := helpers.PageFromRequest(r)
	payments, total, err := h.svc.Payments.List(r.Context(), page)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.Page(w, payments, helpers.NewPagination(page, total))
}
