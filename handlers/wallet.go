package handlers

import (
	"net/http"

	"github.com/UmangSachdeva/MessMate/helpers"
	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/services"
)

func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	me, err := currentUser(r)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	summary, err := h.svc.Wallet.Balance(r.Context(), me.ID)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.OK(w, "", summary)
}

func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	me, err := currentUser(r)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	txnType := models.TransactionType(r.URL.Query().Get("type"))
	if txnType != "" && txnType != models.Debit && txnType != models.Credit {
		h.res.Fail(w, http.StatusBadRequest, "type must be debit or credit")
		return
	}
	page := helpers.PageFromRequest(r)
	txns, total, err := h.svc.Wallet.Transactions(r.Context(), me.ID, txnType, page)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.Page(w, txns, helpers.NewPagination(page, total))
}

// AddMoney tops the wallet up through the payment service so every credit
// has a payment record behind it.
func (h *Handler) AddMoney(w http.ResponseWriter, r *http.Request) {
	me, err := currentUser(r)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	var in services.TopUpInput
	if err := helpers.DecodeJSON(r, &in); err != nil {
		h.res.Error(w, r, err)
		return
	}
	result, err := h.svc.Payments.TopUp(r.Context(), me.ID, in)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.OK(w, "Money added successfully", result)
}
