package handlers

import (
	"context"
	"net/http"

	"github.com/UmangSachdeva/MessMate/helpers"
	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/services"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (h *Handler) ListInventory(w http.ResponseWriter, r *http.Request) {
	page := helpers.PageFromRequest(r)
	items, total, err := h.svc.Inventory.List(r.Context(), r.URL.Query().Get("category"), page)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.Page(w, items, helpers.NewPagination(page, total))
}

func (h *Handler) CreateInventoryItem(w http.ResponseWriter, r *http.Request) {
	me, err := currentUser(r)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	var in services.InventoryInput
	if err := helpers.DecodeJSON(r, &in); err != nil {
		h.res.Error(w, r, err)
		return
	}
	item, err := h.svc.Inventory.Create(r.Context(), in, me.ID)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.Created(w, "Inventory item created", item)
}

func (h *Handler) GetInventoryItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	item, err := h.svc.Inventory.Get(r.Context(), id)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.OK(w, "", item)
}

func (h *Handler) UpdateInventoryItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	var in services.InventoryInput
	if err := helpers.DecodeJSON(r, &in); err != nil {
		h.res.Error(w, r, err)
		return
	}
	item, err := h.svc.Inventory.Update(r.Context(), id, in)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.OK(w, "Inventory item updated", item)
}

func (h *Handler) DeleteInventoryItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	if err := h.svc.Inventory.Delete(r.Context(), id); err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.OK(w, "Inventory item deleted", nil)
}

func (h *Handler) AddStock(w http.ResponseWriter, r *http.Request) {
	h.stockMovement(w, r, h.svc.Inventory.AddStock, "Stock added")
}

func (h *Handler) ConsumeStock(w http.ResponseWriter, r *http.Request) {
	h.stockMovement(w, r, h.svc.Inventory.ConsumeStock, "Stock consumed")
}

type stockFunc func(ctx context.Context, id primitive.ObjectID, in services.StockInput, handledBy primitive.ObjectID) (*models.InventoryItem, error)

func (h *Handler) stockMovement(w http.ResponseWriter, r *http.Request, apply stockFunc, message string) {
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
	var in services.StockInput
	if err := helpers.DecodeJSON(r, &in); err != nil {
		h.res.Error(w, r, err)
		return
	}
	item, err := apply(r.Context(), id, in, me.ID)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.OK(w, message, item)
}

func (h *Handler) CheckInventoryAlerts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	alerts, err := h.svc.Inventory.CheckAlerts(r.Context(), id)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.OK(w, "", alerts)
}

func (h *Handler) AcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	item, err := h.svc.Inventory.AcknowledgeAlert(r.Context(), id, mux.Vars(r)["alertId"])
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.OK(w, "Alert acknowledged", item)
}

func (h *Handler) InventoryAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.svc.Inventory.OpenAlerts(r.Context())
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.OK(w, "", alerts)
}
