package handlers

import (
	"net/http"

	"github.com/UmangSachdeva/MessMate/helpers"
	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/services"
	"github.com/UmangSachdeva/MessMate/store"
)

func (h *Handler) ListMenu(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := helpers.PageFromRequest(r)
	filter := store.MenuFilter{MealType: models.MealType(q.Get("mealType"))}
	if filter.MealType != "" && !filter.MealType.Valid() {
		h.res.Fail(w, http.StatusBadRequest, "Invalid mealType")
		return
	}
	if d := q.Get("date"); d != "" {
		day, err := services.ParseDay(d)
		if err != nil {
			h.res.Error(w, r, err)
			return
		}
		filter.Date = day
	}
	if available, ok := queryBool(r, "available"); ok {
		filter.AvailableOnly = available
	}

	items, total, err := h.svc.Menu.List(r.Context(), filter, page)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.Page(w, items, helpers.NewPagination(page, total))
}

func (h *Handler) TodayMenu(w http.ResponseWriter, r *http.Request) {
	meal := models.MealType(r.URL.Query().Get("mealType"))
	if meal != "" && !meal.Valid() {
		h.res.Fail(w, http.StatusBadRequest, "Invalid mealType")
		return
	}
	items, err := h.svc.Menu.Today(r.Context(), meal)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.OK(w, "", items)
}

func (h *Handler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	item, err := h.svc.Menu.Get(r.Context(), id)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.OK(w, "", item)
}

func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	me, err := currentUser(r)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	var in services.MenuInput
	if err := helpers.DecodeJSON(r, &in); err != nil {
		h.res.Error(w, r, err)
		return
	}
	item, err := h.svc.Menu.Create(r.Context(), in, me.ID)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.Created(w, "Menu item created", item)
}

func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	var in services.MenuInput
	if err := helpers.DecodeJSON(r, &in); err != nil {
		h.res.Error(w, r, err)
		return
	}
	item, err := h.svc.Menu.Update(r.Context(), id, in)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.OK(w, "Menu item updated", item)
}

func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	if err := h.svc.Menu.Delete(r.Context(), id); err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.OK(w, "Menu item deleted", nil)
}

type availabilityRequest struct {
	IsAvailable *bool `json:"isAvailable" validate:"required"`
}

func (h *Handler) SetMenuAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	var in availabilityRequest
	if err := helpers.DecodeJSON(r, &in); err != nil {
		h.res.Error(w, r, err)
		return
	}
	item, err := h.svc.Menu.SetAvailability(r.Context(), id, *in.IsAvailable)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.OK(w, "Availability updated", item)
}

func (h *Handler) UploadMenuImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	file, name, err := uploadedFile(w, r, "image")
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	defer file.Close()

	item, err := h.svc.Menu.UploadImage(r.Context(), id, name, file)
	if err != nil {
		h.res.Error(w, r, err)
		return
	}
	h.res.OK(w, "Image uploaded", item)
}
