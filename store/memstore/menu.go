package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type menuRepo struct{ db *DB }

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (r *menuRepo) Create(ctx context.Context, item *models.MenuItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	c := *item
	r.db.menu[item.ID] = &c
	return nil
}

func (r *menuRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.MenuItem, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	m, ok := r.db.menu[id]
	if !ok {
		return nil, fmt.Errorf("%w: menu item %s", models.ErrNotFound, id.Hex())
	}
	c := *m
	return &c, nil
}

func (r *menuRepo) List(ctx context.Context, filter store.MenuFilter, page store.Page) ([]models.MenuItem, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var out []models.MenuItem
	for _, m := range r.db.menu {
		if !filter.Date.IsZero() && !sameDay(m.Date, filter.Date) {
			continue
		}
		if filter.MealType != "" && m.MealType != filter.MealType {
			continue
		}
		if filter.AvailableOnly && !m.IsAvailable {
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].MealType.StartOn(out[i].Date).Before(out[j].MealType.StartOn(out[j].Date))
	})
	return paginate(out, page), int64(len(out)), nil
}

func (r *menuRepo) Update(ctx context.Context, item *models.MenuItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored, ok := r.db.menu[item.ID]
	if !ok {
		return fmt.Errorf("%w: menu item %s", models.ErrNotFound, item.ID.Hex())
	}
	c := *item
	c.CurrentQuantity = stored.CurrentQuantity
	r.db.menu[item.ID] = &c
	return nil
}

func (r *menuRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.menu[id]; !ok {
		return fmt.Errorf("%w: menu item %s", models.ErrNotFound, id.Hex())
	}
	delete(r.db.menu, id)
	return nil
}

func (r *menuRepo) ReduceQuantity(ctx context.Context, id primitive.ObjectID, quantity int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	m, ok := r.db.menu[id]
	if !ok {
		return fmt.Errorf("%w: menu item %s", models.ErrNotFound, id.Hex())
	}
	return m.ReduceQuantity(quantity)
}

func (r *menuRepo) RestoreQuantity(ctx context.Context, id primitive.ObjectID, quantity int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	m, ok := r.db.menu[id]
	if !ok {
		return fmt.Errorf("%w: menu item %s", models.ErrNotFound, id.Hex())
	}
	m.RestoreQuantity(quantity)
	return nil
}
