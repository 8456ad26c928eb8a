package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type inventoryRepo struct{ db *DB }

func (r *inventoryRepo) Create(ctx context.Context, item *models.InventoryItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, i := range r.db.inventory {
		if i.Name == item.Name {
			return fmt.Errorf("%w: inventory item %s already exists", models.ErrConflict, item.Name)
		}
	}
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	r.db.inventory[item.ID] = cloneInventory(item)
	return nil
}

func (r *inventoryRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.InventoryItem, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i, ok := r.db.inventory[id]
	if !ok {
		return nil, fmt.Errorf("%w: inventory item %s", models.ErrNotFound, id.Hex())
	}
	return cloneInventory(i), nil
}

func (r *inventoryRepo) List(ctx context.Context, category string, page store.Page) ([]models.InventoryItem, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var out []models.InventoryItem
	for _, i := range r.db.inventory {
		if category != "" && i.Category != category {
			continue
		}
		out = append(out, *cloneInventory(i))
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return paginate(out, page), int64(len(out)), nil
}

func (r *inventoryRepo) Save(ctx context.Context, item *models.InventoryItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	cur, ok := r.db.inventory[item.ID]
	if !ok {
		return fmt.Errorf("%w: inventory item %s", models.ErrNotFound, item.ID.Hex())
	}
	if cur.Version != item.Version {
		return fmt.Errorf("%w: inventory item %s was modified concurrently", models.ErrConflict, item.Name)
	}
	item.Version++
	r.db.inventory[item.ID] = cloneInventory(item)
	return nil
}

func (r *inventoryRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.inventory[id]; !ok {
		return fmt.Errorf("%w: inventory item %s", models.ErrNotFound, id.Hex())
	}
	delete(r.db.inventory, id)
	return nil
}

func (r *inventoryRepo) WithOpenAlerts(ctx context.Context) ([]models.InventoryItem, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var out []models.InventoryItem
	for _, i := range r.db.inventory {
		if len(i.OpenAlerts()) > 0 {
			out = append(out, *cloneInventory(i))
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out, nil
}
