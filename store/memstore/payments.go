package memstore

import (
	"context"
	"sort"

	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type paymentRepo struct{ db *DB }

func (r *paymentRepo) Create(ctx context.Context, p *models.Payment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	c := *p
	r.db.payments[p.ID] = &c
	return nil
}

func (r *paymentRepo) List(ctx context.Context, user *primitive.ObjectID, page store.Page) ([]models.Payment, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var out []models.Payment
	for _, p := range r.db.payments {
		if user != nil && p.User != *user {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, page), int64(len(out)), nil
}
