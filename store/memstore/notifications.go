package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type notificationRepo struct{ db *DB }

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	c := *n
	r.db.notifications[n.ID] = &c
	return nil
}

func addressedTo(n *models.Notification, user primitive.ObjectID, role models.Role) bool {
	if n.User != nil {
		return *n.User == user
	}
	return n.Role == "" || n.Role == role
}

func (r *notificationRepo) ListFor(ctx context.Context, user primitive.ObjectID, role models.Role, page store.Page) ([]models.Notification, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var out []models.Notification
	for _, n := range r.db.notifications {
		if addressedTo(n, user, role) {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, page), int64(len(out)), nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, id, user primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	n, ok := r.db.notifications[id]
	if !ok || n.User == nil || *n.User != user {
		return fmt.Errorf("%w: notification %s", models.ErrNotFound, id.Hex())
	}
	n.Read = true
	return nil
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, user primitive.ObjectID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var n int64
	for _, item := range r.db.notifications {
		if item.User != nil && *item.User == user && !item.Read {
			item.Read = true
			n++
		}
	}
	return n, nil
}
