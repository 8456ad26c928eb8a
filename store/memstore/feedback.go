package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type feedbackRepo struct{ db *DB }

func (r *feedbackRepo) Create(ctx context.Context, fb *models.Feedback) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if fb.ID.IsZero() {
		fb.ID = primitive.NewObjectID()
	}
	c := *fb
	r.db.feedback[fb.ID] = &c
	return nil
}

func (r *feedbackRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Feedback, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	fb, ok := r.db.feedback[id]
	if !ok {
		return nil, fmt.Errorf("%w: feedback %s", models.ErrNotFound, id.Hex())
	}
	c := *fb
	return &c, nil
}

func (r *feedbackRepo) List(ctx context.Context, filter store.FeedbackFilter, page store.Page) ([]models.Feedback, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var out []models.Feedback
	for _, fb := range r.db.feedback {
		if filter.User != nil && fb.User != *filter.User {
			continue
		}
		if filter.Status != "" && fb.Status != filter.Status {
			continue
		}
		if filter.Category != "" && fb.Category != filter.Category {
			continue
		}
		out = append(out, *fb)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, page), int64(len(out)), nil
}

func (r *feedbackRepo) Update(ctx context.Context, fb *models.Feedback) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.feedback[fb.ID]; !ok {
		return fmt.Errorf("%w: feedback %s", models.ErrNotFound, fb.ID.Hex())
	}
	c := *fb
	r.db.feedback[fb.ID] = &c
	return nil
}
