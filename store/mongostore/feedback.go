package mongostore

import (
	"context"
	"fmt"

	"github.com/UmangSachdeva/MessMate/helpers"
	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type feedbackRepo struct {
	coll *mongo.Collection
}

func (r *feedbackRepo) Create(ctx context.Context, fb *models.Feedback) error {
	if fb.ID.IsZero() {
		fb.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, fb); err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

func (r *feedbackRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Feedback, error) {
	var fb models.Feedback
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&fb); err != nil {
		return nil, notFound(err, "feedback "+id.Hex())
	}
	return &fb, nil
}

func (r *feedbackRepo) List(ctx context.Context, filter store.FeedbackFilter, page store.Page) ([]models.Feedback, int64, error) {
	query := bson.M{}
	if filter.User != nil {
		query["user"] = *filter.User
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	opts := helpers.NewMongoPaginate(page, bson.D{{Key: "createdAt", Value: -1}}).BuildFindOptions()

	out := []models.Feedback{}
	total, err := findPage(ctx, r.coll, query, opts, &out)
	return out, total, err
}

func (r *feedbackRepo) Update(ctx context.Context, fb *models.Feedback) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": fb.ID}, fb)
	if err != nil {
		return fmt.Errorf("replace feedback %s: %w", fb.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: feedback %s", models.ErrNotFound, fb.ID.Hex())
	}
	return nil
}
