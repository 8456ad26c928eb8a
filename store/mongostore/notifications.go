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

type notificationRepo struct {
	coll *mongo.Collection
}

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *notificationRepo) ListFor(ctx context.Context, user primitive.ObjectID, role models.Role, page store.Page) ([]models.Notification, int64, error) {
	query := bson.M{"$or": bson.A{
		bson.M{"user": user},
		bson.M{"user": bson.M{"$exists": false}, "role": bson.M{"$in": bson.A{role, nil}}},
	}}
	opts := helpers.NewMongoPaginate(page, bson.D{{Key: "createdAt", Value: -1}}).BuildFindOptions()

	out := []models.Notification{}
	total, err := findPage(ctx, r.coll, query, opts, &out)
	return out, total, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, id, user primitive.ObjectID) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id, "user": user}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return fmt.Errorf("mark notification %s read: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: notification %s", models.ErrNotFound, id.Hex())
	}
	return nil
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, user primitive.ObjectID) (int64, error) {
	res, err := r.coll.UpdateMany(ctx, bson.M{"user": user, "read": false}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return res.ModifiedCount, nil
}
