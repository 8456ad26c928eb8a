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

type paymentRepo struct {
	coll *mongo.Collection
}

func (r *paymentRepo) Create(ctx context.Context, p *models.Payment) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *paymentRepo) List(ctx context.Context, user *primitive.ObjectID, page store.Page) ([]models.Payment, int64, error) {
	query := bson.M{}
	if user != nil {
		query["user"] = *user
	}
	opts := helpers.NewMongoPaginate(page, bson.D{{Key: "createdAt", Value: -1}}).BuildFindOptions()

	out := []models.Payment{}
	total, err := findPage(ctx, r.coll, query, opts, &out)
	return out, total, err
}
