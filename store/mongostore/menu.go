package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UmangSachdeva/MessMate/helpers"
	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type menuRepo struct {
	coll *mongo.Collection
}

func (r *menuRepo) Create(ctx context.Context, item *models.MenuItem) error {
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	if item.Items == nil {
		item.Items = []string{}
	}
	if _, err := r.coll.InsertOne(ctx, item); err != nil {
		return duplicate(err, "menu item "+item.Name)
	}
	return nil
}

func (r *menuRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return nil, notFound(err, "menu item "+id.Hex())
	}
	return &item, nil
}

func (r *menuRepo) List(ctx context.Context, filter store.MenuFilter, page store.Page) ([]models.MenuItem, int64, error) {
	query := bson.M{}
	if !filter.Date.IsZero() {
		start, end := dayBounds(filter.Date)
		query["date"] = bson.M{"$gte": start, "$lt": end}
	}
	if filter.MealType != "" {
		query["mealType"] = filter.MealType
	}
	if filter.AvailableOnly {
		query["isAvailable"] = true
	}
	opts := helpers.NewMongoPaginate(page, bson.D{{Key: "date", Value: 1}, {Key: "mealType", Value: 1}}).BuildFindOptions()

	items := []models.MenuItem{}
	total, err := findPage(ctx, r.coll, query, opts, &items)
	return items, total, err
}

func (r *menuRepo) Update(ctx context.Context, item *models.MenuItem) error {
	raw, err := bson.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode menu item %s: %w", item.ID.Hex(), err)
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("encode menu item %s: %w", item.ID.Hex(), err)
	}
	delete(fields, "_id")
	delete(fields, "currentQuantity")

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": item.ID}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("replace menu item %s: %w", item.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: menu item %s", models.ErrNotFound, item.ID.Hex())
	}
	return nil
}

func (r *menuRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete menu item %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: menu item %s", models.ErrNotFound, id.Hex())
	}
	return nil
}

func (r *menuRepo) ReduceQuantity(ctx context.Context, id primitive.ObjectID, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be at least 1", models.ErrValidation)
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "currentQuantity": bson.M{"$gte": quantity}},
		bson.M{"$inc": bson.M{"currentQuantity": -quantity}, "$set": bson.M{"updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("reduce quantity of %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		if _, ferr := r.FindByID(ctx, id); errors.Is(ferr, models.ErrNotFound) {
			return ferr
		}
		return fmt.Errorf("%w: menu item %s", models.ErrInsufficientQuantity, id.Hex())
	}
	return nil
}

func (r *menuRepo) RestoreQuantity(ctx context.Context, id primitive.ObjectID, quantity int) error {
	// capped at maxQuantity when one is set, evaluated server side
	restored := bson.M{"$add": bson.A{"$currentQuantity", quantity}}
	update := mongo.Pipeline{{{Key: "$set", Value: bson.M{
		"currentQuantity": bson.M{"$cond": bson.A{
			bson.M{"$gt": bson.A{"$maxQuantity", 0}},
			bson.M{"$min": bson.A{restored, "$maxQuantity"}},
			restored,
		}},
		"updatedAt": time.Now(),
	}}}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("restore quantity of %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: menu item %s", models.ErrNotFound, id.Hex())
	}
	return nil
}
