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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type inventoryRepo struct {
	coll *mongo.Collection
}

func (r *inventoryRepo) Create(ctx context.Context, item *models.InventoryItem) error {
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	if item.StockMovements == nil {
		item.StockMovements = []models.StockMovement{}
	}
	if item.Alerts == nil {
		item.Alerts = []models.Alert{}
	}
	if _, err := r.coll.InsertOne(ctx, item); err != nil {
		return duplicate(err, "inventory item "+item.Name)
	}
	return nil
}

func (r *inventoryRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return nil, notFound(err, "inventory item "+id.Hex())
	}
	return &item, nil
}

func (r *inventoryRepo) List(ctx context.Context, category string, page store.Page) ([]models.InventoryItem, int64, error) {
	query := bson.M{}
	if category != "" {
		query["category"] = category
	}
	opts := helpers.NewMongoPaginate(page, bson.D{{Key: "name", Value: 1}}).BuildFindOptions().
		SetProjection(bson.M{"stockMovements": bson.M{"$slice": -20}})

	items := []models.InventoryItem{}
	total, err := findPage(ctx, r.coll, query, opts, &items)
	return items, total, err
}

func (r *inventoryRepo) Save(ctx context.Context, item *models.InventoryItem) error {
	expected := item.Version
	item.Version++
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": item.ID, "version": expected}, item)
	if err != nil {
		item.Version = expected
		return fmt.Errorf("save inventory item %s: %w", item.Name, err)
	}
	if res.MatchedCount == 0 {
		item.Version = expected
		if _, ferr := r.FindByID(ctx, item.ID); ferr != nil {
			return ferr
		}
		return fmt.Errorf("%w: inventory item %s was modified concurrently", models.ErrConflict, item.Name)
	}
	return nil
}

func (r *inventoryRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete inventory item %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: inventory item %s", models.ErrNotFound, id.Hex())
	}
	return nil
}

func (r *inventoryRepo) WithOpenAlerts(ctx context.Context) ([]models.InventoryItem, error) {
	filter := bson.M{"alerts": bson.M{"$elemMatch": bson.M{"acknowledged": false}}}
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetProjection(bson.M{"stockMovements": 0})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find inventory alerts: %w", err)
	}
	defer cursor.Close(ctx)

	items := []models.InventoryItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode inventory alerts: %w", err)
	}
	return items, nil
}
