package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/UmangSachdeva/MessMate/helpers"
	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userRepo struct {
	coll *mongo.Collection
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	// $push on a null array fails, so the ledger starts out empty.
	if user.Wallet.Transactions == nil {
		user.Wallet.Transactions = []models.WalletTransaction{}
	}
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return duplicate(err, "user "+user.Email)
	}
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, notFound(err, "user "+id.Hex())
	}
	return &user, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, notFound(err, "user "+email)
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context, filter store.UserFilter, page store.Page) ([]models.User, int64, error) {
	query := bson.M{}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{bson.M{"name": pattern}, bson.M{"email": pattern}}
	}
	opts := helpers.NewMongoPaginate(page, bson.D{{Key: "createdAt", Value: -1}}).BuildFindOptions().
		SetProjection(bson.M{"wallet.transactions": 0})

	users := []models.User{}
	total, err := findPage(ctx, r.coll, query, opts, &users)
	return users, total, err
}

func (r *userRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set[k] = v
	}
	var user models.User
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&user)
	if err != nil {
		return nil, notFound(err, "user "+id.Hex())
	}
	return &user, nil
}

func (r *userRepo) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"isActive": active, "updatedAt": time.Now()}})
	if err != nil {
		return fmt.Errorf("update user %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: user %s", models.ErrNotFound, id.Hex())
	}
	return nil
}

func (r *userRepo) CreditWallet(ctx context.Context, id primitive.ObjectID, txn models.WalletTransaction) (*models.Wallet, error) {
	update := bson.M{
		"$inc":  bson.M{"wallet.balance": txn.Amount},
		"$push": bson.M{"wallet.transactions": txn},
		"$set":  bson.M{"updatedAt": txn.Date},
	}
	return r.applyWallet(ctx, bson.M{"_id": id}, update, id)
}

func (r *userRepo) DebitWallet(ctx context.Context, id primitive.ObjectID, txn models.WalletTransaction) (*models.Wallet, error) {
	filter := bson.M{"_id": id, "wallet.balance": bson.M{"$gte": txn.Amount}}
	update := bson.M{
		"$inc":  bson.M{"wallet.balance": -txn.Amount},
		"$push": bson.M{"wallet.transactions": txn},
		"$set":  bson.M{"updatedAt": txn.Date},
	}
	wallet, err := r.applyWallet(ctx, filter, update, id)
	if errors.Is(err, models.ErrNotFound) {
		// the user exists but the balance filter rejected the debit
		if n, cerr := r.coll.CountDocuments(ctx, bson.M{"_id": id}); cerr == nil && n > 0 {
			return nil, fmt.Errorf("%w: required %.2f", models.ErrInsufficientBalance, txn.Amount)
		}
	}
	return wallet, err
}

func (r *userRepo) applyWallet(ctx context.Context, filter, update bson.M, id primitive.ObjectID) (*models.Wallet, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"wallet": 1})
	var user models.User
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user); err != nil {
		return nil, notFound(err, "user "+id.Hex())
	}
	return &user.Wallet, nil
}

func (r *userRepo) IncrementStats(ctx context.Context, id primitive.ObjectID, bookings int, spent float64) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"stats.totalBookings": bookings, "stats.totalSpent": spent},
	})
	if err != nil {
		return fmt.Errorf("update stats of %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: user %s", models.ErrNotFound, id.Hex())
	}
	return nil
}
