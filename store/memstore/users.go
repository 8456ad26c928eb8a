package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userRepo struct{ db *DB }

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("%w: email %s already registered", models.ErrConflict, user.Email)
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.db.users[user.ID] = cloneUser(user)
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, id.Hex())
	}
	return cloneUser(u), nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, email)
}

func (r *userRepo) List(ctx context.Context, filter store.UserFilter, page store.Page) ([]models.User, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	search := strings.ToLower(filter.Search)
	var out []models.User
	for _, u := range r.db.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(u.Name), search) && !strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		out = append(out, *cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, page), int64(len(out)), nil
}

func (r *userRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, id.Hex())
	}
	for k, v := range fields {
		switch val := v.(type) {
		case string:
			switch k {
			case "name":
				u.Name = val
			case "phone":
				u.Phone = val
			case "roomNumber":
				u.RoomNumber = val
			}
		case models.Asset:
			if k == "avatar" {
				u.Avatar = &val
			}
		}
	}
	u.UpdatedAt = time.Now()
	return cloneUser(u), nil
}

func (r *userRepo) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return fmt.Errorf("%w: user %s", models.ErrNotFound, id.Hex())
	}
	u.IsActive = active
	u.UpdatedAt = time.Now()
	return nil
}

func (r *userRepo) CreditWallet(ctx context.Context, id primitive.ObjectID, txn models.WalletTransaction) (*models.Wallet, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, id.Hex())
	}
	if _, err := u.Wallet.AddMoney(txn.Amount, txn.Description, txn.TransactionID, txn.Date); err != nil {
		return nil, err
	}
	return &cloneUser(u).Wallet, nil
}

func (r *userRepo) DebitWallet(ctx context.Context, id primitive.ObjectID, txn models.WalletTransaction) (*models.Wallet, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, id.Hex())
	}
	if _, err := u.Wallet.DeductMoney(txn.Amount, txn.Description, txn.TransactionID, txn.Date); err != nil {
		return nil, err
	}
	return &cloneUser(u).Wallet, nil
}

func (r *userRepo) IncrementStats(ctx context.Context, id primitive.ObjectID, bookings int, spent float64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return fmt.Errorf("%w: user %s", models.ErrNotFound, id.Hex())
	}
	u.Stats.TotalBookings += bookings
	u.Stats.TotalSpent += spent
	return nil
}
