package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/UmangSachdeva/MessMate/helpers"
	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/store"
	"github.com/UmangSachdeva/MessMate/utils"
	"github.com/sirupsen/logrus"
)

type AuthService struct {
	users  store.UserRepository
	tokens *utils.TokenIssuer
	log    *logrus.Entry
	now    Clock
}

func NewAuthService(users store.UserRepository, tokens *utils.TokenIssuer, log *logrus.Entry, now Clock) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		log:    log.WithField("component", "auth"),
		now:    clockOrNow(now),
	}
}

type RegisterInput struct {
	Name       string      `json:"name" validate:"required,min=2,max=50"`
	Email      string      `json:"email" validate:"required,email"`
	Password   string      `json:"password" validate:"required,min=6"`
	Role       models.Role `json:"role" validate:"omitempty,oneof=student staff"`
	Phone      string      `json:"phone" validate:"omitempty,min=10,max=15"`
	RoomNumber string      `json:"roomNumber" validate:"omitempty,max=20"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates an active account with an empty wallet. Admin accounts
// cannot be self-registered.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	if in.Role == "" {
		in.Role = models.RoleStudent
	}
	if in.Role == models.RoleAdmin {
		return AuthResult{}, fmt.Errorf("%w: admin accounts cannot self-register", models.ErrForbidden)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return AuthResult{}, err
	}

	now := s.now()
	user := &models.User{
		Name:       strings.TrimSpace(in.Name),
		Email:      strings.ToLower(strings.TrimSpace(in.Email)),
		Password:   hash,
		Role:       in.Role,
		Phone:      in.Phone,
		RoomNumber: in.RoomNumber,
		IsActive:   true,
		Wallet:     models.Wallet{Transactions: []models.WalletTransaction{}},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return AuthResult{}, err
	}
	s.log.WithFields(logrus.Fields{"user": user.ID.Hex(), "role": user.Role}).Info("User registered")
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return AuthResult{}, fmt.Errorf("%w: invalid email or password", models.ErrUnauthorized)
		}
		return AuthResult{}, err
	}
	if !helpers.CheckPassword(user.Password, in.Password) {
		return AuthResult{}, fmt.Errorf("%w: invalid email or password", models.ErrUnauthorized)
	}
	if !user.IsActive {
		return AuthResult{}, fmt.Errorf("%w: account is deactivated", models.ErrForbidden)
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (AuthResult, error) {
	token, err := s.tokens.GenerateToken(user.ID.Hex(), string(user.Role))
	if err != nil {
		return AuthResult{}, fmt.Errorf("sign token: %w", err)
	}
	return AuthResult{User: user, Token: token}, nil
}
