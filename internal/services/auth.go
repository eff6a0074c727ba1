package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/medconnect-api/internal/models"
	"github.com/harentsoaR/medconnect-api/internal/store"
	"github.com/harentsoaR/medconnect-api/internal/utils"
)

type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
	IsDoctor    bool
}

// ProfileUpdate carries the profile fields to change. Nil fields are kept.
type ProfileUpdate struct {
	Name        *string
	Email       *string
	Password    *string
	PhoneNumber *string
}

// AuthResult is a user together with a freshly issued token.
type AuthResult struct {
	models.UserPublic
	Token string `json:"token"`
}

type AuthService struct {
	users  UserRepository
	hasher *utils.PasswordHasher
	tokens *utils.TokenIssuer
	log    *logrus.Logger
}

func NewAuthService(users UserRepository, hasher *utils.PasswordHasher, tokens *utils.TokenIssuer, log *logrus.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, log: log}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, &ValidationError{Message: "please provide name, email and password"}
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:        in.Name,
		Email:       in.Email,
		Password:    hash,
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		IsDoctor:    in.IsDoctor,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	// The insert is durable once acknowledged. This read only reports
	// replication lag or a misrouted read and never fails the request.
	if got, err := s.users.FindByEmail(ctx, user.Email); err != nil || got.ID != user.ID {
		if err == nil {
			err = fmt.Errorf("email resolves to %s", got.ID.Hex())
		}
		s.log.WithFields(logrus.Fields{
			"user_id": user.ID.Hex(),
			"error":   fmt.Errorf("%w: %v", ErrConsistency, err),
		}).Warn("registered user not yet visible on read")
	}

	s.log.WithField("user_id", user.ID.Hex()).Info("user registered")
	return s.result(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !s.hasher.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.result(user)
}

func (s *AuthService) Profile(ctx context.Context, userID primitive.ObjectID) (*models.UserPublic, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	pub := user.Public()
	return &pub, nil
}

// UpdateProfile applies the given changes and returns a new token.
func (s *AuthService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, upd ProfileUpdate) (*AuthResult, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil && strings.TrimSpace(*upd.Name) != "" {
		user.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Email != nil && normalizeEmail(*upd.Email) != "" {
		email := normalizeEmail(*upd.Email)
		if email != user.Email {
			existing, err := s.users.FindByEmail(ctx, email)
			switch {
			case err == nil && existing.ID != user.ID:
				return nil, ErrDuplicateEmail
			case err != nil && !errors.Is(err, store.ErrNotFound):
				return nil, fmt.Errorf("lookup user: %w", err)
			}
			user.Email = email
		}
	}
	if upd.Password != nil && *upd.Password != "" {
		hash, err := s.hasher.HashPassword(*upd.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.Password = hash
	}
	if upd.PhoneNumber != nil {
		user.PhoneNumber = strings.TrimSpace(*upd.PhoneNumber)
	}

	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicate):
			return nil, ErrDuplicateEmail
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return s.result(user)
}

func (s *AuthService) findUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *AuthService) result(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{UserPublic: user.Public(), Token: token}, nil
}
