package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/domain"
)

// UserStore is the persistence surface the user service needs.
type UserStore interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	Create(ctx context.Context, telegramID int64, firstName, username string, isAdmin bool) (*domain.User, error)
	SetGrade(ctx context.Context, userID int64, grade domain.Grade) error
	UpdateInfo(ctx context.Context, userID int64, firstName, username string) error
	UpdateLastInteraction(ctx context.Context, userID int64) error
}

type UserService struct {
	store UserStore
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

// FindOrCreate registers the Telegram user on first contact. The second
// return value reports whether the user is new.
func (s *UserService) FindOrCreate(ctx context.Context, telegramID int64, firstName, username string, isAdmin bool) (*domain.User, bool, error) {
	user, err := s.store.GetByTelegramID(ctx, telegramID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, fmt.Errorf("get user: %w", err)
	}

	user, err = s.store.Create(ctx, telegramID, firstName, username, isAdmin)
	if err != nil {
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	return user, true, nil
}

func (s *UserService) SetGrade(ctx context.Context, user *domain.User, grade domain.Grade) error {
	if err := s.store.SetGrade(ctx, user.ID, grade); err != nil {
		return err
	}
	user.Grade = grade
	return nil
}

func (s *UserService) UpdateInfo(ctx context.Context, userID int64, firstName, username string) error {
	return s.store.UpdateInfo(ctx, userID, firstName, username)
}

func (s *UserService) UpdateLastInteraction(ctx context.Context, userID int64) error {
	return s.store.UpdateLastInteraction(ctx, userID)
}
