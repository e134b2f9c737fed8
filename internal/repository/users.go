package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/domain"
)

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, telegram_id, first_name, username, grade, is_admin, last_interaction, created_at, updated_at`

func (r *UserRepo) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, q, telegramID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (r *UserRepo) Create(ctx context.Context, telegramID int64, firstName, username string, isAdmin bool) (*domain.User, error) {
	q := `
		INSERT INTO users (telegram_id, first_name, username, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns
	user, err := scanUser(r.db.QueryRow(ctx, q, telegramID, firstName, username, isAdmin))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (r *UserRepo) SetGrade(ctx context.Context, userID int64, grade domain.Grade) error {
	const q = `UPDATE users SET grade = $2, updated_at = now() WHERE id = $1`
	if _, err := r.db.Exec(ctx, q, userID, string(grade)); err != nil {
		return fmt.Errorf("set user grade: %w", err)
	}
	return nil
}

func (r *UserRepo) UpdateInfo(ctx context.Context, userID int64, firstName, username string) error {
	const q = `UPDATE users SET first_name = $2, username = $3, updated_at = now() WHERE id = $1`
	if _, err := r.db.Exec(ctx, q, userID, firstName, username); err != nil {
		return fmt.Errorf("update user info: %w", err)
	}
	return nil
}

func (r *UserRepo) UpdateLastInteraction(ctx context.Context, userID int64) error {
	const q = `UPDATE users SET last_interaction = now() WHERE id = $1`
	if _, err := r.db.Exec(ctx, q, userID); err != nil {
		return fmt.Errorf("update last interaction: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var grade string
	err := row.Scan(
		&u.ID, &u.TelegramID, &u.FirstName, &u.Username, &grade,
		&u.IsAdmin, &u.LastInteraction, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Grade = domain.Grade(grade)
	return &u, nil
}
