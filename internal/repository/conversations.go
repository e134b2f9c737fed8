package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/domain"
)

type ConversationRepo struct {
	db *pgxpool.Pool
}

func NewConversationRepo(db *pgxpool.Pool) *ConversationRepo {
	return &ConversationRepo{db: db}
}

func (r *ConversationRepo) Insert(ctx context.Context, turn *domain.ConversationTurn) error {
	const q = `
		INSERT INTO conversations (user_id, user_message, ai_response, grade)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, q,
		turn.UserID, turn.UserMessage, turn.AIResponse, string(turn.Grade),
	).Scan(&turn.ID, &turn.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert conversation: %w", err)
	}
	return nil
}

// ListRecentByUser returns up to limit of the user's most recent turns,
// ordered oldest first so the transcript reads top to bottom.
func (r *ConversationRepo) ListRecentByUser(ctx context.Context, userID int64, limit int) ([]domain.ConversationTurn, error) {
	const q = `
		SELECT id, user_id, user_message, ai_response, grade, created_at
		FROM (
			SELECT id, user_id, user_message, ai_response, grade, created_at
			FROM conversations
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var turns []domain.ConversationTurn
	for rows.Next() {
		var t domain.ConversationTurn
		var grade string
		if err := rows.Scan(&t.ID, &t.UserID, &t.UserMessage, &t.AIResponse, &grade, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		t.Grade = domain.Grade(grade)
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversations: %w", err)
	}
	return turns, nil
}
