// Package creators — repository.go работает с таблицей creators.
package creators

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/reach-rewards-bot/internal/common"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Upsert добавляет креатора; при повторном вступлении обновляет имя и username.
func (r *Repository) Upsert(ctx context.Context, p Profile) error {
	query := `
		INSERT INTO creators (user_id, username, first_name, last_name, joined_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET username = EXCLUDED.username,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, p.UserID, p.Username, p.FirstName, p.LastName, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("ошибка создания/обновления креатора: %w", err)
	}
	return nil
}

// GetByUserID: если не найден — ошибка с common.ErrCreatorNotFound.
func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*Creator, error) {
	query := `
		SELECT id, user_id, username, first_name, last_name, joined_at, created_at, updated_at
		FROM creators
		WHERE user_id = $1
	`
	var c Creator
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&c.ID, &c.UserID, &c.Username, &c.FirstName, &c.LastName,
		&c.JoinedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w (user_id=%d)", common.ErrCreatorNotFound, userID)
		}
		return nil, fmt.Errorf("ошибка чтения креатора (user_id=%d): %w", userID, err)
	}
	return &c, nil
}

func (r *Repository) Exists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM creators WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки существования: %w", err)
	}
	return exists, nil
}

// Delete убирает креатора (вышел или исключён из чата).
func (r *Repository) Delete(ctx context.Context, userID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM creators WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("ошибка удаления креатора: %w", err)
	}
	return nil
}
