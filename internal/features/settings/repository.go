// Package settings — repository.go работает с таблицей creator_settings.
package settings

import (
	"context"
	"errors"
	"fmt"

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

// Get: если записи нет — ошибка с common.ErrSettingsNotFound.
func (r *Repository) Get(ctx context.Context, userID int64) (*Record, error) {
	query := `
		SELECT user_id, app_id, app_secret_enc, business_account_id, access_token_enc, updated_at
		FROM creator_settings
		WHERE user_id = $1
	`
	var rec Record
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&rec.UserID, &rec.AppID, &rec.AppSecretEnc, &rec.BusinessAccountID, &rec.AccessTokenEnc, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w (user_id=%d)", common.ErrSettingsNotFound, userID)
		}
		return nil, fmt.Errorf("ошибка чтения настроек: %w", err)
	}
	return &rec, nil
}

// Upsert сохраняет запись целиком.
func (r *Repository) Upsert(ctx context.Context, rec *Record) error {
	query := `
		INSERT INTO creator_settings
		    (user_id, app_id, app_secret_enc, business_account_id, access_token_enc, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET app_id = EXCLUDED.app_id,
		    app_secret_enc = EXCLUDED.app_secret_enc,
		    business_account_id = EXCLUDED.business_account_id,
		    access_token_enc = EXCLUDED.access_token_enc,
		    updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.Exec(ctx, query,
		rec.UserID, rec.AppID, rec.AppSecretEnc, rec.BusinessAccountID, rec.AccessTokenEnc, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("ошибка сохранения настроек: %w", err)
	}
	return nil
}

// Delete удаляет настройки пользователя. Возвращает false, если удалять было нечего.
func (r *Repository) Delete(ctx context.Context, userID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM creator_settings WHERE user_id = $1`, userID)
	if err != nil {
		return false, fmt.Errorf("ошибка удаления настроек: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
