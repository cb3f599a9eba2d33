// Package rewards — repository.go хранит историю расчётов в таблице reward_calculations.
// NUMERIC передаём и читаем строками: так decimal не теряет точность.
package rewards

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository работает с таблицей reward_calculations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий истории расчётов.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Save записывает один расчёт.
func (r *Repository) Save(ctx context.Context, c *Calculation) error {
	query := `
		INSERT INTO reward_calculations
		    (id, user_id, reach, rate_per_view, amount, tier_label, rate_source, created_at)
		VALUES ($1, $2, $3::numeric, $4::numeric, $5::numeric, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		c.ID.String(), c.UserID,
		c.Reach.String(), c.RatePerView.String(), c.Amount.String(),
		c.TierLabel, string(c.RateSource), c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("ошибка записи расчёта: %w", err)
	}
	return nil
}

// ListByUser возвращает последние limit расчётов пользователя (новые первыми).
func (r *Repository) ListByUser(ctx context.Context, userID int64, limit int) ([]*Calculation, error) {
	query := `
		SELECT id::text, user_id, reach::text, rate_per_view::text, amount::text,
		       tier_label, rate_source, created_at
		FROM reward_calculations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса истории: %w", err)
	}
	defer rows.Close()

	var out []*Calculation
	for rows.Next() {
		var (
			c                    Calculation
			id, reach, rate, amt string
			source               string
		)
		if err := rows.Scan(&id, &c.UserID, &reach, &rate, &amt, &c.TierLabel, &source, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		if c.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("некорректный id %q: %w", id, err)
		}
		if c.Reach, err = decimal.NewFromString(reach); err != nil {
			return nil, fmt.Errorf("некорректный охват %q: %w", reach, err)
		}
		if c.RatePerView, err = decimal.NewFromString(rate); err != nil {
			return nil, fmt.Errorf("некорректная ставка %q: %w", rate, err)
		}
		if c.Amount, err = decimal.NewFromString(amt); err != nil {
			return nil, fmt.Errorf("некорректная сумма %q: %w", amt, err)
		}
		c.RateSource = RateSource(source)
		out = append(out, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return out, nil
}

// DeleteBefore удаляет расчёты старше before и возвращает, сколько удалено.
func (r *Repository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM reward_calculations WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("ошибка очистки истории: %w", err)
	}
	return tag.RowsAffected(), nil
}
