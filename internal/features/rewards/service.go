// Package rewards — service.go связывает чистый калькулятор с ботом:
// разбор ввода, выбор ставки, история расчётов и метрики.
package rewards

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/reach-rewards-bot/internal/common"
	"serotonyl.ru/reach-rewards-bot/internal/config"
	"serotonyl.ru/reach-rewards-bot/internal/metrics"
)

// HistoryStore — хранилище истории расчётов. В проде это *Repository.
type HistoryStore interface {
	Save(ctx context.Context, c *Calculation) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]*Calculation, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// Service — калькулятор наград для бота.
type Service struct {
	table   *TierTable       // Таблица тиров (неизменяемая)
	history HistoryStore     // История расчётов (может быть nil)
	metrics *metrics.Metrics // Счётчики (может быть nil)
	cfg     *config.Config   // Конфигурация
	now     func() time.Time
}

// NewService создаёт сервис наград.
// history == nil или FEATURE_HISTORY_ENABLED=false — история не ведётся.
func NewService(table *TierTable, history HistoryStore, m *metrics.Metrics, cfg *config.Config) *Service {
	if table == nil {
		table = DefaultTiers()
	}
	if !cfg.FeatureHistoryEnabled {
		history = nil
	}
	return &Service{
		table:   table,
		history: history,
		metrics: m,
		cfg:     cfg,
		now:     time.Now,
	}
}

// HistoryEnabled — ведётся ли история расчётов.
func (s *Service) HistoryEnabled() bool {
	return s.history != nil
}

// RetentionDays — сколько дней хранится история.
func (s *Service) RetentionDays() int {
	return s.cfg.RewardHistoryRetentionDays
}

// Estimate считает награду по тексту, введённому пользователем.
//
// Алгоритм:
//  1. Разбираем охват (ErrInvalidReach)
//  2. Ищем тир; ErrTierNotFound логируем громко, но расчёт не прерываем
//  3. Выбираем ставку: явная → ставка тира → REWARD_DEFAULT_RATE
//  4. Считаем награду (ErrInvalidRate при плохой явной ставке)
//  5. Пишем в историю; ошибка истории расчёт не ломает
func (s *Service) Estimate(ctx context.Context, userID int64, reachText, rateText string) (*Estimate, error) {
	logger := log.WithFields(log.Fields{"component": "rewards", "user_id": userID})

	// Шаг 1: охват
	reach, err := ParseReach(reachText)
	if err != nil {
		s.metrics.ObserveEstimate(metrics.OutcomeInvalidReach)
		logger.WithError(err).Debug("некорректный охват")
		return nil, err
	}

	// Шаг 2: тир
	est := &Estimate{}
	tier, err := s.classify(reach, logger)
	if err == nil {
		est.Tier = &tier
	}

	// Шаг 3: ставка
	rate, source, err := s.pickRate(rateText, est.Tier)
	if err != nil {
		s.metrics.ObserveEstimate(metrics.OutcomeInvalidRate)
		logger.WithError(err).Debug("некорректная ставка")
		return nil, err
	}
	est.RateSource = source
	est.Query = Query{Reach: reach, RatePerView: rate}

	// Шаг 4: расчёт
	res, err := est.Query.Compute()
	if err != nil {
		return nil, err
	}
	est.Result = res
	s.metrics.ObserveEstimate(metrics.OutcomeOK)

	// Шаг 5: история
	s.record(ctx, userID, est, logger)

	logger.WithFields(log.Fields{
		"reach":  reach.String(),
		"rate":   rate.String(),
		"source": source,
		"amount": res.Amount.String(),
	}).Debug("Награда рассчитана")

	return est, nil
}

// Classify разбирает охват и возвращает тир с примером награды.
func (s *Service) Classify(reachText string) (*TierRow, error) {
	reach, err := ParseReach(reachText)
	if err != nil {
		return nil, err
	}
	tier, err := s.classify(reach, log.WithField("component", "rewards"))
	if err != nil {
		return nil, err
	}
	return &TierRow{Tier: tier, Example: SuggestedExample(tier)}, nil
}

// Tiers возвращает все тиры с примерами для отображения.
func (s *Service) Tiers() []TierRow {
	tiers := s.table.Tiers()
	rows := make([]TierRow, 0, len(tiers))
	for _, t := range tiers {
		rows = append(rows, TierRow{Tier: t, Example: SuggestedExample(t)})
	}
	return rows
}

// History возвращает последние расчёты пользователя.
func (s *Service) History(ctx context.Context, userID int64) ([]*Calculation, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.ListByUser(ctx, userID, s.cfg.RewardHistoryLimit)
}

// PruneHistory удаляет расчёты старше REWARD_HISTORY_RETENTION_DAYS.
// Запускается кроном раз в сутки.
func (s *Service) PruneHistory(ctx context.Context) (int64, error) {
	if s.history == nil {
		return 0, nil
	}
	before := s.now().AddDate(0, 0, -s.cfg.RewardHistoryRetentionDays)
	n, err := s.history.DeleteBefore(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("ошибка очистки истории: %w", err)
	}
	log.WithFields(log.Fields{
		"deleted": n,
		"before":  before.Format(time.RFC3339),
	}).Info("История расчётов очищена")
	return n, nil
}

// classify ищет тир. ErrTierNotFound — поломка таблицы, пишем в Error.
func (s *Service) classify(reach decimal.Decimal, logger *log.Entry) (Tier, error) {
	tier, err := s.table.Classify(reach)
	switch {
	case err == nil:
		s.metrics.ObserveTier(tier.Label)
	case errors.Is(err, common.ErrTierNotFound):
		s.metrics.ObserveTier(metrics.TierNone)
		logger.WithError(err).WithField("reach", reach.String()).Error("Охват не покрыт таблицей тиров")
	}
	return tier, err
}

// pickRate выбирает ставку: явная → ставка тира → ставка по умолчанию.
func (s *Service) pickRate(rateText string, tier *Tier) (decimal.Decimal, RateSource, error) {
	if strings.TrimSpace(rateText) != "" {
		rate, err := ParseRate(rateText)
		if err != nil {
			return decimal.Zero, "", err
		}
		return rate, RateManual, nil
	}
	if tier != nil {
		return tier.RatePerView, RateTier, nil
	}
	return s.cfg.RewardDefaultRate, RateDefault, nil
}

func (s *Service) record(ctx context.Context, userID int64, est *Estimate, logger *log.Entry) {
	if s.history == nil {
		return
	}
	c := &Calculation{
		ID:          uuid.New(),
		UserID:      userID,
		Reach:       est.Query.Reach,
		RatePerView: est.Query.RatePerView,
		Amount:      est.Result.Amount,
		RateSource:  est.RateSource,
		CreatedAt:   s.now().UTC(),
	}
	if est.Tier != nil {
		c.TierLabel = est.Tier.Label
	}
	if err := s.history.Save(ctx, c); err != nil {
		s.metrics.ObserveHistoryError()
		logger.WithError(err).Warn("Не удалось сохранить расчёт в историю")
	}
}
