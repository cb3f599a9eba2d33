// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: ежедневная очистка истории расчётов.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// PruneSpec — ежедневно в 03:00 по APP_TIMEZONE.
const PruneSpec = "0 3 * * *"

// HistoryPruner — то, что умеет чистить старую историю (rewards.Service).
type HistoryPruner interface {
	PruneHistory(ctx context.Context) (int64, error)
}

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron   *cron.Cron
	pruner HistoryPruner
	loc    *time.Location
}

// NewScheduler создаёт планировщик в заданном часовом поясе.
func NewScheduler(pruner HistoryPruner, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		pruner: pruner,
		loc:    loc,
	}
}

// Start регистрирует задачи и запускает cron.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(PruneSpec, func() { s.pruneHistory(ctx) }); err != nil {
		return fmt.Errorf("ошибка регистрации задачи очистки: %w", err)
	}

	s.cron.Start()
	log.WithField("timezone", s.loc.String()).Info("Планировщик задач запущен")
	return nil
}

// Stop останавливает планировщик и ждёт завершения текущих задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}

// Entries — число зарегистрированных задач.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) pruneHistory(ctx context.Context) {
	log.Info("[CRON] Очистка истории расчётов")
	n, err := s.pruner.PruneHistory(ctx)
	if err != nil {
		log.WithError(err).Error("[CRON] Ошибка очистки истории")
		return
	}
	log.WithField("deleted", n).Info("[CRON] Очистка истории завершена")
}
