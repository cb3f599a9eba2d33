// Package metrics собирает счётчики Prometheus и отдаёт их по HTTP.
// Реестр свой (не глобальный), чтобы тесты не конфликтовали между собой.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Исходы расчёта награды (label "outcome").
const (
	OutcomeOK           = "ok"
	OutcomeInvalidReach = "invalid_reach"
	OutcomeInvalidRate  = "invalid_rate"
)

// TierNone — label "tier" для охвата, не покрытого таблицей.
const TierNone = "none"

// Metrics — все счётчики бота. nil-безопасен: методы на nil ничего не делают.
type Metrics struct {
	registry *prometheus.Registry

	estimates       *prometheus.CounterVec
	classifications *prometheus.CounterVec
	historyErrors   prometheus.Counter
	updates         prometheus.Counter
	rateLimited     prometheus.Counter
}

// New создаёт реестр и регистрирует в нём счётчики.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		estimates: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reward_estimates_total",
			Help: "Расчёты награды по исходу.",
		}, []string{"outcome"}),
		classifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reward_tier_classifications_total",
			Help: "Классификации охвата по тирам.",
		}, []string{"tier"}),
		historyErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "reward_history_errors_total",
			Help: "Ошибки записи истории расчётов.",
		}),
		updates: f.NewCounter(prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Обработанные апдейты Telegram.",
		}),
		rateLimited: f.NewCounter(prometheus.CounterOpts{
			Name: "bot_rate_limited_total",
			Help: "Сообщения, отброшенные rate limiter'ом.",
		}),
	}
}

// Registry возвращает реестр (для тестов и HTTP-хендлера).
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveEstimate учитывает расчёт с указанным исходом.
func (m *Metrics) ObserveEstimate(outcome string) {
	if m == nil {
		return
	}
	m.estimates.WithLabelValues(outcome).Inc()
}

// ObserveTier учитывает попадание охвата в тир.
func (m *Metrics) ObserveTier(label string) {
	if m == nil {
		return
	}
	m.classifications.WithLabelValues(label).Inc()
}

// ObserveHistoryError учитывает неудачную запись в историю.
func (m *Metrics) ObserveHistoryError() {
	if m == nil {
		return
	}
	m.historyErrors.Inc()
}

// ObserveUpdate учитывает обработанный апдейт.
func (m *Metrics) ObserveUpdate() {
	if m == nil {
		return
	}
	m.updates.Inc()
}

// ObserveRateLimited учитывает отброшенное сообщение.
func (m *Metrics) ObserveRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

// Handler возвращает HTTP-хендлер /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve поднимает HTTP-сервер метрик и гасит его по отмене контекста.
// Пустой addr — сервер не поднимается.
func (m *Metrics) Serve(ctx context.Context, addr string) {
	if m == nil || addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Ошибка остановки сервера метрик")
		}
	}()

	log.WithField("addr", addr).Info("Сервер метрик запущен")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("Сервер метрик упал")
	}
}
