// Package rewards — handlers.go обрабатывает команды:
// !награда (расчёт), !тир (классификация), !тиры (таблица), !история.
package rewards

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/reach-rewards-bot/internal/common"
)

// Handler обрабатывает команды калькулятора наград.
type Handler struct {
	service *Service       // Сервис наград
	bot     common.Sender  // Отправка ответов
	loc     *time.Location // Часовой пояс для дат в истории
}

// NewHandler создаёт обработчик команд наград.
func NewHandler(service *Service, bot common.Sender, loc *time.Location) *Handler {
	return &Handler{service: service, bot: bot, loc: loc}
}

// HandleReward обрабатывает команду !награда <охват> [ставка].
//
// Формат ответа:
//
//	💰 Примерная награда: $500.00
//	Охват: 50 000 × $0.01 за просмотр
//	🏷 Тир: Growing (рекомендуемая ставка $0.01)
func (h *Handler) HandleReward(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) == 0 {
		h.sendMessage(chatID, "❌ Формат: !награда <охват> [ставка за просмотр]\nПример: !награда 50000 0.01")
		return
	}
	reachText, rateText := splitReachArgs(args)

	est, err := h.service.Estimate(ctx, userID, reachText, rateText)
	if err != nil {
		h.sendMessage(chatID, errorText(err))
		return
	}

	h.sendMessage(chatID, FormatEstimate(est))
}

// HandleTier обрабатывает команду !тир <охват>.
func (h *Handler) HandleTier(ctx context.Context, chatID int64, args []string) {
	if len(args) == 0 {
		h.sendMessage(chatID, "❌ Формат: !тир <охват>")
		return
	}

	reachText, _ := splitReachArgs(args)
	row, err := h.service.Classify(reachText)
	if err != nil {
		h.sendMessage(chatID, errorText(err))
		return
	}

	text := fmt.Sprintf("🏷 Тир: %s\nРекомендуемая ставка: $%s за просмотр\n%s",
		row.Tier.Label, row.Tier.RatePerView.String(), formatRange(row.Tier))
	h.sendMessage(chatID, text)
}

// HandleTiers обрабатывает команду !тиры — таблица тиров с примером на 50K.
func (h *Handler) HandleTiers(ctx context.Context, chatID int64) {
	var sb strings.Builder
	sb.WriteString("📊 Тиры наград\n\n")
	for _, row := range h.service.Tiers() {
		sb.WriteString(fmt.Sprintf("%s — $%s/просмотр\n%s\nПример: 50K просмотров = %s\n\n",
			row.Tier.Label,
			row.Tier.RatePerView.String(),
			formatRange(row.Tier),
			common.FormatMoney(row.Example),
		))
	}
	h.sendMessage(chatID, strings.TrimRight(sb.String(), "\n"))
}

// HandleHistory обрабатывает команду !история — последние расчёты пользователя.
func (h *Handler) HandleHistory(ctx context.Context, chatID, userID int64) {
	if !h.service.HistoryEnabled() {
		h.sendMessage(chatID, "📋 История расчётов отключена")
		return
	}

	calcs, err := h.service.History(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка получения истории расчётов")
		h.sendMessage(chatID, "❌ Ошибка получения истории")
		return
	}
	if len(calcs) == 0 {
		h.sendMessage(chatID, "📋 Вы ещё ничего не рассчитывали")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 Последние расчёты (%d):\n\n", len(calcs)))
	for i, c := range calcs {
		tier := c.TierLabel
		if tier == "" {
			tier = "—"
		}
		sb.WriteString(fmt.Sprintf("%d. %s | %s × $%s = %s | %s\n",
			i+1,
			common.FormatDateTime(c.CreatedAt, h.loc),
			common.FormatReach(c.Reach),
			c.RatePerView.String(),
			common.FormatMoney(c.Amount),
			tier,
		))
	}
	days := h.service.RetentionDays()
	sb.WriteString(fmt.Sprintf("\nРасчёты хранятся %d %s", days, common.PluralizeDays(days)))
	h.sendMessage(chatID, sb.String())
}

// splitReachArgs склеивает охват, записанный с пробелами ("50 000"):
// за первым словом забираются группы ровно из трёх цифр. Следующее слово — ставка.
func splitReachArgs(args []string) (reach, rate string) {
	n := 1
	for n < len(args) && isThousandsGroup(args[n]) {
		n++
	}
	reach = strings.Join(args[:n], " ")
	if n < len(args) {
		rate = args[n]
	}
	return reach, rate
}

func isThousandsGroup(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatEstimate собирает текст ответа на расчёт.
func FormatEstimate(est *Estimate) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("💰 Примерная награда: $%s\n", est.Result.Display()))
	sb.WriteString(fmt.Sprintf("Охват: %s × $%s за просмотр",
		common.FormatReach(est.Query.Reach), est.Query.RatePerView.String()))

	switch est.RateSource {
	case RateTier:
		sb.WriteString(" (ставка тира)")
	case RateDefault:
		sb.WriteString(" (ставка по умолчанию)")
	}

	if est.Tier != nil {
		sb.WriteString(fmt.Sprintf("\n🏷 Тир: %s (рекомендуемая ставка $%s)",
			est.Tier.Label, est.Tier.RatePerView.String()))
	}
	return sb.String()
}

// formatRange — "10 001 – 50 000 просмотров" или "100 001+ просмотров".
func formatRange(t Tier) string {
	if t.IsUnbounded() {
		return fmt.Sprintf("%s – ∞ просмотров", common.FormatNumber(t.MinReach))
	}
	return fmt.Sprintf("%s – %s %s",
		common.FormatNumber(t.MinReach), common.FormatNumber(t.MaxReach), common.PluralizeViews(t.MaxReach))
}

// errorText переводит ошибку калькулятора в сообщение пользователю.
func errorText(err error) string {
	switch {
	case errors.Is(err, common.ErrInvalidReach):
		return "❌ Охват должен быть положительным числом не больше 10¹⁵"
	case errors.Is(err, common.ErrInvalidRate):
		return "❌ Ставка за просмотр должна быть положительным числом не больше $1000"
	case errors.Is(err, common.ErrTierNotFound):
		return "⚠️ Для такого охвата нет тира, сообщите администратору"
	default:
		log.WithError(err).Error("Ошибка калькулятора наград")
		return "❌ Не удалось рассчитать награду"
	}
}

// sendMessage — вспомогательный метод для отправки текстовых сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
