package bot

import (
	"context"
	"fmt"
	"strings"

	"faresbot/internal/events"
	"faresbot/internal/funnel"
	"faresbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) handleMessage(ctx context.Context, update tgbotapi.Update) {
	l := zerolog.Ctx(ctx)
	msg := update.Message
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	if b.isOperator(msg.From.ID) {
		switch msg.Command() {
		case "stats":
			b.handleStats(ctx, chatID)
			return
		case "export":
			b.handleExport(ctx, chatID)
			return
		}
	}

	if text == "" {
		return
	}

	ev := funnel.Event{Kind: funnel.KindText, Text: text}
	if msg.IsCommand() && msg.Command() == "start" || strings.EqualFold(text, "начать") {
		ev = funnel.Event{Kind: funnel.KindStart}
	}

	lead, err := b.store.GetLead(ctx, chatID)
	if err != nil {
		l.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to load lead")
		return
	}
	if lead == nil {
		// Текст до /start молча игнорируем, запись создает только старт
		if ev.Kind != funnel.KindStart {
			return
		}
		lead = funnel.NewLead(chatID)
	}

	if ev.Kind == funnel.KindStart {
		b.trackFunnelStart(chatID)
	}

	b.applyTransition(ctx, lead, ev, "")
}

func (b *Bot) handleCallbackQuery(ctx context.Context, update tgbotapi.Update) {
	l := zerolog.Ctx(ctx)
	cb := update.CallbackQuery
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	lead, err := b.store.GetLead(ctx, chatID)
	if err != nil {
		l.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to load lead")
		return
	}
	if lead == nil {
		if err := b.tgService.AnswerCallback(cb.ID, funnel.StartHintText); err != nil {
			b.logger.Error().Err(err).Msg("Failed to answer callback")
		}
		return
	}

	ev := funnel.Event{
		Kind:      funnel.KindButton,
		Token:     cb.Data,
		MessageID: cb.Message.MessageID,
		Profile: funnel.Profile{
			Username:  cb.From.UserName,
			FirstName: cb.From.FirstName,
		},
	}

	answered := b.applyTransition(ctx, lead, ev, cb.ID)
	if !answered {
		// Снимаем «часики» на кнопке даже для проигнорированных нажатий.
		if err := b.tgService.AnswerCallback(cb.ID, ""); err != nil {
			b.logger.Error().Err(err).Msg("Failed to answer callback")
		}
	}
}

// applyTransition прогоняет событие через воронку, сохраняет лида и
// исполняет эффекты. Возвращает true, если среди эффектов был ответ
// на callback. Сохранение идет до отправки: лучше повторное сообщение
// при сбое, чем потерянный ответ пользователя.
func (b *Bot) applyTransition(ctx context.Context, lead *models.Lead, ev funnel.Event, callbackID string) (answered bool) {
	actions := funnel.Apply(lead, ev)
	if len(actions) == 0 {
		return false
	}

	if err := b.store.SaveLead(ctx, lead); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", lead.ChatID).Msg("Failed to save lead")
		if b.metrics != nil {
			b.metrics.ErrorsTotal.Inc()
		}
		return false
	}

	for _, action := range actions {
		switch action.Kind {
		case funnel.ActionSendText:
			b.execSend(lead.ChatID, action)
		case funnel.ActionEditKeyboard:
			if err := b.tgService.EditReplyMarkup(lead.ChatID, action.MessageID, *action.Keyboard); err != nil {
				b.logger.Error().Err(err).Int64("chat_id", lead.ChatID).Msg("Failed to edit keyboard")
			}
		case funnel.ActionAnswerCallback:
			if callbackID == "" {
				continue
			}
			if err := b.tgService.AnswerCallback(callbackID, action.Text); err != nil {
				b.logger.Error().Err(err).Msg("Failed to answer callback")
			}
			answered = true
		case funnel.ActionFinalize:
			if err := b.finalizer.Enqueue(ctx, lead.ChatID, lead.Name); err != nil {
				b.logger.Error().Err(err).Int64("chat_id", lead.ChatID).Msg("Failed to enqueue finalization")
			}
		}
	}
	return answered
}

func (b *Bot) execSend(chatID int64, action funnel.Action) {
	var err error
	if action.Keyboard != nil {
		_, err = b.tgService.SendWithInlineKeyboard(chatID, action.Text, *action.Keyboard)
	} else {
		_, err = b.tgService.SendMessage(chatID, action.Text)
	}
	if err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}

func (b *Bot) trackFunnelStart(chatID int64) {
	if b.metrics != nil {
		b.metrics.FunnelsStarted.Inc()
	}
	if err := b.eventBus.PublishJSON(events.EventLeadStarted, events.LeadEventPayload{ChatID: chatID}); err != nil {
		b.logger.Error().Err(err).Msg("Failed to publish lead started event")
	}
}

func (b *Bot) handleStats(ctx context.Context, chatID int64) {
	total, completed, err := b.store.CountLeads(ctx)
	if err != nil {
		b.logger.Error().Err(err).Msg("Failed to count leads")
		b.sendText(chatID, "Не удалось получить статистику.")
		return
	}

	conversion := 0.0
	if total > 0 {
		conversion = float64(completed) / float64(total) * 100
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 *Статистика воронки*\n\n"+
		"Всего лидов: %d\n"+
		"Завершили анкету: %d\n"+
		"Конверсия: %.1f%%", total, completed, conversion)

	if leads, err := b.store.GetAllLeads(ctx); err == nil && len(leads) > 0 {
		sb.WriteString("\n\nПоследние лиды:")
		if len(leads) > 5 {
			leads = leads[:5]
		}
		for _, lead := range leads {
			name := lead.Name
			if name == "" {
				name = "без имени"
			}
			fmt.Fprintf(&sb, "\n• %s — %s (%s)", name, lead.Step, lead.CreatedAt.Format("02.01 15:04"))
		}
	}

	if _, err := b.tgService.SendMarkdown(chatID, sb.String()); err != nil {
		b.logger.Error().Err(err).Msg("Failed to send stats")
	}
}

func (b *Bot) handleExport(ctx context.Context, chatID int64) {
	filePath, err := b.exportToExcel(ctx)
	if err != nil {
		b.logger.Error().Err(err).Msg("Failed to export leads")
		b.sendText(chatID, "Не удалось сформировать выгрузку.")
		return
	}

	if err := b.tgService.SendDocument(chatID, filePath, "Выгрузка лидов"); err != nil {
		b.logger.Error().Err(err).Str("path", filePath).Msg("Failed to send export")
		return
	}
	if b.metrics != nil {
		b.metrics.LeadsExported.Inc()
	}
}
