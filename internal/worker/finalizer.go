package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"faresbot/internal/domain"
	"faresbot/internal/events"
	"faresbot/internal/funnel"
	"faresbot/internal/models"

	"github.com/rs/zerolog"
)

// Job — один лид, ожидающий финализации.
type Job struct {
	ChatID int64
	Name   string
}

// Options — настройки последовательности финализации.
type Options struct {
	AnalyzeDelay   time.Duration
	GuideDelay     time.Duration
	GuidePath      string
	OperatorChatID int64
}

// Finalizer исполняет финальную последовательность воронки: отчет,
// гайд, промо и уведомление оператора. Паузы имитируют «анализ» и
// задают темп чтения, поэтому выполняются вне обработчика апдейтов.
type Finalizer struct {
	store  domain.LeadStore
	tg     domain.TelegramService
	sheets domain.LeadAppender // может быть nil
	bus    domain.EventPublisher
	opts   Options
	logger *zerolog.Logger
	jobs   chan Job
}

func NewFinalizer(
	store domain.LeadStore,
	tg domain.TelegramService,
	sheets domain.LeadAppender,
	bus domain.EventPublisher,
	opts Options,
	logger *zerolog.Logger,
) *Finalizer {
	return &Finalizer{
		store:  store,
		tg:     tg,
		sheets: sheets,
		bus:    bus,
		opts:   opts,
		logger: logger,
		jobs:   make(chan Job, models.FinalizerQueueSize),
	}
}

// Enqueue ставит лида в очередь. Подтверждение «анализирую» уходит
// сразу, до пауз, чтобы пользователь не ждал молча.
func (f *Finalizer) Enqueue(ctx context.Context, chatID int64, name string) error {
	if _, err := f.tg.SendMessage(chatID, fmt.Sprintf(funnel.AnalyzingAckText, name)); err != nil {
		f.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send analyzing ack")
	}

	select {
	case f.jobs <- Job{ChatID: chatID, Name: name}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errors.New("finalizer queue is full")
	}
}

// Start запускает цикл обработки; останавливается по ctx, дождавшись
// запущенных финализаций.
func (f *Finalizer) Start(ctx context.Context) {
	f.logger.Info().Msg("Finalizer started")
	defer f.logger.Info().Msg("Finalizer stopped")

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case job := <-f.jobs:
			// Каждый лид идет в своей горутине: паузы одного
			// пользователя не задерживают отчеты остальных.
			wg.Add(1)
			go func(job Job) {
				defer wg.Done()
				f.finalize(ctx, job)
			}(job)
		}
	}
}

func (f *Finalizer) finalize(ctx context.Context, job Job) {
	logger := f.logger.With().Int64("chat_id", job.ChatID).Logger()

	if !sleep(ctx, f.opts.AnalyzeDelay) {
		return
	}

	// Перечитываем лида после паузы: за это время пользователь мог
	// перезапустить воронку через /start.
	lead, err := f.store.GetLead(ctx, job.ChatID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load lead for finalization")
		f.apologize(job.ChatID)
		return
	}
	if lead == nil || lead.Completed || lead.Step != models.StepAnalyzing {
		logger.Info().Msg("Lead reset or already finalized, skipping")
		return
	}

	summary, notice := funnel.Generate(lead)
	if _, err := f.tg.SendMarkdown(job.ChatID, summary); err != nil {
		logger.Error().Err(err).Msg("Failed to send report")
		f.apologize(job.ChatID)
		return
	}

	if !sleep(ctx, f.opts.GuideDelay) {
		return
	}

	f.sendMaterials(job.ChatID, &logger)

	if _, err := f.tg.SendMarkdownWithInlineKeyboard(job.ChatID, funnel.PromoText, funnel.PromoKeyboard()); err != nil {
		logger.Error().Err(err).Msg("Failed to send promo")
	}
	if _, err := f.tg.SendMessage(job.ChatID, funnel.ClosingText); err != nil {
		logger.Error().Err(err).Msg("Failed to send closing message")
	}

	if f.opts.OperatorChatID != 0 {
		if _, err := f.tg.SendMarkdown(f.opts.OperatorChatID, notice); err != nil {
			logger.Error().Err(err).Msg("Failed to notify operator")
		}
	}

	if f.sheets != nil {
		if err := f.sheets.AppendLead(ctx, lead); err != nil {
			logger.Error().Err(err).Msg("Failed to append lead to sheet")
		}
	}

	if err := f.store.MarkCompleted(ctx, job.ChatID); err != nil {
		logger.Error().Err(err).Msg("Failed to mark lead completed")
		return
	}

	if f.bus != nil {
		if err := f.bus.PublishJSON(events.EventLeadCompleted, events.LeadEventPayload{
			ChatID: lead.ChatID,
			Name:   lead.Name,
			Goal:   lead.Goal,
		}); err != nil {
			logger.Error().Err(err).Msg("Failed to publish lead completed event")
		}
	}

	logger.Info().Str("name", lead.Name).Msg("Lead finalized")
}

// sendMaterials отправляет гайд; при сбое документа деградирует до
// текстовой заглушки и не прерывает последовательность.
func (f *Finalizer) sendMaterials(chatID int64, logger *zerolog.Logger) {
	if _, err := f.tg.SendMarkdown(chatID, funnel.MaterialsHeaderText); err != nil {
		logger.Error().Err(err).Msg("Failed to send materials header")
	}

	if err := f.tg.SendDocument(chatID, f.opts.GuidePath, funnel.GuideCaptionText); err != nil {
		logger.Error().Err(err).Str("path", f.opts.GuidePath).Msg("Failed to send guide document")
		if _, err := f.tg.SendMessage(chatID, funnel.GuideFallbackText); err != nil {
			logger.Error().Err(err).Msg("Failed to send guide fallback")
		}
	}
}

func (f *Finalizer) apologize(chatID int64) {
	if _, err := f.tg.SendMessage(chatID, funnel.FinalizeFailedText); err != nil {
		f.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send apology")
	}
}

// sleep ждет d или отмену контекста; false — если отменили.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
