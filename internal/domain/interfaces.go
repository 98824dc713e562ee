package domain

import (
	"context"
	"time"

	"faresbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// LeadStore persists funnel records keyed by chat ID.
// GetLead returns (nil, nil) when no record exists.
// SaveLead is a full overwrite: the /start reset relies on it.
type LeadStore interface {
	GetLead(ctx context.Context, chatID int64) (*models.Lead, error)
	SaveLead(ctx context.Context, lead *models.Lead) error
	MarkCompleted(ctx context.Context, chatID int64) error
	GetAllLeads(ctx context.Context) ([]*models.Lead, error)
	CountLeads(ctx context.Context) (total int, completed int, err error)
}

type RateLimiter interface {
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

type TelegramService interface {
	SendMessage(chatID int64, text string) (tgbotapi.Message, error)
	SendMarkdown(chatID int64, text string) (tgbotapi.Message, error)
	SendWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	SendMarkdownWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	EditReplyMarkup(chatID int64, messageID int, keyboard tgbotapi.InlineKeyboardMarkup) error
	AnswerCallback(callbackID string, text string) error
	SendDocument(chatID int64, filePath string, caption string) error
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

// Finalizer runs the post-submission sequence for a filled questionnaire.
// Enqueue must not block the update loop.
type Finalizer interface {
	Enqueue(ctx context.Context, chatID int64, name string) error
}

// LeadAppender mirrors completed leads to an external sheet.
type LeadAppender interface {
	AppendLead(ctx context.Context, lead *models.Lead) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}
