package service

import (
	"context"
	"strings"

	"faresbot/internal/domain"
	"faresbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// TelegramService оборачивает API бота и притормаживает исходящие
// вызовы, чтобы не упереться в лимиты Telegram при массовых рассылках.
type TelegramService struct {
	bot     domain.TelegramSender
	limiter *rate.Limiter
}

func NewTelegramService(bot domain.TelegramSender, sendRate float64, burst int) *TelegramService {
	if sendRate <= 0 {
		sendRate = 25
	}
	if burst <= 0 {
		burst = 5
	}
	return &TelegramService{
		bot:     bot,
		limiter: rate.NewLimiter(rate.Limit(sendRate), burst),
	}
}

func (s *TelegramService) send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if err := s.limiter.Wait(context.Background()); err != nil {
		return tgbotapi.Message{}, err
	}
	return s.bot.Send(c)
}

func (s *TelegramService) SendMessage(chatID int64, text string) (tgbotapi.Message, error) {
	return s.send(tgbotapi.NewMessage(chatID, text))
}

func (s *TelegramService) SendMarkdown(chatID int64, text string) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = models.ParseModeMarkdown
	return s.send(msg)
}

func (s *TelegramService) SendWithInlineKeyboard(
	chatID int64,
	text string,
	keyboard tgbotapi.InlineKeyboardMarkup,
) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	return s.send(msg)
}

func (s *TelegramService) SendMarkdownWithInlineKeyboard(
	chatID int64,
	text string,
	keyboard tgbotapi.InlineKeyboardMarkup,
) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = models.ParseModeMarkdown
	msg.ReplyMarkup = keyboard
	return s.send(msg)
}

// EditReplyMarkup перерисовывает клавиатуру мультивыбора. Повторное
// нажатие той же кнопки дает идентичную разметку, Telegram отвечает
// на это ошибкой "message is not modified" — глотаем ее.
func (s *TelegramService) EditReplyMarkup(chatID int64, messageID int, keyboard tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, keyboard)
	if _, err := s.send(edit); err != nil {
		if strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		return err
	}
	return nil
}

func (s *TelegramService) AnswerCallback(callbackID, text string) error {
	callback := tgbotapi.NewCallback(callbackID, text)
	_, err := s.bot.Request(callback)
	return err
}

// SendDocument отправляет файл с диска (PDF-гайд).
func (s *TelegramService) SendDocument(chatID int64, filePath string, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(filePath))
	doc.Caption = caption
	_, err := s.send(doc)
	return err
}

func (s *TelegramService) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return s.bot.GetUpdatesChan(config)
}

func (s *TelegramService) GetSelf() tgbotapi.User {
	return s.bot.GetSelf()
}

func (s *TelegramService) StopReceivingUpdates() {
	s.bot.StopReceivingUpdates()
}
