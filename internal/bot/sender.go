package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender адаптирует *tgbotapi.BotAPI к domain.TelegramSender.
type Sender struct {
	*tgbotapi.BotAPI
}

func NewSender(api *tgbotapi.BotAPI) *Sender {
	return &Sender{BotAPI: api}
}

// GetSelf отдает данные бота, полученные при авторизации.
func (s *Sender) GetSelf() tgbotapi.User {
	return s.Self
}

func (s *Sender) StopReceivingUpdates() {
	s.BotAPI.StopReceivingUpdates()
}
