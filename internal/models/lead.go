package models

import "time"

// Lead — запись воронки для одного чата. Step всегда хранит следующий
// ожидаемый ввод, а не последний отвеченный вопрос.
type Lead struct {
	ChatID      int64     `json:"chat_id"`
	Step        string    `json:"step"`
	Name        string    `json:"name"`
	Goal        string    `json:"goal"`
	Fatigue     string    `json:"fatigue"`
	Activity    string    `json:"activity"`
	Digestion   string    `json:"digestion"`
	Beauty      string    `json:"beauty"`
	Focus       []string  `json:"focus"`
	Format      []string  `json:"format"`
	ContactType string    `json:"contact_type"`
	ContactData string    `json:"contact_data"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Значения ContactType.
const (
	ContactTelegram     = "Telegram"
	ContactWhatsApp     = "WhatsApp"
	ContactTelegramAuto = "Telegram (Auto)"
)
