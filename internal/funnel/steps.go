package funnel

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// EventKind — тип входящего сигнала от пользователя.
type EventKind int

const (
	// KindStart — команда /start или слово «начать».
	KindStart EventKind = iota
	// KindText — произвольный текст.
	KindText
	// KindButton — нажатие inline-кнопки.
	KindButton
)

// Profile — данные телеграм-профиля для автозаполнения контакта.
type Profile struct {
	Username  string
	FirstName string
}

// Event — нормализованное входящее событие воронки.
type Event struct {
	Kind      EventKind
	Text      string // для KindText
	Token     string // callback data для KindButton
	MessageID int    // сообщение с кнопкой, для правки клавиатуры
	Profile   Profile
}

// ActionKind — тип исходящего эффекта.
type ActionKind int

const (
	// ActionSendText — отправить новое сообщение.
	ActionSendText ActionKind = iota
	// ActionEditKeyboard — заменить клавиатуру существующего сообщения.
	ActionEditKeyboard
	// ActionAnswerCallback — короткое всплывающее уведомление.
	ActionAnswerCallback
	// ActionFinalize — поставить лида в очередь финализации.
	ActionFinalize
)

// Action — один исходящий эффект перехода. Движок воронки чистый:
// он только описывает эффекты, исполняет их бот.
type Action struct {
	Kind      ActionKind
	Text      string
	Keyboard  *tgbotapi.InlineKeyboardMarkup
	MessageID int
}

func sendText(text string) Action {
	return Action{Kind: ActionSendText, Text: text}
}

func sendKeyboard(text string, kb tgbotapi.InlineKeyboardMarkup) Action {
	return Action{Kind: ActionSendText, Text: text, Keyboard: &kb}
}

func editKeyboard(messageID int, kb tgbotapi.InlineKeyboardMarkup) Action {
	return Action{Kind: ActionEditKeyboard, MessageID: messageID, Keyboard: &kb}
}

func answerCallback(text string) Action {
	return Action{Kind: ActionAnswerCallback, Text: text}
}

func finalize() Action {
	return Action{Kind: ActionFinalize}
}
