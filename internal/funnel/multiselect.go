package funnel

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Toggle добавляет токен в выборку либо убирает, если он уже есть.
// Порядок остальных элементов сохраняется.
func Toggle(selected []string, token string) []string {
	for i, t := range selected {
		if t == token {
			return append(selected[:i:i], selected[i+1:]...)
		}
	}
	return append(selected, token)
}

func has(selected []string, token string) bool {
	for _, t := range selected {
		if t == token {
			return true
		}
	}
	return false
}

// multiselectKeyboard перерисовывает клавиатуру вопроса с галочками
// на выбранных пунктах и кнопкой «Готово» внизу.
func multiselectKeyboard(options []Option, selected []string, doneToken string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(options)+1)
	for _, opt := range options {
		label := opt.Label
		if has(selected, opt.Token) {
			label = "✅ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, opt.Token),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Готово ✅", doneToken),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// FocusKeyboard — клавиатура шага focus с текущей выборкой.
func FocusKeyboard(selected []string) tgbotapi.InlineKeyboardMarkup {
	return multiselectKeyboard(focusOptions, selected, TokenFocusDone)
}

// FormatKeyboard — клавиатура шага format с текущей выборкой.
func FormatKeyboard(selected []string) tgbotapi.InlineKeyboardMarkup {
	return multiselectKeyboard(formatOptions, selected, TokenFormatDone)
}
