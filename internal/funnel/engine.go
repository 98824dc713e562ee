package funnel

import (
	"fmt"
	"time"

	"faresbot/internal/models"
)

// NewLead создает пустую запись лида на шаге приветствия.
func NewLead(chatID int64) *models.Lead {
	now := time.Now()
	return &models.Lead{
		ChatID:    chatID,
		Step:      models.StepWelcome,
		Focus:     []string{},
		Format:    []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type transitionKey struct {
	step string
	kind EventKind
}

type handlerFunc func(lead *models.Lead, ev Event) []Action

var transitions = map[transitionKey]handlerFunc{
	{models.StepWelcome, KindButton}:   handleWelcomeButton,
	{models.StepName, KindText}:        handleName,
	{models.StepGoal, KindButton}:      handleGoalButton,
	{models.StepGoalCustom, KindText}:  handleGoalCustom,
	{models.StepFatigue, KindButton}:   handleFatigue,
	{models.StepActivity, KindButton}:  handleActivity,
	{models.StepDigestion, KindButton}: handleDigestion,
	{models.StepBeauty, KindButton}:    handleBeauty,
	{models.StepFocus, KindButton}:     handleFocusButton,
	{models.StepFormat, KindButton}:    handleFormatButton,
	{models.StepContact, KindButton}:   handleContactButton,
	{models.StepContact, KindText}:     handleContactText,
}

// Apply прогоняет событие через таблицу переходов. Лид мутируется на
// месте, возвращаются эффекты для исполнения ботом. nil означает, что
// событие не подошло текущему шагу и молча игнорируется.
func Apply(lead *models.Lead, ev Event) []Action {
	if ev.Kind == KindStart {
		return restart(lead)
	}

	handler, ok := transitions[transitionKey{lead.Step, ev.Kind}]
	if !ok {
		return nil
	}
	actions := handler(lead, ev)
	if actions != nil {
		lead.UpdatedAt = time.Now()
	}
	return actions
}

// restart сбрасывает анкету целиком: /start посреди воронки начинает ее заново.
func restart(lead *models.Lead) []Action {
	*lead = *NewLead(lead.ChatID)
	return []Action{sendKeyboard(welcomeText, welcomeKeyboard())}
}

func handleWelcomeButton(lead *models.Lead, ev Event) []Action {
	if ev.Token != TokenStartQuiz {
		return nil
	}
	lead.Step = models.StepName
	return []Action{sendText(namePromptText)}
}

func handleName(lead *models.Lead, ev Event) []Action {
	lead.Name = ev.Text
	lead.Step = models.StepGoal
	return []Action{sendKeyboard(fmt.Sprintf(goalPromptText, lead.Name), singleColumnKeyboard(goalOptions))}
}

func handleGoalButton(lead *models.Lead, ev Event) []Action {
	if ev.Token == TokenGoalCustom {
		lead.Step = models.StepGoalCustom
		return []Action{sendText(customGoalPromptText)}
	}
	if !tokenIn(goalOptions, ev.Token) {
		return nil
	}
	lead.Goal = ev.Token
	lead.Step = models.StepFatigue
	return []Action{sendKeyboard(fatiguePromptText, singleColumnKeyboard(fatigueOptions))}
}

func handleGoalCustom(lead *models.Lead, ev Event) []Action {
	lead.Goal = ev.Text
	lead.Step = models.StepFatigue
	return []Action{sendKeyboard(fatiguePromptText, singleColumnKeyboard(fatigueOptions))}
}

func handleFatigue(lead *models.Lead, ev Event) []Action {
	if !tokenIn(fatigueOptions, ev.Token) {
		return nil
	}
	lead.Fatigue = ev.Token
	lead.Step = models.StepActivity
	return []Action{sendKeyboard(activityPromptText, singleColumnKeyboard(activityOptions))}
}

func handleActivity(lead *models.Lead, ev Event) []Action {
	if !tokenIn(activityOptions, ev.Token) {
		return nil
	}
	lead.Activity = ev.Token
	lead.Step = models.StepDigestion
	return []Action{sendKeyboard(digestionPromptText, singleColumnKeyboard(digestionOptions))}
}

func handleDigestion(lead *models.Lead, ev Event) []Action {
	if !tokenIn(digestionOptions, ev.Token) {
		return nil
	}
	lead.Digestion = ev.Token
	lead.Step = models.StepBeauty
	return []Action{sendKeyboard(beautyPromptText, singleColumnKeyboard(beautyOptions))}
}

func handleBeauty(lead *models.Lead, ev Event) []Action {
	if !tokenIn(beautyOptions, ev.Token) {
		return nil
	}
	lead.Beauty = ev.Token
	lead.Step = models.StepFocus
	return []Action{sendKeyboard(focusPromptText, FocusKeyboard(nil))}
}

func handleFocusButton(lead *models.Lead, ev Event) []Action {
	if ev.Token == TokenFocusDone {
		lead.Step = models.StepFormat
		return []Action{sendKeyboard(formatPromptText, FormatKeyboard(nil))}
	}
	if !tokenIn(focusOptions, ev.Token) {
		return nil
	}
	lead.Focus = Toggle(lead.Focus, ev.Token)
	return []Action{editKeyboard(ev.MessageID, FocusKeyboard(lead.Focus))}
}

func handleFormatButton(lead *models.Lead, ev Event) []Action {
	if ev.Token == TokenFormatDone {
		lead.Step = models.StepContact
		return []Action{sendKeyboard(contactPromptText, contactKeyboard())}
	}
	if !tokenIn(formatOptions, ev.Token) {
		return nil
	}
	lead.Format = Toggle(lead.Format, ev.Token)
	return []Action{editKeyboard(ev.MessageID, FormatKeyboard(lead.Format))}
}

func handleContactButton(lead *models.Lead, ev Event) []Action {
	switch ev.Token {
	case TokenContactTelegram:
		lead.ContactType = models.ContactTelegram
		return []Action{sendKeyboard(contactValuePromptTG, profileKeyboard())}
	case TokenContactWhatsApp:
		lead.ContactType = models.ContactWhatsApp
		return []Action{sendKeyboard(contactValuePromptWA, profileKeyboard())}
	case TokenContactProfile:
		lead.ContactType = models.ContactTelegramAuto
		lead.ContactData = profileContact(ev.Profile)
		lead.Step = models.StepAnalyzing
		return []Action{answerCallback(profileAcceptedNote), finalize()}
	}
	return nil
}

// handleContactText записывает контакт как есть: валидацию формата
// номера делает оператор при созвоне, а не бот.
func handleContactText(lead *models.Lead, ev Event) []Action {
	lead.ContactData = ev.Text
	lead.Step = models.StepAnalyzing
	return []Action{finalize()}
}

func profileContact(p Profile) string {
	if p.Username != "" {
		return "@" + p.Username
	}
	if p.FirstName != "" {
		return p.FirstName
	}
	return "неизвестно"
}
