package bot

import (
	"context"
	"io"
	"testing"
	"time"

	"faresbot/internal/config"
	"faresbot/internal/domain"
	"faresbot/internal/funnel"
	"faresbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTelegramService struct {
	domain.TelegramService
	updatesChan chan tgbotapi.Update
	sentTexts   []string
	edits       []int
	callbacks   []string
}

func (m *mockTelegramService) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return m.updatesChan
}

func (m *mockTelegramService) GetSelf() tgbotapi.User {
	return tgbotapi.User{UserName: "test_bot"}
}

func (m *mockTelegramService) SendMessage(chatID int64, text string) (tgbotapi.Message, error) {
	m.sentTexts = append(m.sentTexts, text)
	return tgbotapi.Message{}, nil
}

func (m *mockTelegramService) SendMarkdown(chatID int64, text string) (tgbotapi.Message, error) {
	m.sentTexts = append(m.sentTexts, text)
	return tgbotapi.Message{}, nil
}

func (m *mockTelegramService) SendWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	m.sentTexts = append(m.sentTexts, text)
	return tgbotapi.Message{}, nil
}

func (m *mockTelegramService) SendMarkdownWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	m.sentTexts = append(m.sentTexts, text)
	return tgbotapi.Message{}, nil
}

func (m *mockTelegramService) EditReplyMarkup(chatID int64, messageID int, keyboard tgbotapi.InlineKeyboardMarkup) error {
	m.edits = append(m.edits, messageID)
	return nil
}

func (m *mockTelegramService) AnswerCallback(callbackID, text string) error {
	m.callbacks = append(m.callbacks, text)
	return nil
}

type mockLeadStore struct {
	domain.LeadStore
	leads map[int64]*models.Lead
}

func newMockLeadStore() *mockLeadStore {
	return &mockLeadStore{leads: make(map[int64]*models.Lead)}
}

func (m *mockLeadStore) GetLead(ctx context.Context, chatID int64) (*models.Lead, error) {
	lead, ok := m.leads[chatID]
	if !ok {
		return nil, nil
	}
	copied := *lead
	return &copied, nil
}

func (m *mockLeadStore) SaveLead(ctx context.Context, lead *models.Lead) error {
	copied := *lead
	m.leads[lead.ChatID] = &copied
	return nil
}

func (m *mockLeadStore) GetAllLeads(ctx context.Context) ([]*models.Lead, error) {
	leads := make([]*models.Lead, 0, len(m.leads))
	for _, lead := range m.leads {
		copied := *lead
		leads = append(leads, &copied)
	}
	return leads, nil
}

func (m *mockLeadStore) CountLeads(ctx context.Context) (int, int, error) {
	completed := 0
	for _, lead := range m.leads {
		if lead.Completed {
			completed++
		}
	}
	return len(m.leads), completed, nil
}

type allowAllLimiter struct{}

func (allowAllLimiter) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	return true, nil
}

type denyAllLimiter struct{}

func (denyAllLimiter) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	return false, nil
}

type mockFinalizer struct {
	enqueued []int64
}

func (m *mockFinalizer) Enqueue(ctx context.Context, chatID int64, name string) error {
	m.enqueued = append(m.enqueued, chatID)
	return nil
}

func newTestBot(t *testing.T, store domain.LeadStore, limiter domain.RateLimiter) (*Bot, *mockTelegramService, *mockFinalizer) {
	t.Helper()
	tg := &mockTelegramService{updatesChan: make(chan tgbotapi.Update, 1)}
	fin := &mockFinalizer{}
	logger := zerolog.New(io.Discard)

	cfg := &config.Config{
		Telegram: config.TelegramConfig{BotToken: "test"},
		Operator: config.OperatorConfig{ChatID: 999},
		Bot:      config.BotConfig{RateLimitMessages: 20, RateLimitWindow: 60},
	}

	b, err := NewBot(tg, cfg, store, limiter, fin, nil, nil, &logger)
	require.NoError(t, err)
	return b, tg, fin
}

func startCommand(chatID int64) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			MessageID: 1,
			From:      &tgbotapi.User{ID: chatID},
			Chat:      &tgbotapi.Chat{ID: chatID},
			Text:      "/start",
			Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
		},
	}
}

func textMessage(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			MessageID: 1,
			From:      &tgbotapi.User{ID: chatID},
			Chat:      &tgbotapi.Chat{ID: chatID},
			Text:      text,
		},
	}
}

func callback(chatID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb1",
			From: &tgbotapi.User{ID: chatID, UserName: "anna_k", FirstName: "Анна"},
			Message: &tgbotapi.Message{
				MessageID: 42,
				Chat:      &tgbotapi.Chat{ID: chatID},
			},
			Data: data,
		},
	}
}

func TestStartCreatesLead(t *testing.T) {
	store := newMockLeadStore()
	b, tg, _ := newTestBot(t, store, allowAllLimiter{})
	ctx := context.Background()

	b.processUpdate(ctx, startCommand(100))

	require.Len(t, tg.sentTexts, 1)
	assert.Contains(t, tg.sentTexts[0], "Fares Korea")

	lead := store.leads[100]
	require.NotNil(t, lead)
	assert.Equal(t, models.StepWelcome, lead.Step)
}

func TestStartWordAlsoResets(t *testing.T) {
	store := newMockLeadStore()
	store.leads[100] = &models.Lead{ChatID: 100, Step: models.StepFatigue, Name: "Анна"}
	b, _, _ := newTestBot(t, store, allowAllLimiter{})

	b.processUpdate(context.Background(), textMessage(100, "Начать"))

	lead := store.leads[100]
	require.NotNil(t, lead)
	assert.Equal(t, models.StepWelcome, lead.Step)
	assert.Empty(t, lead.Name)
}

func TestTextBeforeStartIgnored(t *testing.T) {
	store := newMockLeadStore()
	b, tg, _ := newTestBot(t, store, allowAllLimiter{})

	b.processUpdate(context.Background(), textMessage(100, "привет"))

	assert.Empty(t, tg.sentTexts)
	assert.Empty(t, store.leads)
}

func TestCallbackWithoutLeadHints(t *testing.T) {
	store := newMockLeadStore()
	b, tg, _ := newTestBot(t, store, allowAllLimiter{})

	b.processUpdate(context.Background(), callback(100, funnel.TokenStartQuiz))

	require.Len(t, tg.callbacks, 1)
	assert.Contains(t, tg.callbacks[0], "/start")
	assert.Empty(t, tg.sentTexts)
}

func TestQuizProgression(t *testing.T) {
	store := newMockLeadStore()
	b, tg, _ := newTestBot(t, store, allowAllLimiter{})
	ctx := context.Background()

	b.processUpdate(ctx, startCommand(100))
	b.processUpdate(ctx, callback(100, funnel.TokenStartQuiz))

	assert.Equal(t, models.StepName, store.leads[100].Step)
	// Проигнорированных нажатий не было, но callback закрыт
	require.NotEmpty(t, tg.callbacks)

	b.processUpdate(ctx, textMessage(100, "Анна"))
	assert.Equal(t, models.StepGoal, store.leads[100].Step)
	assert.Equal(t, "Анна", store.leads[100].Name)
}

func TestMultiselectEditsKeyboard(t *testing.T) {
	store := newMockLeadStore()
	store.leads[100] = &models.Lead{ChatID: 100, Step: models.StepFocus}
	b, tg, _ := newTestBot(t, store, allowAllLimiter{})

	b.processUpdate(context.Background(), callback(100, "Ум"))

	assert.Equal(t, []int{42}, tg.edits)
	assert.Equal(t, []string{"Ум"}, store.leads[100].Focus)
}

func TestProfileContactFinalizes(t *testing.T) {
	store := newMockLeadStore()
	store.leads[100] = &models.Lead{ChatID: 100, Step: models.StepContact, Name: "Анна"}
	b, tg, fin := newTestBot(t, store, allowAllLimiter{})

	b.processUpdate(context.Background(), callback(100, funnel.TokenContactProfile))

	lead := store.leads[100]
	assert.Equal(t, models.StepAnalyzing, lead.Step)
	assert.Equal(t, models.ContactTelegramAuto, lead.ContactType)
	assert.Equal(t, "@anna_k", lead.ContactData)

	assert.Equal(t, []int64{100}, fin.enqueued)
	require.NotEmpty(t, tg.callbacks)
	assert.Contains(t, tg.callbacks[0], "приняты")
}

func TestIgnoredCallbackStillAnswered(t *testing.T) {
	store := newMockLeadStore()
	store.leads[100] = &models.Lead{ChatID: 100, Step: models.StepAnalyzing}
	b, tg, _ := newTestBot(t, store, allowAllLimiter{})

	b.processUpdate(context.Background(), callback(100, funnel.TokenStartQuiz))

	assert.Equal(t, []string{""}, tg.callbacks)
	assert.Empty(t, tg.sentTexts)
}

func TestRateLimitExceeded(t *testing.T) {
	store := newMockLeadStore()
	b, tg, _ := newTestBot(t, store, denyAllLimiter{})

	b.processUpdate(context.Background(), startCommand(100))

	require.Len(t, tg.sentTexts, 1)
	assert.Contains(t, tg.sentTexts[0], "слишком часто")
	assert.Empty(t, store.leads)
}

func TestOperatorSkipsRateLimit(t *testing.T) {
	store := newMockLeadStore()
	b, tg, _ := newTestBot(t, store, denyAllLimiter{})

	// 999 — оператор из конфига
	b.processUpdate(context.Background(), startCommand(999))

	require.Len(t, tg.sentTexts, 1)
	assert.Contains(t, tg.sentTexts[0], "Fares Korea")
}

func TestOperatorStats(t *testing.T) {
	store := newMockLeadStore()
	store.leads[1] = &models.Lead{ChatID: 1, Completed: true}
	store.leads[2] = &models.Lead{ChatID: 2}
	b, tg, _ := newTestBot(t, store, allowAllLimiter{})

	update := textMessage(999, "/stats")
	update.Message.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}}

	b.processUpdate(context.Background(), update)

	require.Len(t, tg.sentTexts, 1)
	assert.Contains(t, tg.sentTexts[0], "Всего лидов: 2")
	assert.Contains(t, tg.sentTexts[0], "Завершили анкету: 1")
	assert.Contains(t, tg.sentTexts[0], "50.0%")
}

func TestBotStartStopsOnContextCancel(t *testing.T) {
	store := newMockLeadStore()
	b, _, _ := newTestBot(t, store, allowAllLimiter{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("bot did not stop after context cancel")
	}
}
