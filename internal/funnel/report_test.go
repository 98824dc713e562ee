package funnel

import (
	"testing"
	"time"

	"faresbot/internal/models"

	"github.com/stretchr/testify/assert"
)

func sampleLead() *models.Lead {
	return &models.Lead{
		ChatID:      100,
		Name:        "Анна",
		Goal:        "Иммунитет",
		Fatigue:     "Иногда",
		Activity:    "Спорт",
		Digestion:   "Редко",
		Beauty:      "Важно",
		Focus:       []string{"Ум", "Тонус"},
		ContactType: models.ContactTelegram,
		ContactData: "@anna",
		CreatedAt:   time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC),
	}
}

func TestGenerateEnergyFraming(t *testing.T) {
	t.Run("ByFatigue", func(t *testing.T) {
		lead := sampleLead()
		lead.Fatigue = FatigueAlmostAlways

		summary, _ := Generate(lead)
		assert.Contains(t, summary, "повысить энергию")
		assert.NotContains(t, summary, "иммунитет")
	})

	t.Run("ByGoal", func(t *testing.T) {
		lead := sampleLead()
		lead.Goal = GoalEnergy

		summary, _ := Generate(lead)
		assert.Contains(t, summary, "повысить энергию")
	})

	t.Run("GenericOtherwise", func(t *testing.T) {
		lead := sampleLead()

		summary, _ := Generate(lead)
		assert.Contains(t, summary, "укрепить иммунитет")
	})
}

func TestGenerateDigestionClause(t *testing.T) {
	t.Run("SedentaryWithDigestionIssues", func(t *testing.T) {
		lead := sampleLead()
		lead.Activity = ActivitySedentary
		lead.Digestion = DigestionConstant

		summary, _ := Generate(lead)
		assert.Contains(t, summary, "микробиом")
	})

	t.Run("SedentaryWithoutIssues", func(t *testing.T) {
		lead := sampleLead()
		lead.Activity = ActivitySedentary
		lead.Digestion = "Редко"

		summary, _ := Generate(lead)
		assert.NotContains(t, summary, "микробиом")
		assert.Contains(t, summary, "обмена веществ")
	})

	t.Run("DigestionIssuesWithoutSedentary", func(t *testing.T) {
		lead := sampleLead()
		lead.Digestion = DigestionOften

		summary, _ := Generate(lead)
		assert.NotContains(t, summary, "микробиом")
	})
}

func TestGenerateOperatorNotice(t *testing.T) {
	lead := sampleLead()

	_, notice := Generate(lead)
	assert.Contains(t, notice, "🚀 *Новый лид!*")
	assert.Contains(t, notice, "Имя: Анна")
	assert.Contains(t, notice, "Цель: Иммунитет")
	assert.Contains(t, notice, "Контакт (Telegram): @anna")
	assert.Contains(t, notice, "Фокус: Ум, Тонус")
	assert.Contains(t, notice, "Создан: 2025-03-01 12:30:00")
}
