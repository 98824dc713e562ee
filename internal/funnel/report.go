package funnel

import (
	"fmt"
	"strings"

	"faresbot/internal/models"
)

// Generate собирает мини-отчет для пользователя и уведомление для
// оператора. Чистая функция над заполненным лидом.
func Generate(lead *models.Lead) (summary, notice string) {
	var b strings.Builder
	b.WriteString("📊 *Ваш персональный мини-отчет:*\n\n")

	// Энергетическая рамка перебивает общую: постоянная усталость
	// важнее заявленной цели.
	if lead.Fatigue == FatigueAlmostAlways || lead.Goal == GoalEnergy {
		b.WriteString("Исходя из ваших ответов, основная задача — повысить энергию и справиться с постоянной усталостью.")
	} else {
		fmt.Fprintf(&b, "Ваша цель — поддержать организм в тонусе и укрепить %s.", strings.ToLower(lead.Goal))
	}

	if lead.Activity == ActivitySedentary && (lead.Digestion == DigestionOften || lead.Digestion == DigestionConstant) {
		b.WriteString(" При сидячей работе и проблемах с пищеварением важно работать комплексно: наладить микробиом и добавить адаптогены.")
	} else {
		b.WriteString(" Рекомендуем обратить внимание на комплексы для поддержки обмена веществ.")
	}

	notice = fmt.Sprintf("🚀 *Новый лид!*\n\n"+
		"Имя: %s\n"+
		"Цель: %s\n"+
		"Усталость: %s\n"+
		"Контакт (%s): %s\n"+
		"Фокус: %s\n"+
		"Создан: %s",
		lead.Name,
		lead.Goal,
		lead.Fatigue,
		lead.ContactType,
		lead.ContactData,
		strings.Join(lead.Focus, ", "),
		lead.CreatedAt.Format("2006-01-02 15:04:05"),
	)

	return b.String(), notice
}
