package funnel

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Служебные токены callback-кнопок.
const (
	TokenStartQuiz       = "start_quiz"
	TokenGoalCustom      = "goal_custom"
	TokenFocusDone       = "focus_done"
	TokenFormatDone      = "format_done"
	TokenContactTelegram = "contact_tg"
	TokenContactWhatsApp = "contact_wa"
	TokenContactProfile  = "contact_use_profile"
)

// Токены ответов, на которые ссылаются правила отчета.
const (
	GoalEnergy          = "Энергия"
	FatigueAlmostAlways = "Почти всегда"
	ActivitySedentary   = "Сидячая работа"
	DigestionOften      = "Часто"
	DigestionConstant   = "Постоянно"
)

// Option — одна кнопка фиксированного словаря вопроса.
type Option struct {
	Label string
	Token string
}

var goalOptions = []Option{
	{"☀️ Больше энергии", GoalEnergy},
	{"🛡️ Сильный иммунитет", "Иммунитет"},
	{"❤️ Здоровые сердце и сосуды", "Сердце и сосуды"},
	{"🧘‍♀️ Спокойствие, меньше стресса", "Спокойствие"},
	{"💬 Свой вариант (напишу)", TokenGoalCustom},
}

var fatigueOptions = []Option{
	{"Редко", "Редко"},
	{"Иногда", "Иногда"},
	{"Почти всегда", FatigueAlmostAlways},
}

var activityOptions = []Option{
	{"🧑‍💻 Сидячая работа", ActivitySedentary},
	{"🚶‍♀️ Умеренная активность", "Умеренная активность"},
	{"🏃 Спорт 3+ раза в неделю", "Спорт"},
}

var digestionOptions = []Option{
	{"Практически никогда", "Никогда"},
	{"Редко", "Редко"},
	{"Часто", DigestionOften},
	{"Постоянно", DigestionConstant},
}

var beautyOptions = []Option{
	{"Да, это важно", "Важно"},
	{"Пока не главный приоритет", "Не приоритет"},
}

var focusOptions = []Option{
	{"🧠 Ясный ум и концентрация", "Ум"},
	{"💪 Выносливость и тонус", "Тонус"},
	{"😌 Снижение стресса", "Стресс"},
	{"🩸 Чистота крови и сосуды", "Сосуды"},
}

var formatOptions = []Option{
	{"💊 Капсулы/таблетки", "Капсулы"},
	{"💧 Ампулы/жидкость", "Жидкость"},
	{"🍵 Чай/порошок", "Порошок"},
	{"🤷 Не важно, главное — эффект", "Любой"},
}

const welcomeText = `Привет! Я помощник проекта Fares Korea от Татьяны.

Усталость, туман в голове и вечные «не хватает сил» — это не норма. Чаще всего за этим стоят конкретные сбои в организме, которые можно найти и скорректировать.

Я помогу вам разобраться, с чего начать. Это займет 2 минуты.

В конце вы получите:
✅ Персональный мини-отчет с направлением для действий.
✅ Полезный гайд на выбор (по анализам или коллагену).
✅ Ссылку на Telegram-канал с экспертизой.

Готовы? Это того стоит! 👇`

const (
	namePromptText       = "Отлично! Для начала, как к вам обращаться?"
	goalPromptText       = "%s, какое главное улучшение вы хотите почувствовать в первую очередь? Выберите один, самый важный для вас пункт."
	customGoalPromptText = "Напишите, пожалуйста, вашу главную цель:"
	fatiguePromptText    = "Следующий важный момент. Как часто вы ощущаете сильную усталость или истощение к концу дня?"
	activityPromptText   = "Ваш образ жизни влияет на выбор поддержки. Что ближе?"
	digestionPromptText  = "Бывает ли у вас дискомфорт с пищеварением (тяжесть после еды, вздутие, нерегулярный стул)?"
	beautyPromptText     = "Хотите ли вы уделить дополнительное внимание поддержке кожи, обмена веществ и естественному омоложению?"
	focusPromptText      = "Уточню, чтобы рекомендация была точнее. Что для вас важнее прямо сейчас? (Можно выбрать несколько)"
	formatPromptText     = "Удобство = регулярность. Какой формат приема добавок вам ближе? (Можно выбрать несколько)"
)

const contactPromptText = `Почти готово! Куда вам удобнее получить персональный разбор и промокод на скидку 10%?

Выберите мессенджер и укажите ваш контакт.`

const (
	contactValuePromptTG = "Укажите, пожалуйста, ваш username или номер телеграма вручную или нажмите кнопку ниже:"
	contactValuePromptWA = "Укажите, пожалуйста, ваш номер телефона вручную или нажмите кнопку ниже:"
	profileButtonLabel   = "👤 Использовать мой @username"
	profileAcceptedNote  = "Данные профиля приняты!"
)

// AnalyzingAckText — подтверждение сразу после завершения анкеты, %s — имя.
const AnalyzingAckText = "Спасибо, %s! Анализирую ваши ответы… ✨"

const (
	// MaterialsHeaderText заголовок блока бесплатных материалов
	MaterialsHeaderText = "🎁 *Ваши бесплатные материалы:*"
	// GuideCaptionText подпись к PDF-гайду
	GuideCaptionText = "Гайд «Коллаген: как выбрать и принимать»"
	// GuideFallbackText отправляется, если документ не ушел
	GuideFallbackText = "Гайд будет доступен через мгновение..."
)

const PromoText = `🛒 *Специальное предложение для вас:*

Промокод *ENERGY10* на скидку 10% для первого заказа на koreahealth.shop. Активен 7 дней.

📌 *Рекомендуем продолжить погружение:*`

const ClosingText = "А скоро с вами свяжусь я, Татьяна, чтобы уточнить детали и ответить на вопросы. Хорошего дня! 💫"

// FinalizeFailedText — общее извинение при сбое формирования результатов.
const FinalizeFailedText = "Произошла ошибка при обработке результатов. Пожалуйста, попробуйте позже."

// StartHintText — ответ на нажатие кнопки без существующей записи.
const StartHintText = "Начните с команды /start"

const (
	channelURL   = "https://t.me/kumdang_store"
	instagramURL = "https://instagram.com/fares_korea"
)

func singleColumnKeyboard(options []Option) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(options))
	for _, opt := range options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(opt.Label, opt.Token),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func welcomeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Да, пройти опрос!", TokenStartQuiz),
		),
	)
}

func contactKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📱 Telegram", TokenContactTelegram),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📞 WhatsApp", TokenContactWhatsApp),
		),
	)
}

func profileKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(profileButtonLabel, TokenContactProfile),
		),
	)
}

// PromoKeyboard — ссылки финального промо-сообщения.
func PromoKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("Наш Telegram-канал", channelURL),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("Instagram", instagramURL),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("Перейти в канал Fares Korea", channelURL),
		),
	)
}

func tokenIn(options []Option, token string) bool {
	for _, opt := range options {
		if opt.Token == token {
			return true
		}
	}
	return false
}
