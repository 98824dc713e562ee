package models

// Шаги воронки.
const (
	StepWelcome    = "welcome"
	StepName       = "name"
	StepGoal       = "goal"
	StepGoalCustom = "goal_custom"
	StepFatigue    = "fatigue"
	StepActivity   = "activity"
	StepDigestion  = "digestion"
	StepBeauty     = "beauty"
	StepFocus      = "focus"
	StepFormat     = "format"
	StepContact    = "contact"
	StepAnalyzing  = "analyzing"
	StepDone       = "done"
)

const (
	ParseModeMarkdown = "Markdown"
	ParseModeHTML     = "HTML"
)

const (
	// RateLimitMessages количество сообщений в окне
	RateLimitMessages = 20

	// RateLimitWindow окно ограничения частоты сообщений
	RateLimitWindow = 60 // 1 минута в секундах

	// FinalizerQueueSize размер очереди задач финализации
	FinalizerQueueSize = 256

	// DefaultAnalyzeDelayMS пауза перед отправкой отчета
	DefaultAnalyzeDelayMS = 3000

	// DefaultGuideDelayMS пауза перед отправкой материалов
	DefaultGuideDelayMS = 1500
)
