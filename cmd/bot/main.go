package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"faresbot/internal/bot"
	"faresbot/internal/config"
	"faresbot/internal/database"
	"faresbot/internal/domain"
	"faresbot/internal/events"
	"faresbot/internal/google"
	"faresbot/internal/logging"
	"faresbot/internal/metrics"
	"faresbot/internal/repository"
	"faresbot/internal/service"
	"faresbot/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, loadErr := loadConfigAndLogger()
	if loadErr != nil {
		return loadErr
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := prepareDirectories(cfg, &logger); err != nil {
		return err
	}

	db, err := initDatabase(cfg, &logger)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sheetsService := initGoogleSheets(ctx, cfg, &logger)

	redisClient, limiter := initRateLimiter(ctx, cfg, &logger)
	defer func() {
		_ = repository.Close(redisClient)
	}()

	botMetrics := bot.NewMetrics()

	eventBus := events.NewEventBus()
	subscribeLeadEvents(eventBus, botMetrics, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		go metrics.Serve(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	return startBot(ctx, cfg, db, limiter, sheetsService, eventBus, botMetrics, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}
	logger := logging.Component(baseLogger, "bot-main")

	return cfg, logger, closer, nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if cfg == nil {
		return os.ErrInvalid
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Error().Err(err).Msg("Ошибка создания директории для базы данных")
		return err
	}
	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("Ошибка создания директории для экспорта")
		return err
	}
	return nil
}

func initDatabase(cfg *config.Config, logger *zerolog.Logger) (*database.DB, error) {
	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка инициализации базы данных")
		return nil, err
	}
	return db, nil
}

// initGoogleSheets опционален: без spreadsheet id бот работает, просто
// не дублирует лидов в таблицу.
func initGoogleSheets(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *google.LeadsSheet {
	if cfg.Google.GoogleCredentialsFile == "" || cfg.Google.LeadsSpreadSheetID == "" {
		logger.Info().Msg("Google Sheets export disabled")
		return nil
	}

	sheetsSvc, err := google.NewLeadsSheet(cfg.Google.GoogleCredentialsFile, cfg.Google.LeadsSpreadSheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize Google Sheets service, continuing without it")
		return nil
	}

	if err := sheetsSvc.TestConnection(ctx); err != nil {
		logger.Warn().Err(err).Msg("Google Sheets connection test failed, continuing without it")
		return nil
	}

	logger.Info().Msg("Google Sheets service initialized successfully")
	return sheetsSvc
}

func initRateLimiter(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, *repository.FailoverRateLimiter) {
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = repository.NewRedisClient(cfg.Redis)
		if errPing := repository.Ping(ctx, redisClient); errPing != nil {
			logger.Warn().Err(errPing).Msg("Redis unavailable")
		}
	}

	primary := repository.NewRedisRateLimiter(redisClient)
	fallback := repository.NewMemoryRateLimiter()
	return redisClient, repository.NewFailoverRateLimiter(primary, fallback, logger)
}

func subscribeLeadEvents(eventBus *events.EventBus, botMetrics *bot.Metrics, logger *zerolog.Logger) {
	eventBus.Subscribe(events.EventLeadCompleted, func(event *events.Event) error {
		botMetrics.FunnelsCompleted.Inc()
		logger.Info().RawJSON("payload", event.Payload).Msg("Lead completed")
		return nil
	})
	eventBus.Subscribe(events.EventLeadStarted, func(event *events.Event) error {
		logger.Info().RawJSON("payload", event.Payload).Msg("Lead started")
		return nil
	})
}

func startBot(
	ctx context.Context,
	cfg *config.Config,
	db *database.DB,
	limiter *repository.FailoverRateLimiter,
	sheetsService *google.LeadsSheet,
	eventBus *events.EventBus,
	botMetrics *bot.Metrics,
	logger *zerolog.Logger,
) error {
	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания BotAPI")
		return err
	}
	botAPI.Debug = cfg.Telegram.Debug

	sender := bot.NewSender(botAPI)
	tgService := service.NewTelegramService(sender, cfg.Bot.SendRate, cfg.Bot.SendBurst)

	finalizerOpts := worker.Options{
		AnalyzeDelay:   time.Duration(cfg.Funnel.AnalyzeDelayMS) * time.Millisecond,
		GuideDelay:     time.Duration(cfg.Funnel.GuideDelayMS) * time.Millisecond,
		GuidePath:      cfg.Funnel.GuidePath,
		OperatorChatID: cfg.Operator.ChatID,
	}

	// typed nil в интерфейсе не считается nil, поэтому присваиваем явно
	var appender domain.LeadAppender
	if sheetsService != nil {
		appender = sheetsService
	}

	finalizer := worker.NewFinalizer(db, tgService, appender, eventBus, finalizerOpts, logger)
	go finalizer.Start(ctx)

	telegramBot, err := bot.NewBot(tgService, cfg, db, limiter, finalizer, eventBus, botMetrics, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания бота")
		return err
	}

	logger.Info().Msg("Бот запущен...")
	telegramBot.Start(ctx)

	logger.Info().Msg("Shutdown complete.")
	return nil
}
