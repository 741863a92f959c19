package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/WhoAbdullahSheikh/drivesmart/assets"
	"github.com/WhoAbdullahSheikh/drivesmart/internal/config"
	"github.com/WhoAbdullahSheikh/drivesmart/internal/delivery/ops"
	"github.com/WhoAbdullahSheikh/drivesmart/internal/delivery/telegram"
	"github.com/WhoAbdullahSheikh/drivesmart/internal/domain/entities"
	"github.com/WhoAbdullahSheikh/drivesmart/internal/infra/postgres"
	pgrepository "github.com/WhoAbdullahSheikh/drivesmart/internal/infra/postgres/repository"
	redisstore "github.com/WhoAbdullahSheikh/drivesmart/internal/infra/redis"
	"github.com/WhoAbdullahSheikh/drivesmart/internal/infra/sqlite"
	"github.com/WhoAbdullahSheikh/drivesmart/internal/logger"
	"github.com/WhoAbdullahSheikh/drivesmart/internal/metrics"
	"github.com/WhoAbdullahSheikh/drivesmart/internal/repository"
	"github.com/WhoAbdullahSheikh/drivesmart/internal/service"
	"github.com/WhoAbdullahSheikh/drivesmart/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil && !errors.Is(err, context.Canceled) {
		lg.Error("bot stopped", zap.Error(err))
		os.Exit(1)
	}
	lg.Info("shutdown signal received")
}

func run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// Initialize content.
	catalogs, rules, err := loadContent(cfg)
	if err != nil {
		return err
	}

	bank, err := service.NewQuestionBank(catalogs, nil)
	if err != nil {
		return fmt.Errorf("question bank: %w", err)
	}
	lg.Info("question catalogs loaded",
		zap.Int("languages", len(bank.Languages())),
		zap.Int("questions", len(bank.GetQuestions(entities.DefaultLanguage))),
		zap.Int("rule_categories", len(rules.Categories())),
	)

	quizService := service.NewQuizService(
		bank,
		storage.NewQuizStorage(),
		service.QuizConfig{
			CorrectAdvanceDelay:   cfg.Quiz.CorrectAdvanceDelay,
			IncorrectAdvanceDelay: cfg.Quiz.IncorrectAdvanceDelay,
			SessionIdleTTL:        cfg.Quiz.SessionIdleTTL,
			SweepSpec:             cfg.Quiz.SweepSpec,
		},
		lg.Named("quiz"),
		service.WithQuizRecorder(m),
	)

	// Initialize the preference store.
	prefs, checks, closeStore, err := openPreferenceStore(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer closeStore()

	locales := service.NewLocalizationRegistry(prefs, lg.Named("localization"),
		service.WithStorageErrorRecorder(m),
	)

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return fmt.Errorf("telegram bot: %w", err)
	}
	bot.Debug = cfg.Telegram.Debug
	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	setCommands(bot, lg)

	handler := telegram.NewHandler(
		bot,
		lg.Named("telegram"),
		quizService,
		locales,
		rules,
		storage.NewMessageStorage(),
		telegram.Options{
			Presets:       cfg.Quiz.Presets,
			UpdateTimeout: cfg.Telegram.UpdateTimeout,
			RateLimit:     rate.Limit(cfg.Telegram.RateLimit),
			RateBurst:     cfg.Telegram.RateBurst,
			Recorder:      m,
		},
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return handler.Run(ctx) })
	g.Go(func() error { return quizService.Run(ctx) })

	if cfg.HTTP.Addr != "" {
		server := ops.NewServer(cfg.HTTP.Addr, ops.NewRouter(reg, checks), lg.Named("ops"))
		g.Go(func() error { return server.Run(ctx) })
	}

	return g.Wait()
}

// loadContent reads the question catalogs and traffic rules from the
// configured paths, or from the bundled assets.
func loadContent(cfg *config.Config) (map[entities.LanguageCode][]entities.Question, *repository.RulesBook, error) {
	questionsFS, err := fs.Sub(assets.FS, assets.QuestionsDir)
	if err != nil {
		return nil, nil, err
	}
	if cfg.CatalogsDir != "" {
		questionsFS = os.DirFS(cfg.CatalogsDir)
	}

	catalogs, err := repository.LoadQuestionCatalogs(questionsFS)
	if err != nil {
		return nil, nil, fmt.Errorf("load question catalogs: %w", err)
	}

	var (
		rulesFS   fs.FS = assets.FS
		rulesName       = assets.RulesFile
	)
	if cfg.RulesPath != "" {
		rulesFS = os.DirFS(filepath.Dir(cfg.RulesPath))
		rulesName = filepath.Base(cfg.RulesPath)
	}

	rules, err := repository.LoadRulesBook(rulesFS, rulesName)
	if err != nil {
		return nil, nil, fmt.Errorf("load traffic rules: %w", err)
	}

	return catalogs, rules, nil
}

// openPreferenceStore connects the configured preference backend and returns
// its health checks and a close function.
func openPreferenceStore(
	ctx context.Context, cfg *config.Config, lg *zap.Logger,
) (service.PreferenceStore, map[string]ops.Check, func(), error) {
	checks := make(map[string]ops.Check)

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		lg.Warn("language preferences are kept in memory only")
		return storage.NewMemoryPreferences(), checks, func() {}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		checks["sqlite"] = db.PingContext
		lg.Info("preference store ready", zap.String("driver", cfg.Storage.Driver), zap.String("path", cfg.SQLite.Path))
		return sqlite.NewPreferenceStore(db), checks, func() { _ = db.Close() }, nil

	case config.DriverPostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, nil, nil, err
		}
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        cfg.DB.MaxConnections,
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
			ConnectTimeout:  cfg.DB.ConnectTimeout,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := postgres.Migrate(ctx, postgres.NewTransactor(pool)); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		checks["postgres"] = pool.Ping
		lg.Info("preference store ready", zap.String("driver", cfg.Storage.Driver))
		return pgrepository.NewPreferenceRepository(pool), checks, pool.Close, nil

	case config.DriverRedis:
		rdb, err := redisstore.NewClient(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		hash := cfg.Redis.HashKey
		if hash == "" {
			hash = redisstore.DefaultHashKey
		}
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		lg.Info("preference store ready", zap.String("driver", cfg.Storage.Driver), zap.String("addr", cfg.Redis.Addr))
		return redisstore.NewPreferenceStore(rdb, hash), checks, func() { _ = rdb.Close() }, nil

	default:
		return nil, nil, nil, fmt.Errorf("%w: %q", config.ErrUnsupportedStorageDriver, cfg.Storage.Driver)
	}
}

func setCommands(bot *tgbotapi.BotAPI, lg *zap.Logger) {
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Open the main menu"},
		{Command: "test", Description: "Start a driving test (/test 20 for 20 questions)"},
		{Command: "rules", Description: "Swedish traffic rules"},
		{Command: "language", Description: "Change language"},
		{Command: "quit", Description: "End the current test"},
		{Command: "help", Description: "Help"},
	}

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}
}
