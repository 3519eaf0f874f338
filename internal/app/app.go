package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/http/sessions_handler"
	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/http/subjects_handler"
	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/telegram/admin_handler"
	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/telegram/back_handler"
	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/telegram/history_handler"
	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/telegram/keyboards"
	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/telegram/poll_answer_handler"
	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/telegram/section_handler"
	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/telegram/start_handler"
	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/telegram/stop_handler"
	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/telegram/subject_handler"
	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/telegram/texts"
	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/telegram/top_handler"
	"github.com/IT-Nick/group-quiz-bot/internal/app/middleware"
	"github.com/IT-Nick/group-quiz-bot/internal/domain/admin"
	"github.com/IT-Nick/group-quiz-bot/internal/domain/quiz"
	subjectsRepo "github.com/IT-Nick/group-quiz-bot/internal/domain/subjects/repository"
	subjectsService "github.com/IT-Nick/group-quiz-bot/internal/domain/subjects/service"
	"github.com/IT-Nick/group-quiz-bot/internal/infra/config"
	"github.com/IT-Nick/group-quiz-bot/internal/infra/memory"
	"github.com/IT-Nick/group-quiz-bot/internal/infra/metrics"
	"github.com/IT-Nick/group-quiz-bot/internal/infra/postgres"
	redisCache "github.com/IT-Nick/group-quiz-bot/internal/infra/redis"
	"github.com/IT-Nick/group-quiz-bot/internal/infra/telegram"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gopkg.in/telebot.v4"
	teleMiddleware "gopkg.in/telebot.v4/middleware"
)

const shutdownTimeout = 10 * time.Second

type Services struct {
	bank    *subjectsService.Bank
	engine  *quiz.Engine
	flow    *admin.Flow
	names   quiz.NameCache
	results *postgres.ResultsRepository
	metrics *metrics.Metrics
}

type App struct {
	config *config.Config
	logger zerolog.Logger
	bot    *telebot.Bot
	db     *pgxpool.Pool
	redis  *redis.Client
	server *http.Server

	Services
}

// NewApp подключает хранилища, создает бота и собирает сервисы.
// База и Redis необязательны: без них архив выключен, а имена хранятся только в памяти.
func NewApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	app := &App{
		config: cfg,
		logger: logger,
	}

	if cfg.Database.Enabled() {
		db, err := InitDatabase(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		app.db = db

		if err := postgres.Migrate(ctx, db, "up"); err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	if cfg.Redis.Enabled() {
		client, err := InitRedis(ctx, cfg.Redis, logger)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		app.redis = client
	}

	bot, err := app.newBot()
	if err != nil {
		app.Close()
		return nil, err
	}
	app.bot = bot

	if err := app.initServices(ctx); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// Функция для инициализации сервисов и репозиториев
func (app *App) initServices(ctx context.Context) error {
	app.bank = subjectsService.NewBank(subjectsRepo.NewFileRepository(app.config.Quiz.DataDir), app.logger)
	n, err := app.bank.Reload(ctx)
	if err != nil {
		return fmt.Errorf("failed to load subjects: %w", err)
	}
	if n == 0 {
		app.logger.Warn().Str("dir", app.config.Quiz.DataDir).Msg("no subjects loaded, add them with /admin")
	}

	if app.redis != nil {
		app.names = redisCache.NewNameCache(app.redis, app.config.Redis.TTL, app.logger)
	} else {
		app.names = memory.NewNameCache()
	}

	opts := quiz.Options{
		QuestionTime: app.config.Quiz.QuestionTime,
		GracePeriod:  app.config.Quiz.GracePeriod,
		SectionSize:  app.config.Quiz.SectionSize,
		Names:        app.names,
		Logger:       &app.logger,
	}

	if app.db != nil {
		app.results = postgres.NewResultsRepository(app.db)
		opts.Results = app.results
	}

	app.metrics = metrics.New()
	opts.Metrics = app.metrics

	app.engine = quiz.NewEngine(app.bank, telegram.NewPublisher(app.bot, app.logger), opts)
	app.flow = admin.NewFlow(app.bank)

	return nil
}

func (app *App) newBot() (*telebot.Bot, error) {
	client := &http.Client{Timeout: app.config.TelegramBot.PollTimeout + 30*time.Second}

	proxy, err := app.config.TelegramBot.Proxy()
	if err != nil {
		return nil, fmt.Errorf("invalid proxy url: %w", err)
	}
	if proxy != nil {
		client.Transport = &http.Transport{Proxy: http.ProxyURL(proxy)}
		app.logger.Info().Str("proxy", proxy.Redacted()).Msg("telegram requests go through proxy")
	}

	bot, err := telebot.NewBot(telebot.Settings{
		Token:  app.config.TelegramBot.Token,
		Client: client,
		Poller: &telebot.LongPoller{
			Timeout:        app.config.TelegramBot.PollTimeout,
			AllowedUpdates: []string{"message", "callback_query", "poll_answer"},
		},
		OnError: func(err error, c telebot.Context) {
			e := app.logger.Error().Err(err)
			if c != nil && c.Chat() != nil {
				e = e.Int64("chat_id", c.Chat().ID)
			}
			e.Msg("telegram handler failed")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("telebot.NewBot: %w", err)
	}

	return bot, nil
}

// bootstrapHandlersTelegram - регистрирует обработчики для бота
func (app *App) bootstrapHandlersTelegram() {
	app.bot.Use(
		middleware.Recover(app.logger),
		middleware.Logger(app.logger),
		middleware.RememberSender(app.names, app.logger),
		teleMiddleware.AutoRespond(),
	)

	app.bot.Handle("/start", start_handler.NewStartHandler(app.engine, app.logger).GetHandlerFunc())
	app.bot.Handle("/stop", stop_handler.NewStopHandler(app.engine, app.logger).GetHandlerFunc())
	app.bot.Handle("/top", top_handler.NewTopHandler(app.engine, app.logger).GetHandlerFunc())

	var history history_handler.ResultsHistory
	if app.results != nil {
		history = app.results
	}
	app.bot.Handle("/history", history_handler.NewHistoryHandler(history, app.logger).GetHandlerFunc())

	app.bot.Handle(&telebot.InlineButton{Unique: keyboards.UniqueSubject}, subject_handler.NewSubjectHandler(app.engine, app.bank, app.logger).GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: keyboards.UniqueSection}, section_handler.NewSectionHandler(app.engine, app.logger).GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: keyboards.UniqueBack}, back_handler.NewBackHandler(app.engine, app.logger).GetHandlerFunc())

	app.bot.Handle(telebot.OnPollAnswer, poll_answer_handler.NewPollAnswerHandler(app.engine).GetHandlerFunc())

	// Панель администратора. Диалог добавления предмета ведется по id администратора,
	// поэтому текст и документы остальных пользователей обработчики просто пропускают.
	adminOnly := middleware.AdminOnly(app.config.TelegramBot.IsAdmin, texts.NotAdmin)

	app.bot.Handle("/admin", admin_handler.NewMenuHandler().GetHandlerFunc(), adminOnly)
	app.bot.Handle("/cancel", admin_handler.NewCancelHandler(app.flow).GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: keyboards.UniqueAdminBack}, admin_handler.NewMenuHandler().GetHandlerFunc(), adminOnly)
	app.bot.Handle(&telebot.InlineButton{Unique: keyboards.UniqueAdminAdd}, admin_handler.NewAddHandler(app.flow).GetHandlerFunc(), adminOnly)
	app.bot.Handle(&telebot.InlineButton{Unique: keyboards.UniqueAdminDel}, admin_handler.NewDeleteListHandler(app.bank).GetHandlerFunc(), adminOnly)
	app.bot.Handle(&telebot.InlineButton{Unique: keyboards.UniqueConfirm}, admin_handler.NewConfirmDeleteHandler(app.bank, app.logger).GetHandlerFunc(), adminOnly)
	app.bot.Handle(&telebot.InlineButton{Unique: keyboards.UniqueAdminList}, admin_handler.NewListHandler(app.bank).GetHandlerFunc(), adminOnly)
	app.bot.Handle(&telebot.InlineButton{Unique: keyboards.UniqueReload}, admin_handler.NewReloadHandler(app.bank, app.logger).GetHandlerFunc(), adminOnly)

	app.bot.Handle(telebot.OnText, admin_handler.NewNameHandler(app.flow).GetHandlerFunc())
	app.bot.Handle(telebot.OnDocument, admin_handler.NewDocumentHandler(app.flow, app.bot, app.logger).GetHandlerFunc())
}

// routerHTTP служебные ручки: проверка живости, метрики и состояние викторин
func (app *App) routerHTTP() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if app.db != nil {
			if err := app.db.Ping(r.Context()); err != nil {
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())
	r.Method(http.MethodGet, "/sessions", sessions_handler.NewSessionsHandler(app.engine))
	r.Method(http.MethodGet, "/subjects", subjects_handler.NewSubjectsHandler(app.bank))

	return r
}

// Run запускает бота и HTTP сервер и работает до отмены ctx или ошибки сервера.
// При остановке идущие викторины прерываются без отчетов.
func (app *App) Run(ctx context.Context) error {
	app.bootstrapHandlersTelegram()

	app.server = &http.Server{
		Addr:              net.JoinHostPort(app.config.Server.Host, app.config.Server.Port),
		Handler:           app.routerHTTP(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info().Str("bot", app.bot.Me.Username).Msg("telegram bot started")
		app.bot.Start()
		return nil
	})

	g.Go(func() error {
		app.logger.Info().Str("addr", app.server.Addr).Msg("http server started")
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info().Msg("shutting down")

		app.bot.Stop()
		app.engine.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Close освобождает подключения к хранилищам
func (app *App) Close() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn().Err(err).Msg("failed to close redis")
		}
	}
	if app.db != nil {
		app.db.Close()
	}
}
