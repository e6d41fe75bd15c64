package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	"ascent-club-bot/internal/bot"
	"ascent-club-bot/internal/gateway"
	"ascent-club-bot/internal/gateway/telegram"
	"ascent-club-bot/internal/gateway/zibal"
	"ascent-club-bot/internal/models/config"
	"ascent-club-bot/internal/repository"
	"ascent-club-bot/internal/repository/store"
	"ascent-club-bot/internal/scheduler"
	"ascent-club-bot/internal/service"
	activation_service "ascent-club-bot/internal/service/activation"
	payment_service "ascent-club-bot/internal/service/payment"
	reconciliation_service "ascent-club-bot/internal/service/reconciliation"
	subscriber_service "ascent-club-bot/internal/service/subscriber"
	"ascent-club-bot/internal/web"
	database "ascent-club-bot/pkg"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newDB,
			store.NewStore,
			newBotAPI,
			newTelegramGateway,
			func(g *telegram.Gateway) gateway.Messenger { return g },
			func(g *telegram.Gateway) gateway.GroupGateway { return g },
			newPaymentGateway,
			newActivationService,
			payment_service.NewPaymentService,
			newSubscriberService,
			reconciliation_service.NewReconciliationService,
			newScheduler,
			bot.NewBot,
			newWebHandler,
			newHTTPServer,
		),
		fx.Invoke(registerHooks),
	)

	app.Run()
}

func newConfig() (*config.Config, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	return config.AppConfig, nil
}

func newLogger(cfg *config.Config) (*zap.SugaredLogger, error) {
	var logger *zap.Logger
	var err error

	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}

	sugar := logger.Sugar()
	sugar.Infof("🚀 Запуск в окружении: %s", cfg.Environment)
	return sugar, nil
}

func newDB(cfg *config.Config, logger *zap.SugaredLogger) (*sqlx.DB, error) {
	return database.NewPostgres(logger)
}

func newBotAPI(cfg *config.Config, logger *zap.SugaredLogger) (*tgbotapi.BotAPI, error) {
	return bot.NewBotAPI(logger)
}

func newTelegramGateway(api *tgbotapi.BotAPI, logger *zap.SugaredLogger) *telegram.Gateway {
	return telegram.NewGateway(api, logger)
}

func newPaymentGateway(cfg *config.Config, logger *zap.SugaredLogger) gateway.PaymentGateway {
	return zibal.NewClient(logger)
}

func newActivationService(
	cfg *config.Config,
	st repository.Store,
	payments gateway.PaymentGateway,
	messenger gateway.Messenger,
	groups gateway.GroupGateway,
	logger *zap.SugaredLogger,
) service.ActivationService {
	return activation_service.NewActivationService(st, payments, messenger, groups, cfg.Club.GroupID, logger)
}

func newSubscriberService(cfg *config.Config, st repository.Store) service.SubscriberService {
	return subscriber_service.NewSubscriberService(st, cfg.Club.GroupID)
}

func newScheduler(cfg *config.Config, reconciliation service.ReconciliationService, logger *zap.SugaredLogger) *scheduler.Scheduler {
	return scheduler.New(reconciliation, cfg.Club.SweepHour, logger)
}

func newWebHandler(activation service.ActivationService, api *tgbotapi.BotAPI, logger *zap.SugaredLogger) *web.Handler {
	return web.NewHandler(activation, api.Self.UserName, logger)
}

func newHTTPServer(cfg *config.Config, handler *web.Handler) *http.Server {
	return &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: handler.Routes(),
	}
}

func registerHooks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	telegramBot *bot.Bot,
	server *http.Server,
	sched *scheduler.Scheduler,
	logger *zap.SugaredLogger,
) {
	schedCtx, schedCancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := telegramBot.Start(); err != nil {
					logger.Errorf("❌ Ошибка запуска бота: %v", err)
					if shutdownErr := shutdowner.Shutdown(); shutdownErr != nil {
						log.Fatalf("shutdown failed: %v", shutdownErr)
					}
				}
			}()

			go func() {
				logger.Infof("🌐 HTTP-сервер оплаты на порту %s", cfg.HTTPPort)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Errorf("❌ Ошибка HTTP-сервера: %v", err)
					if shutdownErr := shutdowner.Shutdown(); shutdownErr != nil {
						log.Fatalf("shutdown failed: %v", shutdownErr)
					}
				}
			}()

			go sched.Run(schedCtx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("🛑 Получен сигнал завершения...")

			telegramBot.Stop()
			schedCancel()
			if err := server.Shutdown(ctx); err != nil {
				logger.Errorf("❌ Ошибка остановки HTTP-сервера: %v", err)
			}

			logger.Info("👋 Корректное завершение работы")
			return nil
		},
	})
}
