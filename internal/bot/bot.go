package bot

import (
	"fmt"
	"sync"

	"ascent-club-bot/internal/models/config"
	"ascent-club-bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"go.uber.org/zap"
)

type Bot struct {
	api                   *tgbotapi.BotAPI
	SubscriberService     service.SubscriberService
	PaymentService        service.PaymentService
	ActivationService     service.ActivationService
	ReconciliationService service.ReconciliationService
	log                   *zap.SugaredLogger

	userSessions map[int64]*UserSession // chatID -> session
	mu           sync.RWMutex
}

func NewBot(
	api *tgbotapi.BotAPI,
	subscriberService service.SubscriberService,
	paymentService service.PaymentService,
	activationService service.ActivationService,
	reconciliationService service.ReconciliationService,
	log *zap.SugaredLogger,
) (*Bot, error) {
	cfg := config.AppConfig.Bot

	log.Infof("🤖 Бот инициализирован: %s (debug: %v)", api.Self.UserName, cfg.Debug)
	log.Infof("👑 Администраторы: %v", cfg.AdminIDs)

	return &Bot{
		api:                   api,
		SubscriberService:     subscriberService,
		PaymentService:        paymentService,
		ActivationService:     activationService,
		ReconciliationService: reconciliationService,
		log:                   log,
		userSessions:          make(map[int64]*UserSession),
	}, nil
}

// NewBotAPI создаёт общий клиент Telegram для бота и группового шлюза
func NewBotAPI(log *zap.SugaredLogger) (*tgbotapi.BotAPI, error) {
	cfg := config.AppConfig.Bot

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	api.Debug = cfg.Debug
	log.Infof("🔑 Авторизован как %s", api.Self.UserName)
	return api, nil
}

func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates, err := b.api.GetUpdatesChan(u)
	if err != nil {
		return err
	}

	for update := range updates {
		if update.Message == nil {
			continue
		}

		go b.handleMessage(update.Message)
	}

	return nil
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}
