package service

import (
	"context"
	"errors"

	"ascent-club-bot/internal/models"
)

// Ошибки уровня сервисов. Проверяются через errors.Is; репозитории
// наружу отдают голые ошибки sql, сервисы переводят их сюда.
var (
	// ErrNotFound — неизвестный trackId или подписчик
	ErrNotFound = errors.New("не найдено")
	// ErrNotPaid — шлюз ответил, что оплата не завершена (202)
	ErrNotPaid = errors.New("оплата не завершена")
	// ErrAlreadyVerified — шлюз уже подтверждал этот платёж ранее (201);
	// книги не трогаем, арбитр повторов — статус нашей транзакции
	ErrAlreadyVerified = errors.New("платёж уже подтверждался шлюзом")
	// ErrGateway — сбой связи со шлюзом или нераспознанный код ответа
	ErrGateway = errors.New("ошибка платёжного шлюза")
	// ErrSweepRunning — сверка уже выполняется
	ErrSweepRunning = errors.New("сверка уже запущена")
)

// ActivationService превращает подтверждённый платёж в продлённую
// подписку и членство в группе. activated=false при nil-ошибке означает
// идемпотентный no-op: транзакция уже была обработана.
type ActivationService interface {
	Activate(ctx context.Context, trackID string) (activated bool, err error)
}

type PaymentService interface {
	// InitiatePurchase заводит платёж у шлюза и pending-транзакцию в
	// книге, возвращает адрес для перехода к оплате
	InitiatePurchase(ctx context.Context, subscriberID int64, planCode string) (payURL string, err error)
}

type SubscriberService interface {
	RegisterOrUpdate(ctx context.Context, telegramID int64, firstName, lastName, username string) (*models.Subscriber, error)
	SavePhoneNumber(ctx context.Context, telegramID int64, phone string) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.Subscriber, error)
	GetAll(ctx context.Context) ([]*models.Subscriber, error)
	LatestPendingTransaction(ctx context.Context, subscriberID int64) (*models.Transaction, error)
	GetMembership(ctx context.Context, subscriberID int64) (*models.Membership, error)
	SaveSupportMessage(ctx context.Context, subscriberID int64, text string) (*models.Message, error)
}

// SweepReport — итог одного прогона сверки
type SweepReport struct {
	Notified int
	Revoked  int
	Failed   int
}

type ReconciliationService interface {
	// Sweep безопасно запускать сколько угодно раз в день: оставшуюся
	// работу определяют только флаги notification_sent и is_active
	Sweep(ctx context.Context) (*SweepReport, error)
}
