package repository

import (
	"context"
	"time"

	"ascent-club-bot/internal/models"
)

type SubscriberRepository interface {
	CreateOrUpdate(ctx context.Context, subscriber *models.Subscriber) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.Subscriber, error)
	GetByID(ctx context.Context, id int64) (*models.Subscriber, error)
	SetPhoneNumber(ctx context.Context, telegramID int64, phone string) error
	SetSubscription(ctx context.Context, id int64, plan string, expiry time.Time) error

	GetAll(ctx context.Context) ([]*models.Subscriber, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, transaction *models.Transaction) error
	GetByTrackID(ctx context.Context, trackID string) (*models.Transaction, error)
	GetLatestPending(ctx context.Context, subscriberID int64) (*models.Transaction, error)
	// MarkSuccess переводит pending -> success. Возвращает false, если
	// транзакция уже success: статус монотонный, повторный вызов — no-op.
	MarkSuccess(ctx context.Context, trackID string) (bool, error)
}

type MembershipRepository interface {
	// Get возвращает (nil, nil), если строки нет: отсутствие членства —
	// нормальное состояние, а не ошибка.
	Get(ctx context.Context, subscriberID, groupID int64) (*models.Membership, error)
	Create(ctx context.Context, membership *models.Membership) error
	Extend(ctx context.Context, subscriberID, groupID int64, expiry time.Time) error
	Deactivate(ctx context.Context, subscriberID, groupID int64) error
	MarkNotified(ctx context.Context, subscriberID, groupID int64) error

	// Сравнения только по дате, без времени суток
	FindExpiringOn(ctx context.Context, date time.Time) ([]*models.Membership, error)
	FindExpiredAsOf(ctx context.Context, date time.Time) ([]*models.Membership, error)
}

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	MarkRead(ctx context.Context, id int64) error
}

// Store собирает репозитории и границу транзакции БД. Внутри WithinTx
// fn получает Store поверх той же *sqlx.Tx, так что группа записей
// активации ложится в одну транзакцию.
type Store interface {
	Subscribers() SubscriberRepository
	Transactions() TransactionRepository
	Memberships() MembershipRepository
	Messages() MessageRepository
	WithinTx(ctx context.Context, fn func(Store) error) error
}
