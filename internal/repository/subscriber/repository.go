package subscriber

import (
	"context"
	"time"

	"ascent-club-bot/internal/models"
	"ascent-club-bot/internal/repository"

	"github.com/jmoiron/sqlx"
)

type subscriberRepository struct {
	db sqlx.ExtContext
}

func NewSubscriberRepository(db sqlx.ExtContext) repository.SubscriberRepository {
	return &subscriberRepository{db: db}
}

func (r *subscriberRepository) CreateOrUpdate(ctx context.Context, subscriber *models.Subscriber) error {
	query := `
		INSERT INTO ascent.subscribers (telegram_id, phone_number, first_name, last_name, username, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (telegram_id)
		DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			username = EXCLUDED.username,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`

	return r.db.QueryRowxContext(
		ctx,
		query,
		subscriber.TelegramID,
		subscriber.PhoneNumber,
		subscriber.FirstName,
		subscriber.LastName,
		subscriber.Username,
		subscriber.RegisteredAt,
	).Scan(&subscriber.ID)
}

func (r *subscriberRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.Subscriber, error) {
	var subscriber models.Subscriber
	query := `SELECT * FROM ascent.subscribers WHERE telegram_id = $1`
	err := sqlx.GetContext(ctx, r.db, &subscriber, query, telegramID)
	return &subscriber, err
}

func (r *subscriberRepository) GetByID(ctx context.Context, id int64) (*models.Subscriber, error) {
	var subscriber models.Subscriber
	query := `SELECT * FROM ascent.subscribers WHERE id = $1`
	err := sqlx.GetContext(ctx, r.db, &subscriber, query, id)
	return &subscriber, err
}

func (r *subscriberRepository) SetPhoneNumber(ctx context.Context, telegramID int64, phone string) error {
	query := `UPDATE ascent.subscribers SET phone_number = $1, updated_at = CURRENT_TIMESTAMP WHERE telegram_id = $2`
	_, err := r.db.ExecContext(ctx, query, phone, telegramID)
	return err
}

func (r *subscriberRepository) SetSubscription(ctx context.Context, id int64, plan string, expiry time.Time) error {
	query := `
		UPDATE ascent.subscribers
		SET subscription_plan = $1, subscription_expiry = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, plan, expiry, id)
	return err
}

func (r *subscriberRepository) GetAll(ctx context.Context) ([]*models.Subscriber, error) {
	var subscribers []*models.Subscriber
	query := `SELECT * FROM ascent.subscribers ORDER BY first_name, last_name`

	err := sqlx.SelectContext(ctx, r.db, &subscribers, query)
	if err != nil {
		return nil, err
	}

	return subscribers, nil
}
