package message

import (
	"context"

	"ascent-club-bot/internal/models"
	"ascent-club-bot/internal/repository"

	"github.com/jmoiron/sqlx"
)

type messageRepository struct {
	db sqlx.ExtContext
}

func NewMessageRepository(db sqlx.ExtContext) repository.MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	query := `
        INSERT INTO ascent.messages (subscriber_id, text, sent_at)
        VALUES ($1, $2, $3)
        RETURNING id
    `
	return r.db.QueryRowxContext(
		ctx,
		query,
		message.SubscriberID,
		message.Text,
		message.SentAt,
	).Scan(&message.ID)
}

func (r *messageRepository) MarkRead(ctx context.Context, id int64) error {
	query := `UPDATE ascent.messages SET is_read = TRUE WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
