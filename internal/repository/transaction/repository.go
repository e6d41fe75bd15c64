package transaction

import (
	"context"

	"ascent-club-bot/internal/models"
	"ascent-club-bot/internal/repository"

	"github.com/jmoiron/sqlx"
)

type transactionRepository struct {
	db sqlx.ExtContext
}

func NewTransactionRepository(db sqlx.ExtContext) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	query := `
        INSERT INTO ascent.transactions
        (subscriber_id, amount, track_id, order_id, plan, months, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id
    `
	return r.db.QueryRowxContext(
		ctx,
		query,
		transaction.SubscriberID,
		transaction.Amount,
		transaction.TrackID,
		transaction.OrderID,
		transaction.Plan,
		transaction.Months,
		transaction.Status,
		transaction.CreatedAt,
		transaction.UpdatedAt,
	).Scan(&transaction.ID)
}

func (r *transactionRepository) GetByTrackID(ctx context.Context, trackID string) (*models.Transaction, error) {
	var transaction models.Transaction
	query := `SELECT * FROM ascent.transactions WHERE track_id = $1`
	err := sqlx.GetContext(ctx, r.db, &transaction, query, trackID)
	return &transaction, err
}

func (r *transactionRepository) GetLatestPending(ctx context.Context, subscriberID int64) (*models.Transaction, error) {
	var transaction models.Transaction
	query := `
		SELECT * FROM ascent.transactions
		WHERE subscriber_id = $1 AND status = 'pending'
		ORDER BY created_at DESC
		LIMIT 1`
	err := sqlx.GetContext(ctx, r.db, &transaction, query, subscriberID)
	return &transaction, err
}

// MarkSuccess — атомарный переход pending -> success. Условие по статусу
// в WHERE и есть защита от повторной обработки одного платежа: из двух
// конкурентных вызовов строку обновит ровно один.
func (r *transactionRepository) MarkSuccess(ctx context.Context, trackID string) (bool, error) {
	query := `
		UPDATE ascent.transactions
		SET status = 'success', updated_at = CURRENT_TIMESTAMP
		WHERE track_id = $1 AND status = 'pending'
	`
	result, err := r.db.ExecContext(ctx, query, trackID)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}
