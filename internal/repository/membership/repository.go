package membership

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ascent-club-bot/internal/models"
	"ascent-club-bot/internal/repository"

	"github.com/jmoiron/sqlx"
)

type membershipRepository struct {
	db sqlx.ExtContext
}

func NewMembershipRepository(db sqlx.ExtContext) repository.MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) Get(ctx context.Context, subscriberID, groupID int64) (*models.Membership, error) {
	var membership models.Membership
	query := `SELECT * FROM ascent.memberships WHERE subscriber_id = $1 AND group_id = $2`
	err := sqlx.GetContext(ctx, r.db, &membership, query, subscriberID, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *membershipRepository) Create(ctx context.Context, membership *models.Membership) error {
	query := `
        INSERT INTO ascent.memberships
        (subscriber_id, group_id, joined_at, expiry_at, is_active, notification_sent)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	return r.db.QueryRowxContext(
		ctx,
		query,
		membership.SubscriberID,
		membership.GroupID,
		membership.JoinedAt,
		membership.ExpiryAt,
		membership.IsActive,
		membership.NotificationSent,
	).Scan(&membership.ID)
}

// Extend продлевает членство: новый срок, флаг напоминания снова false,
// членство активно. Строка переиспользуется, а не создаётся заново.
func (r *membershipRepository) Extend(ctx context.Context, subscriberID, groupID int64, expiry time.Time) error {
	query := `
		UPDATE ascent.memberships
		SET expiry_at = $1, notification_sent = FALSE, is_active = TRUE, updated_at = CURRENT_TIMESTAMP
		WHERE subscriber_id = $2 AND group_id = $3
	`
	_, err := r.db.ExecContext(ctx, query, expiry, subscriberID, groupID)
	return err
}

func (r *membershipRepository) Deactivate(ctx context.Context, subscriberID, groupID int64) error {
	query := `
		UPDATE ascent.memberships
		SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP
		WHERE subscriber_id = $1 AND group_id = $2
	`
	_, err := r.db.ExecContext(ctx, query, subscriberID, groupID)
	return err
}

func (r *membershipRepository) MarkNotified(ctx context.Context, subscriberID, groupID int64) error {
	query := `
		UPDATE ascent.memberships
		SET notification_sent = TRUE, updated_at = CURRENT_TIMESTAMP
		WHERE subscriber_id = $1 AND group_id = $2
	`
	_, err := r.db.ExecContext(ctx, query, subscriberID, groupID)
	return err
}

func (r *membershipRepository) FindExpiringOn(ctx context.Context, date time.Time) ([]*models.Membership, error) {
	var memberships []*models.Membership
	query := `
		SELECT * FROM ascent.memberships
		WHERE is_active = TRUE
		  AND notification_sent = FALSE
		  AND expiry_at = $1::date
		ORDER BY subscriber_id
	`
	err := sqlx.SelectContext(ctx, r.db, &memberships, query, models.DateOnly(date))
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *membershipRepository) FindExpiredAsOf(ctx context.Context, date time.Time) ([]*models.Membership, error) {
	var memberships []*models.Membership
	query := `
		SELECT * FROM ascent.memberships
		WHERE is_active = TRUE
		  AND expiry_at <= $1::date
		ORDER BY subscriber_id
	`
	err := sqlx.SelectContext(ctx, r.db, &memberships, query, models.DateOnly(date))
	if err != nil {
		return nil, err
	}
	return memberships, nil
}
