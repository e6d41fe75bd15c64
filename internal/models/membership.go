package models

import "time"

// Membership — членство подписчика в закрытой группе.
// Ровно одна строка на пару (subscriber_id, group_id): при продлении
// строка переиспользуется, а не создаётся заново.
type Membership struct {
	ID               int64     `db:"id" json:"id"`
	SubscriberID     int64     `db:"subscriber_id" json:"subscriber_id"`
	GroupID          int64     `db:"group_id" json:"group_id"`
	JoinedAt         time.Time `db:"joined_at" json:"joined_at"`
	ExpiryAt         time.Time `db:"expiry_at" json:"expiry_at"` // только дата, без времени
	IsActive         bool      `db:"is_active" json:"is_active"`
	NotificationSent bool      `db:"notification_sent" json:"notification_sent"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// CREATE TABLE ascent.memberships (
//     id SERIAL PRIMARY KEY,
//     subscriber_id BIGINT REFERENCES ascent.subscribers(id) ON DELETE CASCADE,
//     group_id BIGINT NOT NULL,
//     joined_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
//     expiry_at DATE NOT NULL,
//     is_active BOOLEAN NOT NULL DEFAULT TRUE,
//     notification_sent BOOLEAN NOT NULL DEFAULT FALSE,
//     updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
//     UNIQUE (subscriber_id, group_id)
// );
