package models

import "time"

type Subscriber struct {
	ID                 int64      `db:"id" json:"id"`
	TelegramID         int64      `db:"telegram_id" json:"telegram_id"`
	PhoneNumber        string     `db:"phone_number" json:"phone_number"`
	FirstName          string     `db:"first_name" json:"first_name"`
	LastName           string     `db:"last_name" json:"last_name"`
	Username           string     `db:"username" json:"username"`
	RegisteredAt       time.Time  `db:"registered_at" json:"registered_at"`
	SubscriptionPlan   *string    `db:"subscription_plan" json:"subscription_plan,omitempty"`
	SubscriptionExpiry *time.Time `db:"subscription_expiry" json:"subscription_expiry,omitempty"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// HasActiveSubscription true, если срок подписки ещё не истёк
func (s *Subscriber) HasActiveSubscription(now time.Time) bool {
	if s.SubscriptionPlan == nil || s.SubscriptionExpiry == nil {
		return false
	}
	return !DateOnly(*s.SubscriptionExpiry).Before(DateOnly(now))
}

// CREATE TABLE ascent.subscribers (
//     id SERIAL PRIMARY KEY,
//     telegram_id BIGINT UNIQUE NOT NULL,
//     phone_number TEXT DEFAULT '',
//     first_name TEXT DEFAULT '',
//     last_name TEXT DEFAULT '',
//     username TEXT DEFAULT '',
//     registered_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
//     subscription_plan TEXT,
//     subscription_expiry DATE,
//     updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
// );
