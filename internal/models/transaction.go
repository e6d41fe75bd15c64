package models

import "time"

// Статусы транзакции. Переход только pending -> success, обратно никогда.
const (
	TransactionStatusPending = "pending"
	TransactionStatusSuccess = "success"
)

type Transaction struct {
	ID           int64     `db:"id" json:"id"`
	SubscriberID int64     `db:"subscriber_id" json:"subscriber_id"`
	Amount       int64     `db:"amount" json:"amount"` // в риалах, целое
	TrackID      string    `db:"track_id" json:"track_id"`
	OrderID      string    `db:"order_id" json:"order_id"`
	Plan         string    `db:"plan" json:"plan"`
	Months       int       `db:"months" json:"months"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CREATE TABLE ascent.transactions (
//     id SERIAL PRIMARY KEY,
//     subscriber_id BIGINT REFERENCES ascent.subscribers(id) ON DELETE CASCADE,
//     amount BIGINT NOT NULL,
//     track_id TEXT UNIQUE NOT NULL,
//     order_id TEXT NOT NULL,
//     plan TEXT NOT NULL,
//     months INT NOT NULL,
//     status TEXT NOT NULL DEFAULT 'pending',
//     created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
//     updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
// );
