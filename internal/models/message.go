package models

import "time"

// Message — сообщение подписчика администраторам
type Message struct {
	ID           int64     `db:"id" json:"id"`
	SubscriberID int64     `db:"subscriber_id" json:"subscriber_id"`
	Text         string    `db:"text" json:"text"`
	SentAt       time.Time `db:"sent_at" json:"sent_at"`
	IsRead       bool      `db:"is_read" json:"is_read"`
}

// CREATE TABLE ascent.messages (
//     id SERIAL PRIMARY KEY,
//     subscriber_id BIGINT REFERENCES ascent.subscribers(id) ON DELETE CASCADE,
//     text TEXT NOT NULL,
//     sent_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
//     is_read BOOLEAN NOT NULL DEFAULT FALSE
// );
