package store

import (
	"context"
	"fmt"

	"ascent-club-bot/internal/repository"
	"ascent-club-bot/internal/repository/membership"
	"ascent-club-bot/internal/repository/message"
	"ascent-club-bot/internal/repository/subscriber"
	"ascent-club-bot/internal/repository/transaction"

	"github.com/jmoiron/sqlx"
)

// store строит репозитории поверх общего sqlx.ExtContext: снаружи это
// *sqlx.DB, внутри WithinTx — *sqlx.Tx. Репозитории одни и те же.
type store struct {
	db  *sqlx.DB
	ext sqlx.ExtContext

	subscribers  repository.SubscriberRepository
	transactions repository.TransactionRepository
	memberships  repository.MembershipRepository
	messages     repository.MessageRepository
}

func NewStore(db *sqlx.DB) repository.Store {
	return newStore(db, db)
}

func newStore(db *sqlx.DB, ext sqlx.ExtContext) *store {
	return &store{
		db:           db,
		ext:          ext,
		subscribers:  subscriber.NewSubscriberRepository(ext),
		transactions: transaction.NewTransactionRepository(ext),
		memberships:  membership.NewMembershipRepository(ext),
		messages:     message.NewMessageRepository(ext),
	}
}

func (s *store) Subscribers() repository.SubscriberRepository   { return s.subscribers }
func (s *store) Transactions() repository.TransactionRepository { return s.transactions }
func (s *store) Memberships() repository.MembershipRepository   { return s.memberships }
func (s *store) Messages() repository.MessageRepository         { return s.messages }

func (s *store) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(newStore(s.db, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
