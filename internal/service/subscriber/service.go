package subscriber_service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ascent-club-bot/internal/models"
	"ascent-club-bot/internal/repository"
	"ascent-club-bot/internal/service"
)

type subscriberService struct {
	store   repository.Store
	groupID int64
	now     func() time.Time
}

func NewSubscriberService(store repository.Store, groupID int64) service.SubscriberService {
	return &subscriberService{
		store:   store,
		groupID: groupID,
		now:     time.Now,
	}
}

func (s *subscriberService) RegisterOrUpdate(ctx context.Context, telegramID int64, firstName, lastName, username string) (*models.Subscriber, error) {
	subscriber := &models.Subscriber{
		TelegramID:   telegramID,
		FirstName:    firstName,
		LastName:     lastName,
		Username:     username,
		RegisteredAt: s.now(),
	}

	if err := s.store.Subscribers().CreateOrUpdate(ctx, subscriber); err != nil {
		return nil, fmt.Errorf("регистрация подписчика: %w", err)
	}

	// Upsert возвращает только id — перечитываем полную строку, чтобы не
	// потерять телефон и подписку уже известного подписчика
	return s.GetByTelegramID(ctx, telegramID)
}

func (s *subscriberService) SavePhoneNumber(ctx context.Context, telegramID int64, phone string) error {
	return s.store.Subscribers().SetPhoneNumber(ctx, telegramID, phone)
}

func (s *subscriberService) GetByTelegramID(ctx context.Context, telegramID int64) (*models.Subscriber, error) {
	subscriber, err := s.store.Subscribers().GetByTelegramID(ctx, telegramID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return subscriber, nil
}

func (s *subscriberService) GetAll(ctx context.Context) ([]*models.Subscriber, error) {
	return s.store.Subscribers().GetAll(ctx)
}

func (s *subscriberService) LatestPendingTransaction(ctx context.Context, subscriberID int64) (*models.Transaction, error) {
	transaction, err := s.store.Transactions().GetLatestPending(ctx, subscriberID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

func (s *subscriberService) GetMembership(ctx context.Context, subscriberID int64) (*models.Membership, error) {
	return s.store.Memberships().Get(ctx, subscriberID, s.groupID)
}

func (s *subscriberService) SaveSupportMessage(ctx context.Context, subscriberID int64, text string) (*models.Message, error) {
	message := &models.Message{
		SubscriberID: subscriberID,
		Text:         text,
		SentAt:       s.now(),
	}
	if err := s.store.Messages().Create(ctx, message); err != nil {
		return nil, fmt.Errorf("сохранение сообщения: %w", err)
	}
	return message, nil
}
