package payment_service

import (
	"context"
	"fmt"
	"time"

	"ascent-club-bot/internal/gateway"
	"ascent-club-bot/internal/models"
	"ascent-club-bot/internal/repository"
	"ascent-club-bot/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type paymentService struct {
	store    repository.Store
	payments gateway.PaymentGateway
	log      *zap.SugaredLogger
	now      func() time.Time
}

func NewPaymentService(store repository.Store, payments gateway.PaymentGateway, log *zap.SugaredLogger) service.PaymentService {
	return &paymentService{
		store:    store,
		payments: payments,
		log:      log,
		now:      time.Now,
	}
}

func (s *paymentService) InitiatePurchase(ctx context.Context, subscriberID int64, planCode string) (string, error) {
	plan, err := models.PlanByCode(planCode)
	if err != nil {
		return "", err
	}

	orderID := uuid.NewString()
	description := fmt.Sprintf("Клуб Ascent — подписка «%s»", plan.Title)

	trackID, payURL, err := s.payments.Request(ctx, plan.Amount, orderID, description)
	if err != nil {
		return "", fmt.Errorf("%w: %v", service.ErrGateway, err)
	}

	transaction := &models.Transaction{
		SubscriberID: subscriberID,
		Amount:       plan.Amount,
		TrackID:      trackID,
		OrderID:      orderID,
		Plan:         plan.Code,
		Months:       plan.Months,
		Status:       models.TransactionStatusPending,
		CreatedAt:    s.now(),
		UpdatedAt:    s.now(),
	}
	if err := s.store.Transactions().Create(ctx, transaction); err != nil {
		return "", fmt.Errorf("сохранение транзакции: %w", err)
	}

	s.log.Infof("🧾 Покупка начата: подписчик=%d тариф=%s trackId=%s", subscriberID, plan.Code, trackID)
	return payURL, nil
}
