package payment_service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"ascent-club-bot/internal/gateway"
	"ascent-club-bot/internal/models"
	"ascent-club-bot/internal/repository"
	"ascent-club-bot/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	created *models.Transaction
}

func (f *fakeStore) Subscribers() repository.SubscriberRepository   { return nil }
func (f *fakeStore) Transactions() repository.TransactionRepository { return fakeTransactionRepo{f} }
func (f *fakeStore) Memberships() repository.MembershipRepository   { return nil }
func (f *fakeStore) Messages() repository.MessageRepository         { return nil }

func (f *fakeStore) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	return fn(f)
}

type fakeTransactionRepo struct{ *fakeStore }

func (f fakeTransactionRepo) Create(ctx context.Context, transaction *models.Transaction) error {
	f.created = transaction
	return nil
}

func (f fakeTransactionRepo) GetByTrackID(ctx context.Context, trackID string) (*models.Transaction, error) {
	return nil, sql.ErrNoRows
}

func (f fakeTransactionRepo) GetLatestPending(ctx context.Context, subscriberID int64) (*models.Transaction, error) {
	return nil, sql.ErrNoRows
}

func (f fakeTransactionRepo) MarkSuccess(ctx context.Context, trackID string) (bool, error) {
	return false, nil
}

type fakeGateway struct {
	err         error
	gotAmount   int64
	gotOrderID  string
	requestCnt  int
	trackID     string
	payURL      string
	description string
}

func (f *fakeGateway) Request(ctx context.Context, amount int64, orderID, description string) (string, string, error) {
	f.requestCnt++
	f.gotAmount = amount
	f.gotOrderID = orderID
	f.description = description
	if f.err != nil {
		return "", "", f.err
	}
	return f.trackID, f.payURL, nil
}

func (f *fakeGateway) Verify(ctx context.Context, trackID string) (*gateway.VerifyResult, error) {
	return nil, errors.New("не используется в этих тестах")
}

func TestInitiatePurchaseCreatesPendingTransaction(t *testing.T) {
	store := &fakeStore{}
	payments := &fakeGateway{trackID: "555", payURL: "https://gateway.zibal.ir/start/555"}
	svc := NewPaymentService(store, payments, zap.NewNop().Sugar()).(*paymentService)
	svc.now = func() time.Time { return time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC) }

	payURL, err := svc.InitiatePurchase(context.Background(), 7, "quarterly")

	require.NoError(t, err)
	assert.Equal(t, "https://gateway.zibal.ir/start/555", payURL)
	assert.Equal(t, int64(4_000_000), payments.gotAmount)
	assert.NotEmpty(t, payments.gotOrderID)

	transaction := store.created
	require.NotNil(t, transaction)
	assert.Equal(t, int64(7), transaction.SubscriberID)
	assert.Equal(t, models.TransactionStatusPending, transaction.Status)
	assert.Equal(t, "quarterly", transaction.Plan)
	assert.Equal(t, 3, transaction.Months)
	assert.Equal(t, int64(4_000_000), transaction.Amount)
	assert.Equal(t, "555", transaction.TrackID)
	assert.Equal(t, payments.gotOrderID, transaction.OrderID)
}

func TestInitiatePurchaseUnknownPlan(t *testing.T) {
	store := &fakeStore{}
	payments := &fakeGateway{}
	svc := NewPaymentService(store, payments, zap.NewNop().Sugar())

	_, err := svc.InitiatePurchase(context.Background(), 7, "lifetime")

	require.Error(t, err)
	assert.Equal(t, 0, payments.requestCnt)
	assert.Nil(t, store.created)
}

func TestInitiatePurchaseGatewayDown(t *testing.T) {
	store := &fakeStore{}
	payments := &fakeGateway{err: errors.New("timeout")}
	svc := NewPaymentService(store, payments, zap.NewNop().Sugar())

	_, err := svc.InitiatePurchase(context.Background(), 7, "monthly")

	assert.ErrorIs(t, err, service.ErrGateway)
	assert.Nil(t, store.created)
}
