package reconciliation_service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"ascent-club-bot/internal/models"
	"ascent-club-bot/internal/repository"
	"ascent-club-bot/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testGroupID int64 = -1001234567890

// Сегодняшняя дата всех тестов прогона
var today = time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

type fakeStore struct {
	subscribers map[int64]*models.Subscriber
	memberships []*models.Membership
}

func newFakeStore() *fakeStore {
	return &fakeStore{subscribers: map[int64]*models.Subscriber{}}
}

func (f *fakeStore) Subscribers() repository.SubscriberRepository   { return fakeSubscriberRepo{f} }
func (f *fakeStore) Transactions() repository.TransactionRepository { return fakeTransactionRepo{} }
func (f *fakeStore) Memberships() repository.MembershipRepository   { return fakeMembershipRepo{f} }
func (f *fakeStore) Messages() repository.MessageRepository         { return fakeMessageRepo{} }

func (f *fakeStore) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	return fn(f)
}

type fakeSubscriberRepo struct{ *fakeStore }

func (f fakeSubscriberRepo) CreateOrUpdate(ctx context.Context, subscriber *models.Subscriber) error {
	f.subscribers[subscriber.ID] = subscriber
	return nil
}

func (f fakeSubscriberRepo) GetByTelegramID(ctx context.Context, telegramID int64) (*models.Subscriber, error) {
	for _, subscriber := range f.subscribers {
		if subscriber.TelegramID == telegramID {
			return subscriber, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f fakeSubscriberRepo) GetByID(ctx context.Context, id int64) (*models.Subscriber, error) {
	subscriber, ok := f.subscribers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return subscriber, nil
}

func (f fakeSubscriberRepo) SetPhoneNumber(ctx context.Context, telegramID int64, phone string) error {
	return nil
}

func (f fakeSubscriberRepo) SetSubscription(ctx context.Context, id int64, plan string, expiry time.Time) error {
	return nil
}

func (f fakeSubscriberRepo) GetAll(ctx context.Context) ([]*models.Subscriber, error) {
	return nil, nil
}

type fakeTransactionRepo struct{}

func (fakeTransactionRepo) Create(ctx context.Context, transaction *models.Transaction) error {
	return nil
}

func (fakeTransactionRepo) GetByTrackID(ctx context.Context, trackID string) (*models.Transaction, error) {
	return nil, sql.ErrNoRows
}

func (fakeTransactionRepo) GetLatestPending(ctx context.Context, subscriberID int64) (*models.Transaction, error) {
	return nil, sql.ErrNoRows
}

func (fakeTransactionRepo) MarkSuccess(ctx context.Context, trackID string) (bool, error) {
	return false, nil
}

type fakeMembershipRepo struct{ *fakeStore }

func (f fakeMembershipRepo) Get(ctx context.Context, subscriberID, groupID int64) (*models.Membership, error) {
	return nil, nil
}

func (f fakeMembershipRepo) Create(ctx context.Context, membership *models.Membership) error {
	f.memberships = append(f.memberships, membership)
	return nil
}

func (f fakeMembershipRepo) Extend(ctx context.Context, subscriberID, groupID int64, expiry time.Time) error {
	return nil
}

func (f fakeMembershipRepo) Deactivate(ctx context.Context, subscriberID, groupID int64) error {
	for _, membership := range f.memberships {
		if membership.SubscriberID == subscriberID && membership.GroupID == groupID {
			membership.IsActive = false
		}
	}
	return nil
}

func (f fakeMembershipRepo) MarkNotified(ctx context.Context, subscriberID, groupID int64) error {
	for _, membership := range f.memberships {
		if membership.SubscriberID == subscriberID && membership.GroupID == groupID {
			membership.NotificationSent = true
		}
	}
	return nil
}

func (f fakeMembershipRepo) FindExpiringOn(ctx context.Context, date time.Time) ([]*models.Membership, error) {
	var result []*models.Membership
	for _, membership := range f.memberships {
		if membership.IsActive && !membership.NotificationSent && models.DateOnly(membership.ExpiryAt).Equal(date) {
			result = append(result, membership)
		}
	}
	return result, nil
}

func (f fakeMembershipRepo) FindExpiredAsOf(ctx context.Context, date time.Time) ([]*models.Membership, error) {
	var result []*models.Membership
	for _, membership := range f.memberships {
		if membership.IsActive && !models.DateOnly(membership.ExpiryAt).After(date) {
			result = append(result, membership)
		}
	}
	return result, nil
}

type fakeMessageRepo struct{}

func (fakeMessageRepo) Create(ctx context.Context, message *models.Message) error { return nil }
func (fakeMessageRepo) MarkRead(ctx context.Context, id int64) error              { return nil }

type fakeMessenger struct {
	err  error
	sent []int64
}

func (f *fakeMessenger) SendMessage(ctx context.Context, telegramID int64, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, telegramID)
	return nil
}

type fakeGroups struct {
	removeErr   error
	removed     []int64
	removeCalls int
}

func (f *fakeGroups) AddMember(ctx context.Context, groupID, telegramID int64) error { return nil }

func (f *fakeGroups) RemoveMember(ctx context.Context, groupID, telegramID int64) error {
	f.removeCalls++
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, telegramID)
	return nil
}

func (f *fakeGroups) CreateInviteLink(ctx context.Context, groupID int64) (string, error) {
	return "", nil
}

type fixture struct {
	store     *fakeStore
	messenger *fakeMessenger
	groups    *fakeGroups
	svc       *reconciliationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:     newFakeStore(),
		messenger: &fakeMessenger{},
		groups:    &fakeGroups{},
	}
	f.svc = NewReconciliationService(f.store, f.messenger, f.groups, zap.NewNop().Sugar()).(*reconciliationService)
	f.svc.now = func() time.Time { return today }
	return f
}

func (f *fixture) addMember(subscriberID, telegramID int64, expiry time.Time, notified bool) *models.Membership {
	f.store.subscribers[subscriberID] = &models.Subscriber{ID: subscriberID, TelegramID: telegramID}
	membership := &models.Membership{
		SubscriberID:     subscriberID,
		GroupID:          testGroupID,
		ExpiryAt:         expiry,
		IsActive:         true,
		NotificationSent: notified,
	}
	f.store.memberships = append(f.store.memberships, membership)
	return membership
}

func TestSweepNotifiesUpcomingExpiry(t *testing.T) {
	f := newFixture(t)
	membership := f.addMember(1, 777, today.AddDate(0, 0, 3), false)

	report, err := f.svc.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Notified)
	assert.Equal(t, 0, report.Revoked)
	assert.Equal(t, 0, report.Failed)
	assert.True(t, membership.NotificationSent)
	assert.Equal(t, []int64{777}, f.messenger.sent)

	// Повторный прогон в тот же день напоминание не дублирует
	report, err = f.svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Notified)
	assert.Len(t, f.messenger.sent, 1)
}

func TestSweepSkipsWrongNoticeDates(t *testing.T) {
	f := newFixture(t)
	f.addMember(1, 701, today.AddDate(0, 0, 2), false)
	f.addMember(2, 702, today.AddDate(0, 0, 4), false)

	report, err := f.svc.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, report.Notified)
	assert.Empty(t, f.messenger.sent)
}

func TestSweepRevokesExpired(t *testing.T) {
	f := newFixture(t)
	expiredToday := f.addMember(1, 701, today, true)
	expiredEarlier := f.addMember(2, 702, date(2026, time.August, 20), true)

	report, err := f.svc.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, report.Revoked)
	assert.Equal(t, 0, report.Failed)
	assert.False(t, expiredToday.IsActive)
	assert.False(t, expiredEarlier.IsActive)
	assert.ElementsMatch(t, []int64{701, 702}, f.groups.removed)
	assert.Len(t, f.messenger.sent, 2)

	// Повторный прогон: деактивированные членства больше не кандидаты
	report, err = f.svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Revoked)
	assert.Equal(t, 2, f.groups.removeCalls)
}

func TestSweepRemoveFailureLeavesMembershipActive(t *testing.T) {
	f := newFixture(t)
	membership := f.addMember(1, 777, today, true)
	f.groups.removeErr = errors.New("api: too many requests")

	report, err := f.svc.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, report.Revoked)
	assert.Equal(t, 1, report.Failed)
	// Без фактического исключения членство живо, и «вы исключены» не шлём
	assert.True(t, membership.IsActive)
	assert.Empty(t, f.messenger.sent)

	// Следующий прогон добирает кандидата
	f.groups.removeErr = nil
	report, err = f.svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Revoked)
	assert.False(t, membership.IsActive)
}

func TestSweepReminderDeliveryFailureRetries(t *testing.T) {
	f := newFixture(t)
	membership := f.addMember(1, 777, today.AddDate(0, 0, 3), false)
	f.messenger.err = errors.New("bot was blocked by the user")

	report, err := f.svc.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, report.Notified)
	assert.Equal(t, 1, report.Failed)
	// Флаг не выставлен — напоминание уйдёт в следующий прогон
	assert.False(t, membership.NotificationSent)

	f.messenger.err = nil
	report, err = f.svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Notified)
	assert.True(t, membership.NotificationSent)
}

func TestSweepFailureOnOneCandidateContinues(t *testing.T) {
	f := newFixture(t)
	orphan := f.addMember(1, 701, today, true)
	delete(f.store.subscribers, 1) // подписчик потерян, членство осталось
	healthy := f.addMember(2, 702, today, true)

	report, err := f.svc.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Revoked)
	assert.True(t, orphan.IsActive)
	assert.False(t, healthy.IsActive)
}

func TestSweepRejectsParallelRun(t *testing.T) {
	f := newFixture(t)
	f.svc.mu.Lock()
	defer f.svc.mu.Unlock()

	report, err := f.svc.Sweep(context.Background())

	assert.ErrorIs(t, err, service.ErrSweepRunning)
	assert.Nil(t, report)
}

func TestSweepStopsBetweenCandidatesOnCancel(t *testing.T) {
	f := newFixture(t)
	f.addMember(1, 701, today.AddDate(0, 0, 3), false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Sweep(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.messenger.sent)
}
