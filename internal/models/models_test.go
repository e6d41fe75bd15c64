package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanByCode(t *testing.T) {
	plan, err := PlanByCode("quarterly")
	require.NoError(t, err)
	assert.Equal(t, 3, plan.Months)
	assert.Equal(t, int64(4_000_000), plan.Amount)

	_, err = PlanByCode("lifetime")
	assert.Error(t, err)
}

func TestPlanByTitle(t *testing.T) {
	plan, err := PlanByTitle("12 месяцев")
	require.NoError(t, err)
	assert.Equal(t, "yearly", plan.Code)

	_, err = PlanByTitle("вечный доступ")
	assert.Error(t, err)
}

func TestHasActiveSubscription(t *testing.T) {
	now := time.Date(2026, time.August, 28, 23, 50, 0, 0, time.UTC)
	plan := "monthly"

	t.Run("без подписки", func(t *testing.T) {
		s := &Subscriber{}
		assert.False(t, s.HasActiveSubscription(now))
	})

	t.Run("истекает сегодня — ещё активна", func(t *testing.T) {
		expiry := time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC)
		s := &Subscriber{SubscriptionPlan: &plan, SubscriptionExpiry: &expiry}
		assert.True(t, s.HasActiveSubscription(now))
	})

	t.Run("истекла вчера", func(t *testing.T) {
		expiry := time.Date(2026, time.August, 27, 0, 0, 0, 0, time.UTC)
		s := &Subscriber{SubscriptionPlan: &plan, SubscriptionExpiry: &expiry}
		assert.False(t, s.HasActiveSubscription(now))
	})
}

func TestDateOnly(t *testing.T) {
	got := DateOnly(time.Date(2026, time.August, 28, 23, 59, 59, 123, time.UTC))
	assert.Equal(t, time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC), got)
}
