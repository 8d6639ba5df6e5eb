package repositories

import (
	"context"
	"testing"
	"time"

	"bitwill.backend/internal/domain/entities"
	domainerrors "bitwill.backend/internal/domain/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
)

func TestSubscriptionRepository_CreateAndGetActive(t *testing.T) {
	db := newTestDB(t)
	createSubscriptionTable(t, db)
	repo := NewSubscriptionRepository(db)

	userID := uuid.New()
	now := time.Now()
	sub := &entities.Subscription{
		UserID:             userID,
		Plan:               entities.PlanMonthly,
		Status:             entities.SubscriptionActive,
		CurrentPeriodStart: null.TimeFrom(now),
		CurrentPeriodEnd:   null.TimeFrom(now.AddDate(0, 1, 0)),
	}
	require.NoError(t, repo.Create(context.Background(), sub))
	require.NotEqual(t, uuid.Nil, sub.ID)

	got, err := repo.GetActiveByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, got.ID)
	assert.Equal(t, entities.PlanMonthly, got.Plan)
	assert.True(t, got.CurrentPeriodEnd.Valid)
}

func TestSubscriptionRepository_GetActiveByUserID_NoneActive(t *testing.T) {
	db := newTestDB(t)
	createSubscriptionTable(t, db)
	repo := NewSubscriptionRepository(db)

	userID := uuid.New()
	sub := &entities.Subscription{
		UserID: userID,
		Plan:   entities.PlanMonthly,
		Status: entities.SubscriptionCanceled,
	}
	require.NoError(t, repo.Create(context.Background(), sub))

	_, err := repo.GetActiveByUserID(context.Background(), userID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestSubscriptionRepository_Update(t *testing.T) {
	db := newTestDB(t)
	createSubscriptionTable(t, db)
	repo := NewSubscriptionRepository(db)

	userID := uuid.New()
	sub := &entities.Subscription{
		UserID: userID,
		Plan:   entities.PlanYearly,
		Status: entities.SubscriptionActive,
	}
	require.NoError(t, repo.Create(context.Background(), sub))

	sub.Status = entities.SubscriptionCanceled
	require.NoError(t, repo.Update(context.Background(), sub))

	_, err := repo.GetActiveByUserID(context.Background(), userID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestSubscriptionRepository_Update_NotFound(t *testing.T) {
	db := newTestDB(t)
	createSubscriptionTable(t, db)
	repo := NewSubscriptionRepository(db)

	sub := &entities.Subscription{ID: uuid.New(), Status: entities.SubscriptionCanceled}
	assert.ErrorIs(t, repo.Update(context.Background(), sub), domainerrors.ErrNotFound)
}

func TestSubscriptionRepository_ExpireFlow(t *testing.T) {
	db := newTestDB(t)
	createSubscriptionTable(t, db)
	repo := NewSubscriptionRepository(db)

	now := time.Now()
	expired := &entities.Subscription{
		UserID:             uuid.New(),
		Plan:               entities.PlanMonthly,
		Status:             entities.SubscriptionActive,
		CurrentPeriodStart: null.TimeFrom(now.AddDate(0, -2, 0)),
		CurrentPeriodEnd:   null.TimeFrom(now.AddDate(0, -1, 0)),
	}
	current := &entities.Subscription{
		UserID:             uuid.New(),
		Plan:               entities.PlanMonthly,
		Status:             entities.SubscriptionActive,
		CurrentPeriodStart: null.TimeFrom(now),
		CurrentPeriodEnd:   null.TimeFrom(now.AddDate(0, 1, 0)),
	}
	require.NoError(t, repo.Create(context.Background(), expired))
	require.NoError(t, repo.Create(context.Background(), current))

	stale, err := repo.GetExpiredActive(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, expired.ID, stale[0].ID)

	require.NoError(t, repo.ExpireSubscriptions(context.Background(), []uuid.UUID{expired.ID}))

	stale, err = repo.GetExpiredActive(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, stale)

	_, err = repo.GetActiveByUserID(context.Background(), expired.UserID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	got, err := repo.GetActiveByUserID(context.Background(), current.UserID)
	require.NoError(t, err)
	assert.Equal(t, current.ID, got.ID)
}

func TestSubscriptionRepository_ExpireSubscriptions_EmptyIDs(t *testing.T) {
	db := newTestDB(t)
	createSubscriptionTable(t, db)
	repo := NewSubscriptionRepository(db)

	assert.NoError(t, repo.ExpireSubscriptions(context.Background(), nil))
}
