package usecases_test

import (
	"context"
	"testing"
	"time"

	"bitwill.backend/internal/domain/entities"
	domainerrors "bitwill.backend/internal/domain/errors"
	"bitwill.backend/internal/usecases"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
)

func TestSubscriptionUsecase_Plans(t *testing.T) {
	uc := usecases.NewSubscriptionUsecase(new(MockSubscriptionRepository))

	plans := uc.Plans()
	require.Len(t, plans, 2)
	assert.Equal(t, entities.PlanMonthly, plans[0].ID)
	assert.Equal(t, 29.99, plans[0].Price)
	assert.Equal(t, entities.PlanYearly, plans[1].ID)
	assert.Equal(t, 299.99, plans[1].Price)
}

func TestSubscriptionUsecase_Status_None(t *testing.T) {
	subRepo := new(MockSubscriptionRepository)
	uc := usecases.NewSubscriptionUsecase(subRepo)

	userID := uuid.New()
	subRepo.On("GetActiveByUserID", context.Background(), userID).Return(nil, domainerrors.ErrNotFound).Once()

	status, err := uc.Status(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, status.Active)
	assert.Equal(t, "none", status.Status)
	assert.Empty(t, status.Plan)
}

func TestSubscriptionUsecase_Status_Active(t *testing.T) {
	subRepo := new(MockSubscriptionRepository)
	uc := usecases.NewSubscriptionUsecase(subRepo)

	userID := uuid.New()
	end := time.Now().AddDate(0, 1, 0)
	subRepo.On("GetActiveByUserID", context.Background(), userID).Return(&entities.Subscription{
		UserID:           userID,
		Plan:             entities.PlanMonthly,
		Status:           entities.SubscriptionActive,
		CurrentPeriodEnd: null.TimeFrom(end),
	}, nil).Once()

	status, err := uc.Status(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, status.Active)
	assert.Equal(t, "monthly", status.Plan)
	assert.Equal(t, "active", status.Status)
	assert.True(t, status.NextBillingDate.Valid)
}

func TestSubscriptionUsecase_Status_Lapsed(t *testing.T) {
	subRepo := new(MockSubscriptionRepository)
	uc := usecases.NewSubscriptionUsecase(subRepo)

	userID := uuid.New()
	subRepo.On("GetActiveByUserID", context.Background(), userID).Return(&entities.Subscription{
		UserID:           userID,
		Plan:             entities.PlanMonthly,
		Status:           entities.SubscriptionActive,
		CurrentPeriodEnd: null.TimeFrom(time.Now().AddDate(0, -1, 0)),
	}, nil).Once()

	status, err := uc.Status(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, status.Active)
	assert.Equal(t, "expired", status.Status)
}

func TestSubscriptionUsecase_Checkout_Success(t *testing.T) {
	subRepo := new(MockSubscriptionRepository)
	uc := usecases.NewSubscriptionUsecase(subRepo)

	userID := uuid.New()
	subRepo.On("GetActiveByUserID", context.Background(), userID).Return(nil, domainerrors.ErrNotFound).Once()
	subRepo.On("Create", context.Background(), mock.AnythingOfType("*entities.Subscription")).Return(nil).Once()

	sub, err := uc.Checkout(context.Background(), userID, &entities.CheckoutInput{Plan: entities.PlanYearly})
	require.NoError(t, err)
	assert.Equal(t, entities.PlanYearly, sub.Plan)
	assert.Equal(t, entities.SubscriptionActive, sub.Status)
	require.True(t, sub.CurrentPeriodEnd.Valid)
	assert.WithinDuration(t, time.Now().AddDate(1, 0, 0), sub.CurrentPeriodEnd.Time, time.Minute)
}

func TestSubscriptionUsecase_Checkout_InvalidPlan(t *testing.T) {
	uc := usecases.NewSubscriptionUsecase(new(MockSubscriptionRepository))

	_, err := uc.Checkout(context.Background(), uuid.New(), &entities.CheckoutInput{Plan: "lifetime"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestSubscriptionUsecase_Checkout_AlreadyActive(t *testing.T) {
	subRepo := new(MockSubscriptionRepository)
	uc := usecases.NewSubscriptionUsecase(subRepo)

	userID := uuid.New()
	subRepo.On("GetActiveByUserID", context.Background(), userID).Return(&entities.Subscription{
		UserID:           userID,
		Status:           entities.SubscriptionActive,
		CurrentPeriodEnd: null.TimeFrom(time.Now().AddDate(0, 1, 0)),
	}, nil).Once()

	_, err := uc.Checkout(context.Background(), userID, &entities.CheckoutInput{Plan: entities.PlanMonthly})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
	subRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubscriptionUsecase_Cancel(t *testing.T) {
	subRepo := new(MockSubscriptionRepository)
	uc := usecases.NewSubscriptionUsecase(subRepo)

	userID := uuid.New()
	sub := &entities.Subscription{ID: uuid.New(), UserID: userID, Status: entities.SubscriptionActive}
	subRepo.On("GetActiveByUserID", context.Background(), userID).Return(sub, nil).Once()
	subRepo.On("Update", context.Background(), mock.AnythingOfType("*entities.Subscription")).Return(nil).Run(func(args mock.Arguments) {
		updated := args.Get(1).(*entities.Subscription)
		assert.Equal(t, entities.SubscriptionCanceled, updated.Status)
	}).Once()

	require.NoError(t, uc.Cancel(context.Background(), userID))
	subRepo.AssertExpectations(t)
}

func TestSubscriptionUsecase_Cancel_NoActive(t *testing.T) {
	subRepo := new(MockSubscriptionRepository)
	uc := usecases.NewSubscriptionUsecase(subRepo)

	userID := uuid.New()
	subRepo.On("GetActiveByUserID", context.Background(), userID).Return(nil, domainerrors.ErrNotFound).Once()

	assert.ErrorIs(t, uc.Cancel(context.Background(), userID), domainerrors.ErrNotFound)
}
