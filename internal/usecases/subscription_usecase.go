package usecases

import (
	"context"
	"errors"
	"time"

	"bitwill.backend/internal/domain/entities"
	domainerrors "bitwill.backend/internal/domain/errors"
	"bitwill.backend/internal/domain/repositories"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// SubscriptionUsecase handles subscription business logic
type SubscriptionUsecase struct {
	subRepo repositories.SubscriptionRepository
}

// NewSubscriptionUsecase creates a new subscription usecase
func NewSubscriptionUsecase(subRepo repositories.SubscriptionRepository) *SubscriptionUsecase {
	return &SubscriptionUsecase{subRepo: subRepo}
}

// Plans returns the plan catalog
func (u *SubscriptionUsecase) Plans() []entities.PlanInfo {
	return entities.AvailablePlans()
}

// Status reports whether the user currently holds an active
// subscription
func (u *SubscriptionUsecase) Status(ctx context.Context, userID uuid.UUID) (*entities.SubscriptionStatusInfo, error) {
	sub, err := u.subRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return &entities.SubscriptionStatusInfo{Active: false, Status: "none"}, nil
		}
		return nil, err
	}

	if !sub.IsActive(time.Now()) {
		return &entities.SubscriptionStatusInfo{Active: false, Status: string(entities.SubscriptionExpired)}, nil
	}

	return &entities.SubscriptionStatusInfo{
		Active:          true,
		Plan:            string(sub.Plan),
		Status:          string(sub.Status),
		NextBillingDate: sub.CurrentPeriodEnd,
	}, nil
}

// Checkout activates a plan for the user
func (u *SubscriptionUsecase) Checkout(ctx context.Context, userID uuid.UUID, input *entities.CheckoutInput) (*entities.Subscription, error) {
	if input.Plan != entities.PlanMonthly && input.Plan != entities.PlanYearly {
		return nil, domainerrors.ErrInvalidInput
	}

	existing, err := u.subRepo.GetActiveByUserID(ctx, userID)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.IsActive(time.Now()) {
		return nil, domainerrors.NewError("subscription already active", domainerrors.ErrAlreadyExists)
	}

	start, end := entities.PeriodFor(input.Plan, time.Now())
	sub := &entities.Subscription{
		UserID:             userID,
		Plan:               input.Plan,
		Status:             entities.SubscriptionActive,
		CurrentPeriodStart: null.TimeFrom(start),
		CurrentPeriodEnd:   null.TimeFrom(end),
	}
	if err := u.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Cancel cancels the user's active subscription
func (u *SubscriptionUsecase) Cancel(ctx context.Context, userID uuid.UUID) error {
	sub, err := u.subRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		return err
	}

	sub.Status = entities.SubscriptionCanceled
	return u.subRepo.Update(ctx, sub)
}
