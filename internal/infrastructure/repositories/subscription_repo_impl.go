package repositories

import (
	"context"
	"errors"
	"time"

	"bitwill.backend/internal/domain/entities"
	domainerrors "bitwill.backend/internal/domain/errors"
	"bitwill.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// SubscriptionRepository implements subscription data operations
type SubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Create creates a new subscription
func (r *SubscriptionRepository) Create(ctx context.Context, sub *entities.Subscription) error {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	now := time.Now()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(r.toModel(sub)).Error; err != nil {
		return err
	}
	return nil
}

// GetActiveByUserID returns the user's active subscription, if any
func (r *SubscriptionRepository) GetActiveByUserID(ctx context.Context, userID uuid.UUID) (*entities.Subscription, error) {
	var m models.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, string(entities.SubscriptionActive)).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Update updates a subscription's status and period
func (r *SubscriptionRepository) Update(ctx context.Context, sub *entities.Subscription) error {
	updates := map[string]interface{}{
		"status":     string(sub.Status),
		"updated_at": time.Now(),
	}
	if sub.CurrentPeriodStart.Valid {
		updates["current_period_start"] = sub.CurrentPeriodStart.Time
	}
	if sub.CurrentPeriodEnd.Valid {
		updates["current_period_end"] = sub.CurrentPeriodEnd.Time
	}

	result := r.db.WithContext(ctx).Model(&models.Subscription{}).Where("id = ?", sub.ID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// GetExpiredActive returns active subscriptions whose period end has passed
func (r *SubscriptionRepository) GetExpiredActive(ctx context.Context, limit int) ([]*entities.Subscription, error) {
	var subModels []models.Subscription
	query := r.db.WithContext(ctx).
		Where("status = ? AND current_period_end IS NOT NULL AND current_period_end < ?",
			string(entities.SubscriptionActive), time.Now()).
		Order("current_period_end ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&subModels).Error; err != nil {
		return nil, err
	}

	subs := make([]*entities.Subscription, 0, len(subModels))
	for i := range subModels {
		subs = append(subs, r.toEntity(&subModels[i]))
	}
	return subs, nil
}

// ExpireSubscriptions marks the given subscriptions as expired
func (r *SubscriptionRepository) ExpireSubscriptions(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":     string(entities.SubscriptionExpired),
			"updated_at": time.Now(),
		}).Error
}

func (r *SubscriptionRepository) toModel(sub *entities.Subscription) *models.Subscription {
	m := &models.Subscription{
		ID:        sub.ID,
		UserID:    sub.UserID,
		Plan:      string(sub.Plan),
		Status:    string(sub.Status),
		CreatedAt: sub.CreatedAt,
		UpdatedAt: sub.UpdatedAt,
	}
	if sub.CurrentPeriodStart.Valid {
		t := sub.CurrentPeriodStart.Time
		m.CurrentPeriodStart = &t
	}
	if sub.CurrentPeriodEnd.Valid {
		t := sub.CurrentPeriodEnd.Time
		m.CurrentPeriodEnd = &t
	}
	return m
}

func (r *SubscriptionRepository) toEntity(m *models.Subscription) *entities.Subscription {
	sub := &entities.Subscription{
		ID:        m.ID,
		UserID:    m.UserID,
		Plan:      entities.SubscriptionPlan(m.Plan),
		Status:    entities.SubscriptionStatus(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.CurrentPeriodStart != nil {
		sub.CurrentPeriodStart = null.TimeFrom(*m.CurrentPeriodStart)
	}
	if m.CurrentPeriodEnd != nil {
		sub.CurrentPeriodEnd = null.TimeFrom(*m.CurrentPeriodEnd)
	}
	return sub
}
