package repositories

import (
	"context"

	"bitwill.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// SubscriptionRepository defines subscription data operations
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *entities.Subscription) error
	GetActiveByUserID(ctx context.Context, userID uuid.UUID) (*entities.Subscription, error)
	Update(ctx context.Context, sub *entities.Subscription) error
	// GetExpiredActive returns active subscriptions whose period has lapsed.
	GetExpiredActive(ctx context.Context, limit int) ([]*entities.Subscription, error)
	ExpireSubscriptions(ctx context.Context, ids []uuid.UUID) error
}
