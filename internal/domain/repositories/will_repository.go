package repositories

import (
	"context"

	"bitwill.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// WillRepository defines will data operations
type WillRepository interface {
	Create(ctx context.Context, will *entities.Will) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Will, error)
	// GetByIDForUser returns the will only when it belongs to the user.
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*entities.Will, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.WillSummary, int64, error)
	Update(ctx context.Context, will *entities.Will) error
	SetDocumentPath(ctx context.Context, id uuid.UUID, path string) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
