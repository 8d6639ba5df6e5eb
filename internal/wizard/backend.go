package wizard

import (
	"context"

	"bitwill.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// BackendService is the persistence collaborator of a wizard session.
// The session calls Template once at start, CreateWill or UpdateWill
// when the draft is submitted, and GenerateDocument with the persisted
// identifier.
type BackendService interface {
	Template(ctx context.Context) (*entities.Will, error)
	CreateWill(ctx context.Context, will *entities.Will) (*entities.Will, error)
	UpdateWill(ctx context.Context, will *entities.Will) (*entities.Will, error)
	GenerateDocument(ctx context.Context, id uuid.UUID) (*entities.GenerateResult, error)
}
