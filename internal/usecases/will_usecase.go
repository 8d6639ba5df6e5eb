package usecases

import (
	"context"
	"errors"
	"time"

	"bitwill.backend/internal/domain/entities"
	domainerrors "bitwill.backend/internal/domain/errors"
	"bitwill.backend/internal/domain/repositories"
	"bitwill.backend/pkg/token"
	"github.com/google/uuid"
)

// DocumentGenerator renders a will into a document on disk
type DocumentGenerator interface {
	Generate(will *entities.Will) (string, error)
}

// WillUsecase handles will business logic
type WillUsecase struct {
	willRepo  repositories.WillRepository
	subRepo   repositories.SubscriptionRepository
	generator DocumentGenerator
	signer    *token.DownloadSigner
}

// NewWillUsecase creates a new will usecase
func NewWillUsecase(
	willRepo repositories.WillRepository,
	subRepo repositories.SubscriptionRepository,
	generator DocumentGenerator,
	signer *token.DownloadSigner,
) *WillUsecase {
	return &WillUsecase{
		willRepo:  willRepo,
		subRepo:   subRepo,
		generator: generator,
		signer:    signer,
	}
}

// Template returns the empty will skeleton served to new drafts
func (u *WillUsecase) Template() *entities.Will {
	return entities.TemplateWill()
}

// Create persists a new will for the user. Requires an active
// subscription.
func (u *WillUsecase) Create(ctx context.Context, userID uuid.UUID, input *entities.WillInput) (*entities.Will, error) {
	if err := u.requireActiveSubscription(ctx, userID); err != nil {
		return nil, err
	}

	will := &entities.Will{
		UserID:        userID,
		Title:         input.Title,
		PersonalInfo:  input.PersonalInfo,
		BitcoinAssets: input.BitcoinAssets,
		Beneficiaries: input.Beneficiaries,
		Instructions:  input.Instructions,
	}
	if will.Title == "" {
		will.Title = entities.DefaultWillTitle
	}

	if err := u.willRepo.Create(ctx, will); err != nil {
		return nil, err
	}
	return will, nil
}

// List lists the user's wills
func (u *WillUsecase) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.WillSummary, int64, error) {
	return u.willRepo.ListByUserID(ctx, userID, limit, offset)
}

// Get returns the user's will by ID
func (u *WillUsecase) Get(ctx context.Context, userID, id uuid.UUID) (*entities.Will, error) {
	return u.willRepo.GetByIDForUser(ctx, id, userID)
}

// Update replaces the content of the user's will
func (u *WillUsecase) Update(ctx context.Context, userID, id uuid.UUID, input *entities.WillInput) (*entities.Will, error) {
	will, err := u.willRepo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	will.Title = input.Title
	if will.Title == "" {
		will.Title = entities.DefaultWillTitle
	}
	will.PersonalInfo = input.PersonalInfo
	will.BitcoinAssets = input.BitcoinAssets
	will.Beneficiaries = input.Beneficiaries
	will.Instructions = input.Instructions

	if err := u.willRepo.Update(ctx, will); err != nil {
		return nil, err
	}
	return will, nil
}

// Generate renders the will into a document, records its path, and
// issues a download token. Requires an active subscription.
func (u *WillUsecase) Generate(ctx context.Context, userID, id uuid.UUID) (*entities.GenerateResult, error) {
	if err := u.requireActiveSubscription(ctx, userID); err != nil {
		return nil, err
	}

	will, err := u.willRepo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	path, err := u.generator.Generate(will)
	if err != nil {
		return nil, domainerrors.NewError("document generation failed", domainerrors.ErrGenerationFailed)
	}

	if err := u.willRepo.SetDocumentPath(ctx, will.ID, path); err != nil {
		return nil, err
	}

	downloadToken, err := u.signer.Sign(will.ID)
	if err != nil {
		return nil, err
	}

	return &entities.GenerateResult{
		WillID:        will.ID,
		DocumentPath:  path,
		DownloadToken: downloadToken,
	}, nil
}

// DocumentPath returns the path of the user's generated document
func (u *WillUsecase) DocumentPath(ctx context.Context, userID, id uuid.UUID) (string, error) {
	will, err := u.willRepo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return "", err
	}
	if !will.DocumentPath.Valid {
		return "", domainerrors.ErrNotFound
	}
	return will.DocumentPath.String, nil
}

// DocumentPathByToken resolves a signed download token to the document
// path it grants access to
func (u *WillUsecase) DocumentPathByToken(ctx context.Context, downloadToken string) (string, error) {
	willID, err := u.signer.Verify(downloadToken)
	if err != nil {
		return "", domainerrors.ErrUnauthorized
	}

	will, err := u.willRepo.GetByID(ctx, willID)
	if err != nil {
		return "", err
	}
	if !will.DocumentPath.Valid {
		return "", domainerrors.ErrNotFound
	}
	return will.DocumentPath.String, nil
}

// Delete soft deletes the user's will
func (u *WillUsecase) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := u.willRepo.GetByIDForUser(ctx, id, userID); err != nil {
		return err
	}
	return u.willRepo.SoftDelete(ctx, id)
}

func (u *WillUsecase) requireActiveSubscription(ctx context.Context, userID uuid.UUID) error {
	sub, err := u.subRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.ErrSubscriptionRequired
		}
		return err
	}
	if !sub.IsActive(time.Now()) {
		return domainerrors.ErrSubscriptionRequired
	}
	return nil
}
