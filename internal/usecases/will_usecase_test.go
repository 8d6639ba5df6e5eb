package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"bitwill.backend/internal/domain/entities"
	domainerrors "bitwill.backend/internal/domain/errors"
	"bitwill.backend/internal/usecases"
	"bitwill.backend/pkg/token"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
)

func newWillUsecaseForTest(willRepo *MockWillRepository, subRepo *MockSubscriptionRepository, gen *MockDocumentGenerator) *usecases.WillUsecase {
	signer := token.NewDownloadSigner("test-signing-key", 15*time.Minute)
	return usecases.NewWillUsecase(willRepo, subRepo, gen, signer)
}

func activeSubscription(userID uuid.UUID) *entities.Subscription {
	return &entities.Subscription{
		ID:               uuid.New(),
		UserID:           userID,
		Plan:             entities.PlanMonthly,
		Status:           entities.SubscriptionActive,
		CurrentPeriodEnd: null.TimeFrom(time.Now().AddDate(0, 1, 0)),
	}
}

func TestWillUsecase_Template(t *testing.T) {
	uc := newWillUsecaseForTest(new(MockWillRepository), new(MockSubscriptionRepository), new(MockDocumentGenerator))

	tmpl := uc.Template()
	assert.Equal(t, entities.DefaultWillTitle, tmpl.Title)
	assert.NotNil(t, tmpl.BitcoinAssets.Wallets)
	assert.False(t, tmpl.IsSaved())
}

func TestWillUsecase_Create_Success(t *testing.T) {
	willRepo := new(MockWillRepository)
	subRepo := new(MockSubscriptionRepository)
	uc := newWillUsecaseForTest(willRepo, subRepo, new(MockDocumentGenerator))

	userID := uuid.New()
	subRepo.On("GetActiveByUserID", context.Background(), userID).Return(activeSubscription(userID), nil).Once()
	willRepo.On("Create", context.Background(), mock.AnythingOfType("*entities.Will")).Return(nil).Run(func(args mock.Arguments) {
		w := args.Get(1).(*entities.Will)
		w.ID = uuid.New()
	}).Once()

	will, err := uc.Create(context.Background(), userID, &entities.WillInput{Title: "Estate Plan"})
	require.NoError(t, err)
	assert.Equal(t, "Estate Plan", will.Title)
	assert.Equal(t, userID, will.UserID)
	assert.True(t, will.IsSaved())
}

func TestWillUsecase_Create_DefaultTitle(t *testing.T) {
	willRepo := new(MockWillRepository)
	subRepo := new(MockSubscriptionRepository)
	uc := newWillUsecaseForTest(willRepo, subRepo, new(MockDocumentGenerator))

	userID := uuid.New()
	subRepo.On("GetActiveByUserID", context.Background(), userID).Return(activeSubscription(userID), nil).Once()
	willRepo.On("Create", context.Background(), mock.AnythingOfType("*entities.Will")).Return(nil).Once()

	will, err := uc.Create(context.Background(), userID, &entities.WillInput{})
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultWillTitle, will.Title)
}

func TestWillUsecase_Create_NoSubscription(t *testing.T) {
	willRepo := new(MockWillRepository)
	subRepo := new(MockSubscriptionRepository)
	uc := newWillUsecaseForTest(willRepo, subRepo, new(MockDocumentGenerator))

	userID := uuid.New()
	subRepo.On("GetActiveByUserID", context.Background(), userID).Return(nil, domainerrors.ErrNotFound).Once()

	_, err := uc.Create(context.Background(), userID, &entities.WillInput{})
	assert.ErrorIs(t, err, domainerrors.ErrSubscriptionRequired)
	willRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWillUsecase_Create_LapsedSubscription(t *testing.T) {
	willRepo := new(MockWillRepository)
	subRepo := new(MockSubscriptionRepository)
	uc := newWillUsecaseForTest(willRepo, subRepo, new(MockDocumentGenerator))

	userID := uuid.New()
	lapsed := activeSubscription(userID)
	lapsed.CurrentPeriodEnd = null.TimeFrom(time.Now().AddDate(0, -1, 0))
	subRepo.On("GetActiveByUserID", context.Background(), userID).Return(lapsed, nil).Once()

	_, err := uc.Create(context.Background(), userID, &entities.WillInput{})
	assert.ErrorIs(t, err, domainerrors.ErrSubscriptionRequired)
}

func TestWillUsecase_Update_Success(t *testing.T) {
	willRepo := new(MockWillRepository)
	subRepo := new(MockSubscriptionRepository)
	uc := newWillUsecaseForTest(willRepo, subRepo, new(MockDocumentGenerator))

	userID := uuid.New()
	willID := uuid.New()
	existing := entities.TemplateWill()
	existing.ID = willID
	existing.UserID = userID

	willRepo.On("GetByIDForUser", context.Background(), willID, userID).Return(existing, nil).Once()
	willRepo.On("Update", context.Background(), mock.AnythingOfType("*entities.Will")).Return(nil).Once()

	updated, err := uc.Update(context.Background(), userID, willID, &entities.WillInput{
		Title:         "Revised",
		Beneficiaries: []entities.Beneficiary{{Name: "Alice", Percentage: 100}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Revised", updated.Title)
	assert.Len(t, updated.Beneficiaries, 1)
}

func TestWillUsecase_Update_NotOwner(t *testing.T) {
	willRepo := new(MockWillRepository)
	uc := newWillUsecaseForTest(willRepo, new(MockSubscriptionRepository), new(MockDocumentGenerator))

	userID := uuid.New()
	willID := uuid.New()
	willRepo.On("GetByIDForUser", context.Background(), willID, userID).Return(nil, domainerrors.ErrNotFound).Once()

	_, err := uc.Update(context.Background(), userID, willID, &entities.WillInput{})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestWillUsecase_Generate_Success(t *testing.T) {
	willRepo := new(MockWillRepository)
	subRepo := new(MockSubscriptionRepository)
	gen := new(MockDocumentGenerator)
	uc := newWillUsecaseForTest(willRepo, subRepo, gen)

	userID := uuid.New()
	willID := uuid.New()
	will := entities.TemplateWill()
	will.ID = willID
	will.UserID = userID

	subRepo.On("GetActiveByUserID", context.Background(), userID).Return(activeSubscription(userID), nil).Once()
	willRepo.On("GetByIDForUser", context.Background(), willID, userID).Return(will, nil).Once()
	gen.On("Generate", will).Return("documents/bitcoin_will_x.html", nil).Once()
	willRepo.On("SetDocumentPath", context.Background(), willID, "documents/bitcoin_will_x.html").Return(nil).Once()

	result, err := uc.Generate(context.Background(), userID, willID)
	require.NoError(t, err)
	assert.Equal(t, willID, result.WillID)
	assert.Equal(t, "documents/bitcoin_will_x.html", result.DocumentPath)
	assert.NotEmpty(t, result.DownloadToken)
}

func TestWillUsecase_Generate_NoSubscription(t *testing.T) {
	willRepo := new(MockWillRepository)
	subRepo := new(MockSubscriptionRepository)
	gen := new(MockDocumentGenerator)
	uc := newWillUsecaseForTest(willRepo, subRepo, gen)

	userID := uuid.New()
	subRepo.On("GetActiveByUserID", context.Background(), userID).Return(nil, domainerrors.ErrNotFound).Once()

	_, err := uc.Generate(context.Background(), userID, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrSubscriptionRequired)
	gen.AssertNotCalled(t, "Generate", mock.Anything)
}

func TestWillUsecase_Generate_GeneratorFails(t *testing.T) {
	willRepo := new(MockWillRepository)
	subRepo := new(MockSubscriptionRepository)
	gen := new(MockDocumentGenerator)
	uc := newWillUsecaseForTest(willRepo, subRepo, gen)

	userID := uuid.New()
	willID := uuid.New()
	will := entities.TemplateWill()
	will.ID = willID

	subRepo.On("GetActiveByUserID", context.Background(), userID).Return(activeSubscription(userID), nil).Once()
	willRepo.On("GetByIDForUser", context.Background(), willID, userID).Return(will, nil).Once()
	gen.On("Generate", will).Return("", errors.New("disk full")).Once()

	_, err := uc.Generate(context.Background(), userID, willID)
	assert.ErrorIs(t, err, domainerrors.ErrGenerationFailed)
	willRepo.AssertNotCalled(t, "SetDocumentPath", mock.Anything, mock.Anything, mock.Anything)
}

func TestWillUsecase_DocumentPath(t *testing.T) {
	willRepo := new(MockWillRepository)
	uc := newWillUsecaseForTest(willRepo, new(MockSubscriptionRepository), new(MockDocumentGenerator))

	userID := uuid.New()
	willID := uuid.New()
	will := entities.TemplateWill()
	will.ID = willID
	will.DocumentPath = null.StringFrom("documents/a.html")
	willRepo.On("GetByIDForUser", context.Background(), willID, userID).Return(will, nil).Once()

	path, err := uc.DocumentPath(context.Background(), userID, willID)
	require.NoError(t, err)
	assert.Equal(t, "documents/a.html", path)
}

func TestWillUsecase_DocumentPath_NotGenerated(t *testing.T) {
	willRepo := new(MockWillRepository)
	uc := newWillUsecaseForTest(willRepo, new(MockSubscriptionRepository), new(MockDocumentGenerator))

	userID := uuid.New()
	willID := uuid.New()
	will := entities.TemplateWill()
	will.ID = willID
	willRepo.On("GetByIDForUser", context.Background(), willID, userID).Return(will, nil).Once()

	_, err := uc.DocumentPath(context.Background(), userID, willID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestWillUsecase_DocumentPathByToken(t *testing.T) {
	willRepo := new(MockWillRepository)
	subRepo := new(MockSubscriptionRepository)
	gen := new(MockDocumentGenerator)
	uc := newWillUsecaseForTest(willRepo, subRepo, gen)

	userID := uuid.New()
	willID := uuid.New()
	will := entities.TemplateWill()
	will.ID = willID
	will.UserID = userID

	subRepo.On("GetActiveByUserID", context.Background(), userID).Return(activeSubscription(userID), nil).Once()
	willRepo.On("GetByIDForUser", context.Background(), willID, userID).Return(will, nil).Once()
	gen.On("Generate", will).Return("documents/a.html", nil).Once()
	willRepo.On("SetDocumentPath", context.Background(), willID, "documents/a.html").Return(nil).Once()

	result, err := uc.Generate(context.Background(), userID, willID)
	require.NoError(t, err)

	will.DocumentPath = null.StringFrom("documents/a.html")
	willRepo.On("GetByID", context.Background(), willID).Return(will, nil).Once()

	path, err := uc.DocumentPathByToken(context.Background(), result.DownloadToken)
	require.NoError(t, err)
	assert.Equal(t, "documents/a.html", path)
}

func TestWillUsecase_DocumentPathByToken_Invalid(t *testing.T) {
	uc := newWillUsecaseForTest(new(MockWillRepository), new(MockSubscriptionRepository), new(MockDocumentGenerator))

	_, err := uc.DocumentPathByToken(context.Background(), "garbage")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestWillUsecase_Delete(t *testing.T) {
	willRepo := new(MockWillRepository)
	uc := newWillUsecaseForTest(willRepo, new(MockSubscriptionRepository), new(MockDocumentGenerator))

	userID := uuid.New()
	willID := uuid.New()
	will := entities.TemplateWill()
	will.ID = willID
	willRepo.On("GetByIDForUser", context.Background(), willID, userID).Return(will, nil).Once()
	willRepo.On("SoftDelete", context.Background(), willID).Return(nil).Once()

	require.NoError(t, uc.Delete(context.Background(), userID, willID))
	willRepo.AssertExpectations(t)
}

func TestWillUsecase_List(t *testing.T) {
	willRepo := new(MockWillRepository)
	uc := newWillUsecaseForTest(willRepo, new(MockSubscriptionRepository), new(MockDocumentGenerator))

	userID := uuid.New()
	summaries := []*entities.WillSummary{{ID: uuid.New(), Title: "A"}}
	willRepo.On("ListByUserID", context.Background(), userID, 20, 0).Return(summaries, int64(1), nil).Once()

	got, total, err := uc.List(context.Background(), userID, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, got, 1)
}
