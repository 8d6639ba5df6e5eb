package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bitwill.backend/internal/domain/entities"
	domainerrors "bitwill.backend/internal/domain/errors"
	"bitwill.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// WillRepository implements will data operations
type WillRepository struct {
	db *gorm.DB
}

// NewWillRepository creates a new will repository
func NewWillRepository(db *gorm.DB) *WillRepository {
	return &WillRepository{db: db}
}

// Create creates a new will
func (r *WillRepository) Create(ctx context.Context, will *entities.Will) error {
	if will.ID == uuid.Nil {
		will.ID = uuid.New()
	}
	now := time.Now()
	will.CreatedAt = now
	will.UpdatedAt = now

	m, err := r.toModel(will)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	return nil
}

// GetByID gets a will by ID
func (r *WillRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Will, error) {
	var m models.Will
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m)
}

// GetByIDForUser gets a will by ID scoped to its owner
func (r *WillRepository) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*entities.Will, error) {
	var m models.Will
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m)
}

// ListByUserID lists will summaries for a user, newest first
func (r *WillRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.WillSummary, int64, error) {
	var total int64
	base := r.db.WithContext(ctx).Model(&models.Will{}).Where("user_id = ?", userID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).Model(&models.Will{}).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var willModels []models.Will
	if err := query.Find(&willModels).Error; err != nil {
		return nil, 0, err
	}

	summaries := make([]*entities.WillSummary, 0, len(willModels))
	for i := range willModels {
		summaries = append(summaries, &entities.WillSummary{
			ID:        willModels[i].ID,
			Title:     willModels[i].Title,
			CreatedAt: willModels[i].CreatedAt,
			UpdatedAt: willModels[i].UpdatedAt,
		})
	}
	return summaries, total, nil
}

// Update replaces a will's content
func (r *WillRepository) Update(ctx context.Context, will *entities.Will) error {
	m, err := r.toModel(will)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"title":          m.Title,
		"personal_info":  m.PersonalInfo,
		"bitcoin_assets": m.BitcoinAssets,
		"beneficiaries":  m.Beneficiaries,
		"instructions":   m.Instructions,
		"updated_at":     time.Now(),
	}

	result := r.db.WithContext(ctx).Model(&models.Will{}).Where("id = ?", will.ID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SetDocumentPath records the generated document location
func (r *WillRepository) SetDocumentPath(ctx context.Context, id uuid.UUID, path string) error {
	updates := map[string]interface{}{
		"document_path": path,
		"generated_at":  time.Now(),
		"updated_at":    time.Now(),
	}

	result := r.db.WithContext(ctx).Model(&models.Will{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SoftDelete soft deletes a will
func (r *WillRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Will{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *WillRepository) toModel(will *entities.Will) (*models.Will, error) {
	personalInfo, err := json.Marshal(will.PersonalInfo)
	if err != nil {
		return nil, err
	}
	bitcoinAssets, err := json.Marshal(will.BitcoinAssets)
	if err != nil {
		return nil, err
	}
	beneficiaries, err := json.Marshal(will.Beneficiaries)
	if err != nil {
		return nil, err
	}
	instructions, err := json.Marshal(will.Instructions)
	if err != nil {
		return nil, err
	}

	return &models.Will{
		ID:            will.ID,
		UserID:        will.UserID,
		Title:         will.Title,
		PersonalInfo:  string(personalInfo),
		BitcoinAssets: string(bitcoinAssets),
		Beneficiaries: string(beneficiaries),
		Instructions:  string(instructions),
		CreatedAt:     will.CreatedAt,
		UpdatedAt:     will.UpdatedAt,
	}, nil
}

func (r *WillRepository) toEntity(m *models.Will) (*entities.Will, error) {
	will := &entities.Will{
		ID:        m.ID,
		UserID:    m.UserID,
		Title:     m.Title,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}

	if m.PersonalInfo != "" {
		if err := json.Unmarshal([]byte(m.PersonalInfo), &will.PersonalInfo); err != nil {
			return nil, err
		}
	}
	if m.BitcoinAssets != "" {
		if err := json.Unmarshal([]byte(m.BitcoinAssets), &will.BitcoinAssets); err != nil {
			return nil, err
		}
	}
	if m.Beneficiaries != "" {
		if err := json.Unmarshal([]byte(m.Beneficiaries), &will.Beneficiaries); err != nil {
			return nil, err
		}
	}
	if m.Instructions != "" {
		if err := json.Unmarshal([]byte(m.Instructions), &will.Instructions); err != nil {
			return nil, err
		}
	}

	if m.DocumentPath != nil {
		will.DocumentPath = null.StringFrom(*m.DocumentPath)
	}
	if m.GeneratedAt != nil {
		will.GeneratedAt = null.TimeFrom(*m.GeneratedAt)
	}

	return will, nil
}
