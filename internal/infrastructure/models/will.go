package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Will stores the aggregate document. Section payloads are JSON text
// columns, mirroring the heterogeneous shape of each section.
type Will struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `gorm:"type:uuid;index;not null"`
	Title         string    `gorm:"type:varchar(255);not null"`
	PersonalInfo  string    `gorm:"type:text"`
	BitcoinAssets string    `gorm:"type:text"`
	Beneficiaries string    `gorm:"type:text"`
	Instructions  string    `gorm:"type:text"`
	DocumentPath  *string   `gorm:"type:varchar(500)"`
	GeneratedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}
