package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// DefaultWillTitle is used when a draft is created without an explicit title.
const DefaultWillTitle = "My Bitcoin Will"

// WalletType represents how a wallet's keys are held
type WalletType string

const (
	WalletTypeHardware WalletType = "hardware"
	WalletTypeSoftware WalletType = "software"
	WalletTypePaper    WalletType = "paper"
	WalletTypeExchange WalletType = "exchange"
)

// Address represents a postal address
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

// Contact represents a named contact person
type Contact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship,omitempty"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

// PersonalInfo holds the testator's identity details
type PersonalInfo struct {
	FullName    string  `json:"full_name"`
	DateOfBirth string  `json:"date_of_birth"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Address     Address `json:"address"`
}

// WalletEntry describes a single bitcoin wallet covered by the will
type WalletEntry struct {
	Name               string     `json:"name"`
	Type               WalletType `json:"type"`
	Description        string     `json:"description"`
	AccessMethod       string     `json:"access_method"`
	SeedPhraseLocation string     `json:"seed_phrase_location"`
	PrivateKeyLocation string     `json:"private_key_location"`
	AdditionalNotes    string     `json:"additional_notes"`
}

// ExchangeAccount describes a custodial exchange account
type ExchangeAccount struct {
	Name            string `json:"name"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	TwoFactorBackup string `json:"two_factor_backup"`
	AdditionalNotes string `json:"additional_notes"`
}

// BitcoinAssets groups all asset records of a will.
// OtherCrypto is reserved: it is carried through serialization untouched
// and never edited by any wizard step.
type BitcoinAssets struct {
	Wallets     []WalletEntry            `json:"wallets"`
	Exchanges   []ExchangeAccount        `json:"exchanges"`
	OtherCrypto []map[string]interface{} `json:"other_crypto"`
}

// Beneficiary describes a recipient of a share of the assets
type Beneficiary struct {
	Name           string  `json:"name"`
	Relationship   string  `json:"relationship"`
	Percentage     float64 `json:"percentage"`
	Phone          string  `json:"phone"`
	Email          string  `json:"email"`
	BitcoinAddress string  `json:"bitcoin_address"`
	Address        Address `json:"address"`
	BackupContact  Contact `json:"backup_contact"`
}

// LawyerContact identifies legal counsel
type LawyerContact struct {
	Name  string `json:"name"`
	Firm  string `json:"firm"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Instructions holds executor and distribution guidance
type Instructions struct {
	Executor                 Contact       `json:"executor"`
	DistributionInstructions string        `json:"distribution_instructions"`
	TechnicalInstructions    string        `json:"technical_instructions"`
	EmergencyContacts        []Contact     `json:"emergency_contacts"`
	AdditionalNotes          string        `json:"additional_notes"`
	LawyerContact            LawyerContact `json:"lawyer_contact"`
}

// Will represents the aggregate will document being assembled
type Will struct {
	ID            uuid.UUID     `json:"id"`
	UserID        uuid.UUID     `json:"user_id"`
	Title         string        `json:"title"`
	PersonalInfo  PersonalInfo  `json:"personal_info"`
	BitcoinAssets BitcoinAssets `json:"bitcoin_assets"`
	Beneficiaries []Beneficiary `json:"beneficiaries"`
	Instructions  Instructions  `json:"instructions"`
	DocumentPath  null.String   `json:"document_path,omitempty"`
	GeneratedAt   null.Time     `json:"generated_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// IsSaved reports whether the will has been persisted at least once
func (w *Will) IsSaved() bool {
	return w.ID != uuid.Nil
}

// WillSummary is the list-endpoint projection of a will
type WillSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WillInput represents the request body for creating or updating a will
type WillInput struct {
	Title         string        `json:"title"`
	PersonalInfo  PersonalInfo  `json:"personal_info"`
	BitcoinAssets BitcoinAssets `json:"bitcoin_assets"`
	Beneficiaries []Beneficiary `json:"beneficiaries"`
	Instructions  Instructions  `json:"instructions"`
}

// GenerateResult carries the outcome of document generation
type GenerateResult struct {
	WillID        uuid.UUID `json:"will_id"`
	DocumentPath  string    `json:"document_path"`
	DownloadToken string    `json:"download_token"`
}

// TemplateWill returns the seed draft handed to a new wizard session
func TemplateWill() *Will {
	return &Will{
		Title: DefaultWillTitle,
		BitcoinAssets: BitcoinAssets{
			Wallets:     []WalletEntry{},
			Exchanges:   []ExchangeAccount{},
			OtherCrypto: []map[string]interface{}{},
		},
		Beneficiaries: []Beneficiary{},
		Instructions: Instructions{
			EmergencyContacts: []Contact{},
		},
	}
}

// TotalPercentage sums beneficiary percentages. Advisory only: the sum
// is surfaced as a warning when it differs from 100, never enforced.
func (w *Will) TotalPercentage() float64 {
	var total float64
	for _, b := range w.Beneficiaries {
		total += b.Percentage
	}
	return total
}
