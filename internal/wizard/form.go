package wizard

import "fmt"

// FormSource yields the current edits of a step's rendered form. It is
// the seam between the wizard core and whatever surface renders the
// fields (terminal form, web page, test fixture).
//
// ReadFields returns the raw field values keyed by field path, plus the
// paths currently flagged required. Row-scoped paths embed the row's
// surrogate key, e.g. "wallet.3.name".
type FormSource interface {
	ReadFields(step Step) (values map[string]string, required []string, err error)
}

// Field paths for the fixed (non-row) fields of each step.
const (
	FieldFullName        = "personal.full_name"
	FieldDateOfBirth     = "personal.date_of_birth"
	FieldEmail           = "personal.email"
	FieldPhone           = "personal.phone"
	FieldStreet          = "personal.address.street"
	FieldCity            = "personal.address.city"
	FieldState           = "personal.address.state"
	FieldZipCode         = "personal.address.zip_code"
	FieldCountry         = "personal.address.country"
	FieldExecutorName    = "executor.name"
	FieldExecutorRel     = "executor.relationship"
	FieldExecutorPhone   = "executor.phone"
	FieldExecutorEmail   = "executor.email"
	FieldDistribution    = "distribution_instructions"
	FieldTechnical       = "technical_instructions"
	FieldAdditionalNotes = "additional_notes"
	FieldLawyerName      = "lawyer.name"
	FieldLawyerFirm      = "lawyer.firm"
	FieldLawyerPhone     = "lawyer.phone"
	FieldLawyerEmail     = "lawyer.email"
	FieldTitle           = "title"
	FieldAcknowledged    = "acknowledged"
)

// WalletField returns the path of a wallet row's attribute
func WalletField(key int, attr string) string {
	return fmt.Sprintf("wallet.%d.%s", key, attr)
}

// ExchangeField returns the path of an exchange row's attribute
func ExchangeField(key int, attr string) string {
	return fmt.Sprintf("exchange.%d.%s", key, attr)
}

// BeneficiaryField returns the path of a beneficiary row's attribute
func BeneficiaryField(key int, attr string) string {
	return fmt.Sprintf("beneficiary.%d.%s", key, attr)
}

// EmergencyContactField returns the path of an emergency contact row's
// attribute
func EmergencyContactField(key int, attr string) string {
	return fmt.Sprintf("contact.%d.%s", key, attr)
}

// truthy interprets checkbox-style values
func truthy(v string) bool {
	switch v {
	case "true", "1", "on", "yes":
		return true
	}
	return false
}
