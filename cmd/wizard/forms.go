package main

import (
	"fmt"
	"strconv"
	"strings"

	"bitwill.backend/internal/domain/entities"
	"bitwill.backend/internal/wizard"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// field is one text input of a step form
type field struct {
	path  string
	title string
	init  string
}

// walletTypeOptions are the selectable custody types for a wallet row
var walletTypeOptions = []huh.Option[string]{
	huh.NewOption("Hardware wallet", string(entities.WalletTypeHardware)),
	huh.NewOption("Software wallet", string(entities.WalletTypeSoftware)),
	huh.NewOption("Paper wallet", string(entities.WalletTypePaper)),
	huh.NewOption("Exchange custody", string(entities.WalletTypeExchange)),
}

func personalFields(d *entities.Will) ([]field, []string) {
	p := d.PersonalInfo
	fields := []field{
		{wizard.FieldFullName, "Full Legal Name", p.FullName},
		{wizard.FieldDateOfBirth, "Date of Birth", p.DateOfBirth},
		{wizard.FieldEmail, "Email", p.Email},
		{wizard.FieldPhone, "Phone", p.Phone},
		{wizard.FieldStreet, "Street", p.Address.Street},
		{wizard.FieldCity, "City", p.Address.City},
		{wizard.FieldState, "State / Province", p.Address.State},
		{wizard.FieldZipCode, "ZIP / Postal Code", p.Address.ZipCode},
		{wizard.FieldCountry, "Country", p.Address.Country},
	}
	return fields, []string{wizard.FieldFullName}
}

// assetFields lays out one group of inputs per working wallet and
// exchange row. Rows beyond the draft's saved entries start blank.
func assetFields(d *entities.Will, wallets, exchanges []int) ([]field, []string) {
	var fields []field

	for idx, key := range wallets {
		var entry entities.WalletEntry
		if idx < len(d.BitcoinAssets.Wallets) {
			entry = d.BitcoinAssets.Wallets[idx]
		}
		label := fmt.Sprintf("Wallet %d", idx+1)
		fields = append(fields,
			field{wizard.WalletField(key, "name"), label + ": Name", entry.Name},
			field{wizard.WalletField(key, "type"), label + ": Type", string(entry.Type)},
			field{wizard.WalletField(key, "description"), label + ": Description", entry.Description},
			field{wizard.WalletField(key, "access_method"), label + ": Access Method", entry.AccessMethod},
			field{wizard.WalletField(key, "seed_phrase_location"), label + ": Seed Phrase Location", entry.SeedPhraseLocation},
			field{wizard.WalletField(key, "private_key_location"), label + ": Private Key Location", entry.PrivateKeyLocation},
			field{wizard.WalletField(key, "additional_notes"), label + ": Notes", entry.AdditionalNotes},
		)
	}

	for idx, key := range exchanges {
		var account entities.ExchangeAccount
		if idx < len(d.BitcoinAssets.Exchanges) {
			account = d.BitcoinAssets.Exchanges[idx]
		}
		label := fmt.Sprintf("Exchange %d", idx+1)
		fields = append(fields,
			field{wizard.ExchangeField(key, "name"), label + ": Name", account.Name},
			field{wizard.ExchangeField(key, "username"), label + ": Username", account.Username},
			field{wizard.ExchangeField(key, "email"), label + ": Account Email", account.Email},
			field{wizard.ExchangeField(key, "two_factor_backup"), label + ": 2FA Backup Location", account.TwoFactorBackup},
			field{wizard.ExchangeField(key, "additional_notes"), label + ": Notes", account.AdditionalNotes},
		)
	}

	return fields, nil
}

func beneficiaryFields(d *entities.Will, rows []int) ([]field, []string) {
	var fields []field
	for idx, key := range rows {
		var b entities.Beneficiary
		if idx < len(d.Beneficiaries) {
			b = d.Beneficiaries[idx]
		}
		label := fmt.Sprintf("Beneficiary %d", idx+1)
		percentage := ""
		if b.Percentage != 0 {
			percentage = strconv.FormatFloat(b.Percentage, 'f', -1, 64)
		}
		fields = append(fields,
			field{wizard.BeneficiaryField(key, "name"), label + ": Name", b.Name},
			field{wizard.BeneficiaryField(key, "relationship"), label + ": Relationship", b.Relationship},
			field{wizard.BeneficiaryField(key, "percentage"), label + ": Share (%)", percentage},
			field{wizard.BeneficiaryField(key, "phone"), label + ": Phone", b.Phone},
			field{wizard.BeneficiaryField(key, "email"), label + ": Email", b.Email},
			field{wizard.BeneficiaryField(key, "bitcoin_address"), label + ": Bitcoin Address", b.BitcoinAddress},
		)
	}
	return fields, nil
}

func instructionFields(d *entities.Will, contacts []int) ([]field, []string) {
	in := d.Instructions
	fields := []field{
		{wizard.FieldExecutorName, "Executor: Name", in.Executor.Name},
		{wizard.FieldExecutorRel, "Executor: Relationship", in.Executor.Relationship},
		{wizard.FieldExecutorPhone, "Executor: Phone", in.Executor.Phone},
		{wizard.FieldExecutorEmail, "Executor: Email", in.Executor.Email},
		{wizard.FieldDistribution, "Distribution Instructions", in.DistributionInstructions},
		{wizard.FieldTechnical, "Technical Instructions", in.TechnicalInstructions},
		{wizard.FieldAdditionalNotes, "Additional Notes", in.AdditionalNotes},
		{wizard.FieldLawyerName, "Lawyer: Name", in.LawyerContact.Name},
		{wizard.FieldLawyerFirm, "Lawyer: Firm", in.LawyerContact.Firm},
		{wizard.FieldLawyerPhone, "Lawyer: Phone", in.LawyerContact.Phone},
		{wizard.FieldLawyerEmail, "Lawyer: Email", in.LawyerContact.Email},
	}
	for idx, key := range contacts {
		var c entities.Contact
		if idx < len(in.EmergencyContacts) {
			c = in.EmergencyContacts[idx]
		}
		label := fmt.Sprintf("Emergency Contact %d", idx+1)
		fields = append(fields,
			field{wizard.EmergencyContactField(key, "name"), label + ": Name", c.Name},
			field{wizard.EmergencyContactField(key, "relationship"), label + ": Relationship", c.Relationship},
			field{wizard.EmergencyContactField(key, "phone"), label + ": Phone", c.Phone},
			field{wizard.EmergencyContactField(key, "email"), label + ": Email", c.Email},
		)
	}
	return fields, nil
}

// renderSummary formats the draft for the review step
func renderSummary(d *entities.Will) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title:         %s\n", d.Title)
	fmt.Fprintf(&b, "Testator:      %s\n", orUnset(d.PersonalInfo.FullName))
	fmt.Fprintf(&b, "Wallets:       %d\n", len(d.BitcoinAssets.Wallets))
	fmt.Fprintf(&b, "Exchanges:     %d\n", len(d.BitcoinAssets.Exchanges))
	fmt.Fprintf(&b, "Beneficiaries: %d", len(d.Beneficiaries))
	if total := d.TotalPercentage(); len(d.Beneficiaries) > 0 && total != 100 {
		fmt.Fprintf(&b, "  (shares sum to %.0f%%, not 100%%)", total)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Executor:      %s\n", orUnset(d.Instructions.Executor.Name))
	return b.String()
}

func orUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

// interactiveForm renders a step's fields as terminal prompts. It is
// bound to its session after construction so it can prefill from the
// draft and lay out the working rows.
type interactiveForm struct {
	session *wizard.Session
}

func (f *interactiveForm) bind(s *wizard.Session) {
	f.session = s
}

func (f *interactiveForm) ReadFields(step wizard.Step) (map[string]string, []string, error) {
	d := f.session.Draft()

	var (
		fields   []field
		required []string
	)
	switch step {
	case wizard.StepPersonalInfo:
		fields, required = personalFields(d)
	case wizard.StepBitcoinAssets:
		fields, required = assetFields(d,
			f.session.RowKeys(wizard.CollectionWallets),
			f.session.RowKeys(wizard.CollectionExchanges))
	case wizard.StepBeneficiaries:
		fields, required = beneficiaryFields(d, f.session.RowKeys(wizard.CollectionBeneficiaries))
	case wizard.StepInstructions:
		fields, required = instructionFields(d, f.session.RowKeys(wizard.CollectionEmergencyContacts))
	case wizard.StepReview:
		return f.readReview(d)
	}

	values, err := runFieldsForm(step.String(), fields)
	if err != nil {
		return nil, nil, err
	}
	return values, required, nil
}

// readReview shows the summary, then collects the title and the legal
// acknowledgment.
func (f *interactiveForm) readReview(d *entities.Will) (map[string]string, []string, error) {
	fmt.Println(titleStyle.Render("Review"))
	fmt.Println(renderSummary(d))

	title := d.Title
	acknowledged := false
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Will Title").
				Value(&title),
			huh.NewConfirm().
				Title("I understand this document is a planning aid and that I should seek legal advice in my jurisdiction.").
				Value(&acknowledged),
		).Title("Review & Generate"),
	).Run()
	if err != nil {
		return nil, nil, err
	}

	values := map[string]string{
		wizard.FieldTitle:        title,
		wizard.FieldAcknowledged: strconv.FormatBool(acknowledged),
	}
	return values, nil, nil
}

// runFieldsForm renders the fields as huh input groups and returns the
// entered values keyed by field path.
func runFieldsForm(title string, fields []field) (map[string]string, error) {
	values := make(map[string]string, len(fields))
	if len(fields) == 0 {
		return values, nil
	}

	buf := make([]string, len(fields))
	var groups []*huh.Group

	const perGroup = 8
	for start := 0; start < len(fields); start += perGroup {
		end := start + perGroup
		if end > len(fields) {
			end = len(fields)
		}

		inputs := make([]huh.Field, 0, end-start)
		for i := start; i < end; i++ {
			buf[i] = fields[i].init
			if strings.HasSuffix(fields[i].path, ".type") && strings.HasPrefix(fields[i].path, "wallet.") {
				inputs = append(inputs, huh.NewSelect[string]().
					Title(fields[i].title).
					Options(walletTypeOptions...).
					Value(&buf[i]))
				continue
			}
			inputs = append(inputs, huh.NewInput().
				Title(fields[i].title).
				Value(&buf[i]))
		}
		groups = append(groups, huh.NewGroup(inputs...).Title(title))
	}

	if err := huh.NewForm(groups...).Run(); err != nil {
		return nil, err
	}
	for i, f := range fields {
		values[f.path] = buf[i]
	}
	return values, nil
}
