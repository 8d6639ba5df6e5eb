package wizard

import (
	"strconv"

	"bitwill.backend/internal/domain/entities"
)

// The merge functions turn the raw field values of a step into that
// step's draft sub-object. Each one builds a full replacement: stale
// fields from a previous partial edit never survive a save.

func mergePersonalInfo(values map[string]string) entities.PersonalInfo {
	return entities.PersonalInfo{
		FullName:    values[FieldFullName],
		DateOfBirth: values[FieldDateOfBirth],
		Email:       values[FieldEmail],
		Phone:       values[FieldPhone],
		Address: entities.Address{
			Street:  values[FieldStreet],
			City:    values[FieldCity],
			State:   values[FieldState],
			ZipCode: values[FieldZipCode],
			Country: values[FieldCountry],
		},
	}
}

// mergeAssets rebuilds wallets and exchanges from the working rows.
// Rows with a blank name are dropped; other_crypto is carried over
// untouched.
func mergeAssets(values map[string]string, wallets, exchanges []int, prior entities.BitcoinAssets) entities.BitcoinAssets {
	assets := entities.BitcoinAssets{
		Wallets:     []entities.WalletEntry{},
		Exchanges:   []entities.ExchangeAccount{},
		OtherCrypto: prior.OtherCrypto,
	}
	if assets.OtherCrypto == nil {
		assets.OtherCrypto = []map[string]interface{}{}
	}

	for _, key := range wallets {
		entry := entities.WalletEntry{
			Name:               values[WalletField(key, "name")],
			Type:               entities.WalletType(values[WalletField(key, "type")]),
			Description:        values[WalletField(key, "description")],
			AccessMethod:       values[WalletField(key, "access_method")],
			SeedPhraseLocation: values[WalletField(key, "seed_phrase_location")],
			PrivateKeyLocation: values[WalletField(key, "private_key_location")],
			AdditionalNotes:    values[WalletField(key, "additional_notes")],
		}
		if entry.Name == "" {
			continue
		}
		assets.Wallets = append(assets.Wallets, entry)
	}

	for _, key := range exchanges {
		account := entities.ExchangeAccount{
			Name:            values[ExchangeField(key, "name")],
			Username:        values[ExchangeField(key, "username")],
			Email:           values[ExchangeField(key, "email")],
			TwoFactorBackup: values[ExchangeField(key, "two_factor_backup")],
			AdditionalNotes: values[ExchangeField(key, "additional_notes")],
		}
		if account.Name == "" {
			continue
		}
		assets.Exchanges = append(assets.Exchanges, account)
	}

	return assets
}

func mergeBeneficiaries(values map[string]string, rows []int) []entities.Beneficiary {
	beneficiaries := []entities.Beneficiary{}
	for _, key := range rows {
		b := entities.Beneficiary{
			Name:           values[BeneficiaryField(key, "name")],
			Relationship:   values[BeneficiaryField(key, "relationship")],
			Percentage:     parsePercentage(values[BeneficiaryField(key, "percentage")]),
			Phone:          values[BeneficiaryField(key, "phone")],
			Email:          values[BeneficiaryField(key, "email")],
			BitcoinAddress: values[BeneficiaryField(key, "bitcoin_address")],
			Address: entities.Address{
				Street:  values[BeneficiaryField(key, "address.street")],
				City:    values[BeneficiaryField(key, "address.city")],
				State:   values[BeneficiaryField(key, "address.state")],
				ZipCode: values[BeneficiaryField(key, "address.zip_code")],
				Country: values[BeneficiaryField(key, "address.country")],
			},
			BackupContact: entities.Contact{
				Name:         values[BeneficiaryField(key, "backup_contact.name")],
				Relationship: values[BeneficiaryField(key, "backup_contact.relationship")],
				Phone:        values[BeneficiaryField(key, "backup_contact.phone")],
				Email:        values[BeneficiaryField(key, "backup_contact.email")],
			},
		}
		if b.Name == "" {
			continue
		}
		beneficiaries = append(beneficiaries, b)
	}
	return beneficiaries
}

func mergeInstructions(values map[string]string, contacts []int) entities.Instructions {
	instructions := entities.Instructions{
		Executor: entities.Contact{
			Name:         values[FieldExecutorName],
			Relationship: values[FieldExecutorRel],
			Phone:        values[FieldExecutorPhone],
			Email:        values[FieldExecutorEmail],
		},
		DistributionInstructions: values[FieldDistribution],
		TechnicalInstructions:    values[FieldTechnical],
		EmergencyContacts:        []entities.Contact{},
		AdditionalNotes:          values[FieldAdditionalNotes],
		LawyerContact: entities.LawyerContact{
			Name:  values[FieldLawyerName],
			Firm:  values[FieldLawyerFirm],
			Phone: values[FieldLawyerPhone],
			Email: values[FieldLawyerEmail],
		},
	}

	for _, key := range contacts {
		c := entities.Contact{
			Name:         values[EmergencyContactField(key, "name")],
			Relationship: values[EmergencyContactField(key, "relationship")],
			Phone:        values[EmergencyContactField(key, "phone")],
			Email:        values[EmergencyContactField(key, "email")],
		}
		if c.Name == "" {
			continue
		}
		instructions.EmergencyContacts = append(instructions.EmergencyContacts, c)
	}

	return instructions
}

// parsePercentage treats blank or non-numeric input as 0. The sum
// across beneficiaries is advisory only and never blocks navigation.
func parsePercentage(v string) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}
