package documents

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"bitwill.backend/internal/domain/entities"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// var indirection for testing
var (
	osMkdirAll  = os.MkdirAll
	osWriteFile = os.WriteFile
	timeNow     = time.Now
)

// markdownInstance is initialized once and reused. The converter
// configuration never changes and goldmark.Markdown is safe to share.
var (
	markdownInstance goldmark.Markdown
	markdownOnce     sync.Once
)

func getMarkdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return markdownInstance
}

// Generator renders a will into an HTML document on disk
type Generator struct {
	dir string
}

// NewGenerator creates a new document generator writing into dir
func NewGenerator(dir string) *Generator {
	return &Generator{dir: dir}
}

// Generate renders the will and writes it under the generator's
// directory. It returns the path of the written document relative to
// the working directory.
func (g *Generator) Generate(will *entities.Will) (string, error) {
	if err := osMkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("create documents directory: %w", err)
	}

	source := renderMarkdown(will, timeNow())

	var buf bytes.Buffer
	buf.WriteString(htmlHeader)
	if err := getMarkdown().Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("convert document: %w", err)
	}
	buf.WriteString(htmlFooter)

	filename := fmt.Sprintf("bitcoin_will_%s_%s.html", will.ID, timeNow().Format("20060102_150405"))
	path := filepath.Join(g.dir, filename)
	if err := osWriteFile(path, buf.Bytes(), 0o600); err != nil {
		return "", fmt.Errorf("write document: %w", err)
	}
	documentsGenerated.Inc()
	return path, nil
}

const htmlHeader = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Last Will and Testament</title>
<style>
body { font-family: Georgia, serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; color: #1a1a2e; }
h1 { text-align: center; font-size: 1.4rem; }
h2 { color: #16305e; border-bottom: 1px solid #d0d4dc; padding-bottom: 0.25rem; }
.signature-line { letter-spacing: 0.1em; }
</style>
</head>
<body>
`

const htmlFooter = `</body>
</html>
`

// renderMarkdown assembles the will document body. Empty sections are
// skipped entirely, matching the generated record to what the user
// actually entered.
func renderMarkdown(will *entities.Will, now time.Time) string {
	var b strings.Builder

	b.WriteString("# LAST WILL AND TESTAMENT\n\n")
	b.WriteString("# FOR BITCOIN AND CRYPTOCURRENCY ASSETS\n\n")

	writePersonalInfo(&b, will.PersonalInfo)
	writeDeclaration(&b)
	writeAssets(&b, will.BitcoinAssets)
	writeBeneficiaries(&b, will.Beneficiaries)
	writeInstructions(&b, will.Instructions)
	writeDisclaimers(&b)
	writeExecution(&b, now)

	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func formatAddress(a entities.Address) string {
	return fmt.Sprintf("%s, %s, %s %s, %s", a.Street, a.City, a.State, a.ZipCode, a.Country)
}

func addressEmpty(a entities.Address) bool {
	return a == (entities.Address{})
}

func writePersonalInfo(b *strings.Builder, info entities.PersonalInfo) {
	if info == (entities.PersonalInfo{}) {
		return
	}
	b.WriteString("## I. PERSONAL INFORMATION\n\n")
	fmt.Fprintf(b, "**Full Name:** %s\n\n", orNA(info.FullName))
	fmt.Fprintf(b, "**Date of Birth:** %s\n\n", orNA(info.DateOfBirth))
	fmt.Fprintf(b, "**Address:** %s\n\n", formatAddress(info.Address))
	fmt.Fprintf(b, "**Phone:** %s\n\n", orNA(info.Phone))
	fmt.Fprintf(b, "**Email:** %s\n\n", orNA(info.Email))
}

func writeDeclaration(b *strings.Builder) {
	b.WriteString("## II. DECLARATION\n\n")
	b.WriteString("I, being of sound mind and disposing memory, do hereby make, publish, " +
		"and declare this to be my Last Will and Testament for my Bitcoin and cryptocurrency " +
		"assets, hereby revoking any and all former wills and codicils relating to digital " +
		"assets made by me.\n\n")
}

func writeAssets(b *strings.Builder, assets entities.BitcoinAssets) {
	if len(assets.Wallets) == 0 && len(assets.Exchanges) == 0 {
		return
	}
	b.WriteString("## III. BITCOIN AND CRYPTOCURRENCY ASSETS\n\n")

	if len(assets.Wallets) > 0 {
		b.WriteString("### A. Bitcoin Wallets\n\n")
		for i, w := range assets.Wallets {
			fmt.Fprintf(b, "**Wallet %d:**\n\n", i+1)
			fmt.Fprintf(b, "- Name: %s\n", orNA(w.Name))
			fmt.Fprintf(b, "- Type: %s\n", orNA(string(w.Type)))
			fmt.Fprintf(b, "- Description: %s\n", orNA(w.Description))
			fmt.Fprintf(b, "- Access Method: %s\n", orNA(w.AccessMethod))
			fmt.Fprintf(b, "- Seed Phrase Location: %s\n", orNA(w.SeedPhraseLocation))
			fmt.Fprintf(b, "- Private Key Location: %s\n", orNA(w.PrivateKeyLocation))
			if w.AdditionalNotes != "" {
				fmt.Fprintf(b, "- Additional Notes: %s\n", w.AdditionalNotes)
			}
			b.WriteString("\n")
		}
	}

	if len(assets.Exchanges) > 0 {
		b.WriteString("### B. Cryptocurrency Exchanges\n\n")
		for i, e := range assets.Exchanges {
			fmt.Fprintf(b, "**Exchange %d:**\n\n", i+1)
			fmt.Fprintf(b, "- Name: %s\n", orNA(e.Name))
			fmt.Fprintf(b, "- Username: %s\n", orNA(e.Username))
			fmt.Fprintf(b, "- Email: %s\n", orNA(e.Email))
			fmt.Fprintf(b, "- Two-Factor Backup: %s\n", orNA(e.TwoFactorBackup))
			if e.AdditionalNotes != "" {
				fmt.Fprintf(b, "- Additional Notes: %s\n", e.AdditionalNotes)
			}
			b.WriteString("\n")
		}
	}
}

func writeBeneficiaries(b *strings.Builder, beneficiaries []entities.Beneficiary) {
	if len(beneficiaries) == 0 {
		return
	}
	b.WriteString("## IV. BENEFICIARIES AND DISTRIBUTION\n\n")
	for i, ben := range beneficiaries {
		fmt.Fprintf(b, "### Beneficiary %d\n\n", i+1)
		fmt.Fprintf(b, "- Name: %s\n", orNA(ben.Name))
		fmt.Fprintf(b, "- Relationship: %s\n", orNA(ben.Relationship))
		fmt.Fprintf(b, "- Percentage of Assets: %g%%\n", ben.Percentage)
		if !addressEmpty(ben.Address) {
			fmt.Fprintf(b, "- Address: %s\n", formatAddress(ben.Address))
		}
		fmt.Fprintf(b, "- Phone: %s\n", orNA(ben.Phone))
		fmt.Fprintf(b, "- Email: %s\n", orNA(ben.Email))
		fmt.Fprintf(b, "- Bitcoin Address: %s\n", orNA(ben.BitcoinAddress))
		if ben.BackupContact.Name != "" {
			fmt.Fprintf(b, "- Backup Contact: %s - %s\n", ben.BackupContact.Name, orNA(ben.BackupContact.Phone))
		}
		b.WriteString("\n")
	}
}

func writeInstructions(b *strings.Builder, instructions entities.Instructions) {
	hasContent := instructions.Executor.Name != "" ||
		instructions.DistributionInstructions != "" ||
		instructions.TechnicalInstructions != "" ||
		len(instructions.EmergencyContacts) > 0 ||
		instructions.LawyerContact.Name != ""
	if !hasContent {
		return
	}

	b.WriteString("## V. EXECUTOR AND INSTRUCTIONS\n\n")

	if instructions.Executor.Name != "" {
		b.WriteString("### Executor\n\n")
		fmt.Fprintf(b, "- Name: %s\n", instructions.Executor.Name)
		fmt.Fprintf(b, "- Relationship: %s\n", orNA(instructions.Executor.Relationship))
		fmt.Fprintf(b, "- Phone: %s\n", orNA(instructions.Executor.Phone))
		fmt.Fprintf(b, "- Email: %s\n\n", orNA(instructions.Executor.Email))
	}

	if instructions.DistributionInstructions != "" {
		b.WriteString("### Distribution Instructions\n\n")
		b.WriteString(instructions.DistributionInstructions + "\n\n")
	}

	if instructions.TechnicalInstructions != "" {
		b.WriteString("### Technical Instructions\n\n")
		b.WriteString(instructions.TechnicalInstructions + "\n\n")
	}

	named := make([]entities.Contact, 0, len(instructions.EmergencyContacts))
	for _, c := range instructions.EmergencyContacts {
		if c.Name != "" {
			named = append(named, c)
		}
	}
	if len(named) > 0 {
		b.WriteString("### Emergency Contacts\n\n")
		for _, c := range named {
			fmt.Fprintf(b, "- %s (%s) - %s\n", c.Name, orNA(c.Relationship), orNA(c.Phone))
		}
		b.WriteString("\n")
	}

	if instructions.LawyerContact.Name != "" {
		b.WriteString("### Legal Counsel\n\n")
		fmt.Fprintf(b, "- Name: %s\n", instructions.LawyerContact.Name)
		fmt.Fprintf(b, "- Firm: %s\n", orNA(instructions.LawyerContact.Firm))
		fmt.Fprintf(b, "- Phone: %s\n", orNA(instructions.LawyerContact.Phone))
		fmt.Fprintf(b, "- Email: %s\n\n", orNA(instructions.LawyerContact.Email))
	}
}

func writeDisclaimers(b *strings.Builder) {
	b.WriteString("## VI. LEGAL DISCLAIMERS AND NOTES\n\n")
	b.WriteString("This document serves as a comprehensive record of Bitcoin and cryptocurrency " +
		"assets for estate planning purposes. It is strongly recommended that this document be " +
		"reviewed and properly executed with the assistance of qualified legal counsel to ensure " +
		"compliance with local laws and regulations.\n\n")
	b.WriteString("**IMPORTANT:** This document contains sensitive information about cryptocurrency " +
		"assets. Store this document securely and ensure that trusted individuals know of its " +
		"existence and location.\n\n")
}

func writeExecution(b *strings.Builder, now time.Time) {
	b.WriteString("## VII. EXECUTION\n\n")
	fmt.Fprintf(b, "Date: %s\n\n", now.Format("January 2, 2006"))

	line := strings.Repeat("\\_", 30)
	short := strings.Repeat("\\_", 12)
	fmt.Fprintf(b, "Testator Signature: %s Date: %s\n\n", line, short)
	fmt.Fprintf(b, "Print Name: %s\n\n", line)
	fmt.Fprintf(b, "Witness 1 Signature: %s Date: %s\n\n", line, short)
	fmt.Fprintf(b, "Print Name: %s\n\n", line)
	fmt.Fprintf(b, "Witness 2 Signature: %s Date: %s\n\n", line, short)
	fmt.Fprintf(b, "Print Name: %s\n\n", line)
}
