package audit

import (
	"fmt"
	"strings"
)

// Category enum, satu per jenis dokumen yang diupload
type Category string

const (
	CategoryPrimaryLedger         Category = "primary-ledger"
	CategoryBankStatement         Category = "bank-statement"
	CategoryInvoice               Category = "invoice"
	CategoryThirdPartyDeclaration Category = "third-party-declaration"
)

// Categories returns the fixed category set in display order.
func Categories() []Category {
	return []Category{
		CategoryPrimaryLedger,
		CategoryBankStatement,
		CategoryInvoice,
		CategoryThirdPartyDeclaration,
	}
}

// short names used by the upload widgets
var categoryAliases = map[string]Category{
	"saft":       CategoryPrimaryLedger,
	"statements": CategoryBankStatement,
	"statement":  CategoryBankStatement,
	"invoices":   CategoryInvoice,
	"dac7":       CategoryThirdPartyDeclaration,
}

// ParseCategory accepts canonical names and the upload widget aliases.
func ParseCategory(s string) (Category, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories() {
		if n == string(c) {
			return c, nil
		}
	}
	if c, ok := categoryAliases[n]; ok {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Tag is the short upper-case label shown in the evidence listing.
func (c Category) Tag() string {
	switch c {
	case CategoryPrimaryLedger:
		return "SAFT"
	case CategoryBankStatement:
		return "STATEMENTS"
	case CategoryInvoice:
		return "INVOICES"
	case CategoryThirdPartyDeclaration:
		return "DAC7"
	}
	return strings.ToUpper(string(c))
}

// FileDescriptor is an uploaded file as seen by the core: content is never read.
type FileDescriptor struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

type fileKey struct {
	name string
	size int64
}

func (f FileDescriptor) key() fileKey { return fileKey{name: f.Name, size: f.Size} }

// Platform enum
type Platform string

const (
	PlatformBolt    Platform = "bolt"
	PlatformUber    Platform = "uber"
	PlatformFreeNow Platform = "freenow"
	PlatformOther   Platform = "other"
)

func ParsePlatform(s string) (Platform, error) {
	switch p := Platform(strings.ToLower(strings.TrimSpace(s))); p {
	case PlatformBolt, PlatformUber, PlatformFreeNow, PlatformOther:
		return p, nil
	}
	return "", fmt.Errorf("%w: platform %q", ErrInvalidProfile, s)
}

// Period enum (semester, kuartal atau tahunan)
type Period string

const (
	PeriodFirstHalf  Period = "1s"
	PeriodSecondHalf Period = "2s"
	PeriodAnnual     Period = "annual"
	PeriodQ1         Period = "q1"
	PeriodQ2         Period = "q2"
	PeriodQ3         Period = "q3"
	PeriodQ4         Period = "q4"
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodFirstHalf, PeriodSecondHalf, PeriodAnnual, PeriodQ1, PeriodQ2, PeriodQ3, PeriodQ4:
		return p, nil
	}
	return "", fmt.Errorf("%w: period %q", ErrInvalidProfile, s)
}

// ClientProfile is overwritten field by field, never deleted.
type ClientProfile struct {
	Name     string   `json:"name"`
	TaxID    string   `json:"tax_id"`
	Platform Platform `json:"platform"`
	Year     int      `json:"year"`
	Period   Period   `json:"period"`
}

// DefaultProfile mirrors the initial form state.
func DefaultProfile() ClientProfile {
	return ClientProfile{
		Platform: PlatformBolt,
		Year:     2026,
		Period:   PeriodSecondHalf,
	}
}
