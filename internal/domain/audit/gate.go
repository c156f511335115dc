package audit

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinNameLength is exclusive: a name must be longer than this.
const MinNameLength = 3

// Readiness breaks the gate down per condition.
type Readiness struct {
	HasName     bool `json:"has_name"`
	HasTaxID    bool `json:"has_tax_id"`
	HasEvidence bool `json:"has_evidence"`
	Ready       bool `json:"ready"`
}

type evidencePresence interface {
	HasAnyEvidence() bool
}

func CheckReadiness(p ClientProfile, store evidencePresence) Readiness {
	r := Readiness{
		HasName:     utf8.RuneCountInString(cleanName(p.Name)) > MinNameLength,
		HasTaxID:    ValidTaxID(p.TaxID),
		HasEvidence: store.HasAnyEvidence(),
	}
	r.Ready = r.HasName && r.HasTaxID && r.HasEvidence
	return r
}

// CanAnalyze is the boolean form of CheckReadiness.
func CanAnalyze(p ClientProfile, store evidencePresence) bool {
	return CheckReadiness(p, store).Ready
}

func cleanName(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
