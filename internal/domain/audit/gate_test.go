package audit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type presence bool

func (p presence) HasAnyEvidence() bool { return bool(p) }

func TestCheckReadiness(t *testing.T) {
	tests := []struct {
		name     string
		profile  ClientProfile
		evidence bool
		want     Readiness
	}{
		{"all met", ClientProfile{Name: "Ana Lima", TaxID: "123456789"}, true,
			Readiness{HasName: true, HasTaxID: true, HasEvidence: true, Ready: true}},
		{"name of exactly 3", ClientProfile{Name: "Ana", TaxID: "123456789"}, true,
			Readiness{HasName: false, HasTaxID: true, HasEvidence: true}},
		{"name of 4", ClientProfile{Name: "Anna", TaxID: "123456789"}, true,
			Readiness{HasName: true, HasTaxID: true, HasEvidence: true, Ready: true}},
		{"multibyte name counts runes", ClientProfile{Name: "Zoë", TaxID: "123456789"}, true,
			Readiness{HasName: false, HasTaxID: true, HasEvidence: true}},
		{"control chars ignored", ClientProfile{Name: "Ana\x00\x07", TaxID: "123456789"}, true,
			Readiness{HasName: false, HasTaxID: true, HasEvidence: true}},
		{"invalid tax id", ClientProfile{Name: "Ana Lima", TaxID: "123456780"}, true,
			Readiness{HasName: true, HasTaxID: false, HasEvidence: true}},
		{"no evidence", ClientProfile{Name: "Ana Lima", TaxID: "123456789"}, false,
			Readiness{HasName: true, HasTaxID: true, HasEvidence: false}},
		{"nothing", ClientProfile{}, false, Readiness{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckReadiness(tt.profile, presence(tt.evidence))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Ready, CanAnalyze(tt.profile, presence(tt.evidence)))
		})
	}
}

func TestCanAnalyze_WithStore(t *testing.T) {
	s := NewEvidenceStore()
	p := ClientProfile{Name: strings.Repeat("x", 10), TaxID: "123456789"}
	assert.False(t, CanAnalyze(p, s))
	_, _ = s.Add(CategoryBankStatement, []FileDescriptor{{Name: "b.pdf", Size: 3}})
	assert.True(t, CanAnalyze(p, s))
}
