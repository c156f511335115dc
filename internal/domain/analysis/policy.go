package analysis

import (
	"fmt"
	"strings"
)

// Rates are the per-document unit values of the formula.
type Rates struct {
	Primary         float64 `yaml:"primary" json:"primary"`                  // ledger amount per primary-ledger file
	Invoice         float64 `yaml:"invoice" json:"invoice"`                  // reported amount per invoice
	PrimaryReported float64 `yaml:"primaryReported" json:"primary_reported"` // reported amount per primary-ledger file
	Statement       float64 `yaml:"statement" json:"statement"`              // reported amount per bank statement
}

// rate table presets
var presets = map[string]Rates{
	"default": {Primary: 2145.80, Invoice: 1050.25, PrimaryReported: 2380.10},
	"v12.7":   {Primary: 1845.50, Invoice: 950.00, PrimaryReported: 2150.75},
}

// PresetRates looks up a named rate table.
func PresetRates(name string) (Rates, error) {
	if name == "" {
		name = "default"
	}
	r, ok := presets[strings.ToLower(name)]
	if !ok {
		return Rates{}, fmt.Errorf("unknown rate preset %q", name)
	}
	return r, nil
}

// DiscrepancyMode decides what happens when reported < gross.
type DiscrepancyMode string

const (
	DiscrepancyClamp    DiscrepancyMode = "clamp"
	DiscrepancyAbsolute DiscrepancyMode = "absolute"
)

// VerdictScheme selects the risk bands.
type VerdictScheme string

const (
	SchemeThreeTier VerdictScheme = "three-tier"
	SchemeTwoTier   VerdictScheme = "two-tier"
)

const (
	CommissionRate           = 0.25
	MonthsPerYear            = 12
	ExtrapolationYears       = 7
	DefaultCriticalDeviation = 15.0
)

// Policy groups every business rule that is still open for product clarification.
type Policy struct {
	Rates             Rates
	Discrepancy       DiscrepancyMode
	Scheme            VerdictScheme
	CriticalDeviation float64
}

func DefaultPolicy() Policy {
	r, _ := PresetRates("default")
	return Policy{
		Rates:             r,
		Discrepancy:       DiscrepancyClamp,
		Scheme:            SchemeThreeTier,
		CriticalDeviation: DefaultCriticalDeviation,
	}
}

func (p Policy) Validate() error {
	switch p.Discrepancy {
	case DiscrepancyClamp, DiscrepancyAbsolute:
	default:
		return fmt.Errorf("invalid discrepancy mode %q (allowed: clamp, absolute)", p.Discrepancy)
	}
	switch p.Scheme {
	case SchemeThreeTier, SchemeTwoTier:
	default:
		return fmt.Errorf("invalid verdict scheme %q (allowed: three-tier, two-tier)", p.Scheme)
	}
	if p.CriticalDeviation < 0 {
		return fmt.Errorf("critical deviation must not be negative")
	}
	r := p.Rates
	if r.Primary < 0 || r.Invoice < 0 || r.PrimaryReported < 0 || r.Statement < 0 {
		return fmt.Errorf("rates must not be negative")
	}
	return nil
}
