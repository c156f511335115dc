package analysis

import "math"

// Counts is what the engine reads from the evidence store.
type Counts struct {
	Primary   int `json:"primary_ledger"`
	Invoice   int `json:"invoice"`
	Statement int `json:"bank_statement"`
}

// Result is replaced wholesale on every run.
type Result struct {
	GrossLedgerAmount float64 `json:"gross_ledger_amount"`
	ReportedAmount    float64 `json:"reported_amount"`
	Commission        float64 `json:"commission"`
	Discrepancy       float64 `json:"discrepancy"`
	DeviationPercent  float64 `json:"deviation_percent"`
	Quantum           float64 `json:"quantum"`
}

// Compute applies the policy to the counts. Pure.
func Compute(c Counts, p Policy) Result {
	r := p.Rates
	gross := float64(c.Primary) * r.Primary
	reported := float64(c.Invoice)*r.Invoice +
		float64(c.Primary)*r.PrimaryReported +
		float64(c.Statement)*r.Statement

	diff := reported - gross
	var discrepancy float64
	if p.Discrepancy == DiscrepancyAbsolute {
		discrepancy = math.Abs(diff)
	} else {
		discrepancy = math.Max(0, diff)
	}

	var deviation float64
	if gross > 0 {
		deviation = discrepancy / gross * 100
	}

	return Result{
		GrossLedgerAmount: gross,
		ReportedAmount:    reported,
		Commission:        reported * CommissionRate,
		Discrepancy:       discrepancy,
		DeviationPercent:  deviation,
		Quantum:           discrepancy * MonthsPerYear * ExtrapolationYears,
	}
}
