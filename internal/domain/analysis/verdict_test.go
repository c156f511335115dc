package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	three := DefaultPolicy()
	two := DefaultPolicy()
	two.Scheme = SchemeTwoTier

	tests := []struct {
		name      string
		deviation float64
		three     Verdict
		two       Verdict
	}{
		{"zero", 0, VerdictCompliant, VerdictLowRisk},
		{"tiny", 0.01, VerdictModerate, VerdictLowRisk},
		{"at threshold", 15, VerdictModerate, VerdictLowRisk},
		{"just above", 15.0001, VerdictCritical, VerdictCritical},
		{"large", 84.3, VerdictCritical, VerdictCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.three, Classify(tt.deviation, three))
			assert.Equal(t, tt.two, Classify(tt.deviation, two))
		})
	}

	custom := DefaultPolicy()
	custom.CriticalDeviation = 5
	assert.Equal(t, VerdictCritical, Classify(6, custom))
}

func TestVerdictTexts(t *testing.T) {
	for _, v := range []Verdict{VerdictCritical, VerdictModerate, VerdictCompliant, VerdictLowRisk} {
		assert.NotEmpty(t, v.Label(), v)
		assert.NotEmpty(t, v.Description(), v)
	}
	assert.Equal(t, "CRITICAL RISK", VerdictCritical.Label())
	assert.Empty(t, Verdict("unknown").Label())
}

func TestChart(t *testing.T) {
	c := Chart(Result{GrossLedgerAmount: 4000, ReportedAmount: 8000})
	assert.Equal(t, []string{"Month 1", "Month 2", "Month 3", "Month 4"}, c.Labels)
	assert.InDeltaSlice(t, []float64{800, 1200, 1000, 1100}, c.Ledger, eps)
	assert.InDeltaSlice(t, []float64{1800, 2200, 2000, 2100}, c.Reported, eps)

	zero := Chart(Result{})
	assert.Equal(t, []float64{0, 0, 0, 0}, zero.Ledger)
	assert.Equal(t, []float64{0, 0, 0, 0}, zero.Reported)
}

func TestNewReport(t *testing.T) {
	p := DefaultPolicy()
	c := Counts{Primary: 2, Invoice: 3}
	rep := NewReport("VDC-AAAAAAAAA", "r1", c, Compute(c, p), p)
	assert.Equal(t, "r1", rep.RunID)
	assert.Equal(t, StateDone, rep.State)
	assert.Equal(t, c, rep.Counts)
	assert.Equal(t, VerdictCritical, rep.Verdict)
	assert.Equal(t, VerdictCritical.Description(), rep.Description)
	assert.Len(t, rep.Chart.Ledger, 4)
}
