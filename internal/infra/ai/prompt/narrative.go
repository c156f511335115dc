package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bryanwahyu/forensic-audit/internal/domain/analysis"
)

// GetSystemPrompt provides strict directions and schema for JSON output.
func GetSystemPrompt() string {
	return `You are a forensic tax auditor writing the commentary block of a discrepancy report. You must produce one valid JSON object only (no markdown, no commentary outside the object). Do not include code fences.

Requirements:
- Base every statement on the figures given; do not invent amounts.
- The figures are estimates derived from document counts, say so when relevant.
- Keep "summary" under 80 words and "recommendation" under 50 words.

Schema:
{
  "summary": "<string>",
  "recommendation": "<string>"
}`
}

// GetUserPrompt builds a compact user message around the report figures.
func GetUserPrompt(r analysis.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Verdict: %s\n", r.VerdictLabel)
	fmt.Fprintf(&b, "Documents: primary ledger=%d, invoices=%d, bank statements=%d\n",
		r.Counts.Primary, r.Counts.Invoice, r.Counts.Statement)
	fmt.Fprintf(&b, "Gross ledger amount: %.2f EUR\n", r.Result.GrossLedgerAmount)
	fmt.Fprintf(&b, "Platform-reported amount: %.2f EUR\n", r.Result.ReportedAmount)
	fmt.Fprintf(&b, "Commission: %.2f EUR\n", r.Result.Commission)
	fmt.Fprintf(&b, "Discrepancy: %.2f EUR (%.2f%%)\n", r.Result.Discrepancy, r.Result.DeviationPercent)
	fmt.Fprintf(&b, "Seven-year quantum: %.2f EUR\n", r.Result.Quantum)
	b.WriteString("Write the commentary JSON per schema.")
	return b.String()
}

// Narrative matches the schema used by the system prompt.
type Narrative struct {
	Summary        string `json:"summary"`
	Recommendation string `json:"recommendation"`
}

// ParseNarrative turns the model output into display text. Output that is
// not the expected JSON is returned trimmed as-is.
func ParseNarrative(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var n Narrative
	if err := json.Unmarshal([]byte(raw), &n); err != nil || n.Summary == "" {
		return raw
	}
	if n.Recommendation == "" {
		return n.Summary
	}
	return n.Summary + "\n\n" + n.Recommendation
}
