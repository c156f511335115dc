package analysis

// Verdict is derived from a result for the renderer; it is never stored.
type Verdict string

const (
	VerdictCritical  Verdict = "critical"
	VerdictModerate  Verdict = "moderate"
	VerdictCompliant Verdict = "compliant"
	VerdictLowRisk   Verdict = "low-risk"
)

// Classify maps the deviation onto the configured risk bands.
func Classify(deviation float64, p Policy) Verdict {
	if deviation > p.CriticalDeviation {
		return VerdictCritical
	}
	if p.Scheme == SchemeTwoTier {
		return VerdictLowRisk
	}
	if deviation > 0 {
		return VerdictModerate
	}
	return VerdictCompliant
}

func (v Verdict) Label() string {
	switch v {
	case VerdictCritical:
		return "CRITICAL RISK"
	case VerdictModerate:
		return "MODERATE RISK"
	case VerdictCompliant:
		return "COMPLIANT"
	case VerdictLowRisk:
		return "LOW RISK"
	}
	return ""
}

func (v Verdict) Description() string {
	switch v {
	case VerdictCritical:
		return "Serious indications of omitted income. Discrepancy above the technical margin."
	case VerdictModerate:
		return "Discrepancy detected within monitoring parameters."
	case VerdictCompliant:
		return "No discrepancies detected between the data sources."
	case VerdictLowRisk:
		return "Discrepancy, if any, is within the technical margin."
	}
	return ""
}
