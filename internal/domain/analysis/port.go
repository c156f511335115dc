package analysis

import (
	"context"
	"time"
)

// EvidenceCounter is the engine's read access to the evidence store.
type EvidenceCounter interface {
	AnalysisCounts(ctx context.Context) (Counts, error)
}

// Sleeper models the extraction latency so tests can skip it.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// Narrator drafts a free-text commentary for a finished report.
type Narrator interface {
	Narrate(ctx context.Context, r Report) (string, error)
}

// ReportSink receives every finished report (archive, database).
type ReportSink interface {
	StoreReport(ctx context.Context, r Report) error
}
