package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/forensic-audit/internal/domain/analysis"
	"github.com/bryanwahyu/forensic-audit/internal/domain/journal"
)

func openTestDB(t *testing.T) (*JournalRepository, *ReportRepository) {
	t.Helper()
	ctx := context.Background()
	db, err := Connect(ctx, "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, EnsureSchema(ctx, db))
	// second call must be a no-op
	require.NoError(t, EnsureSchema(ctx, db))
	return NewJournalRepository(db), NewReportRepository(db)
}

func TestJournalRepository(t *testing.T) {
	ctx := context.Background()
	jr, _ := openTestDB(t)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []journal.Entry{
		{ID: "e1", SessionID: "VDC-AAAAAAAAA", Level: journal.LevelSystem, Message: "SESSION INITIALIZED.", Time: base},
		{ID: "e2", SessionID: "VDC-AAAAAAAAA", Level: journal.LevelSuccess, Message: "ANALYSIS COMPLETE.", Time: base.Add(time.Second)},
		{ID: "e3", SessionID: "VDC-BBBBBBBBB", Level: journal.LevelSystem, Message: "other session", Time: base},
	}
	for _, e := range entries {
		require.NoError(t, jr.Append(ctx, e))
	}
	// duplicate id is ignored
	require.NoError(t, jr.Append(ctx, entries[0]))

	got, err := jr.ListBySession(ctx, "VDC-AAAAAAAAA", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "e2", got[0].ID)
	assert.Equal(t, journal.LevelSuccess, got[0].Level)
	assert.True(t, got[0].Time.Equal(base.Add(time.Second)))
	assert.Equal(t, "e1", got[1].ID)
}

func TestJournalRepository_EmptyMessageStoredAsDash(t *testing.T) {
	ctx := context.Background()
	jr, _ := openTestDB(t)

	require.NoError(t, jr.Append(ctx, journal.Entry{ID: "x", SessionID: "VDC-CCCCCCCCC", Level: journal.LevelWarn}))
	got, err := jr.ListBySession(ctx, "VDC-CCCCCCCCC", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "-", got[0].Message)
}

func TestReportRepository(t *testing.T) {
	ctx := context.Background()
	_, rr := openTestDB(t)

	none, err := rr.LatestBySession(ctx, "VDC-AAAAAAAAA")
	require.NoError(t, err)
	assert.Nil(t, none)

	rep := analysis.Report{
		SessionID:   "VDC-AAAAAAAAA",
		RunID:       "run-1",
		State:       analysis.StateDone,
		Result:      analysis.Result{GrossLedgerAmount: 100, ReportedAmount: 150, Discrepancy: 50, DeviationPercent: 50, Quantum: 4200},
		Verdict:     analysis.VerdictCritical,
		GeneratedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, rr.StoreReport(ctx, rep))

	// upsert on the same run id
	rep.Verdict = analysis.VerdictModerate
	require.NoError(t, rr.StoreReport(ctx, rep))

	got, err := rr.LatestBySession(ctx, "VDC-AAAAAAAAA")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, analysis.VerdictModerate, got.Verdict)
	assert.Equal(t, 4200.0, got.Result.Quantum)
}
