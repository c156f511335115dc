package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/forensic-audit/internal/application"
	appaudit "github.com/bryanwahyu/forensic-audit/internal/application/audit"
	"github.com/bryanwahyu/forensic-audit/internal/domain/analysis"
	"github.com/bryanwahyu/forensic-audit/internal/infra/export"
	"github.com/bryanwahyu/forensic-audit/internal/middleware"
)

// gateSleeper blocks every run until release is closed.
type gateSleeper struct{ release chan struct{} }

func (g gateSleeper) Sleep(ctx context.Context, _ time.Duration) error {
	select {
	case <-g.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func newTestServer(t *testing.T, sleeper analysis.Sleeper) (*appaudit.Service, http.Handler) {
	t.Helper()
	svc := appaudit.NewService(appaudit.Options{
		Policy:   analysis.DefaultPolicy(),
		Delay:    time.Second,
		Sleeper:  sleeper,
		Exporter: export.NewXLSX(nil),
		Metrics:  middleware.NewMetrics(),
	}, nil)
	t.Cleanup(svc.Close)
	return svc, NewRouter(svc, Deps{})
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func makeReady(t *testing.T, h http.Handler) {
	t.Helper()
	rec := do(t, h, http.MethodPut, "/v1/profile", map[string]any{"name": "Maria Silva", "tax_id": "123456789"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = do(t, h, http.MethodPost, "/v1/evidence/primary-ledger", map[string]any{
		"files": []map[string]any{{"name": "saft-1.xml", "size": 100}, {"name": "saft-2.xml", "size": 200}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = do(t, h, http.MethodPost, "/v1/evidence/invoices", map[string]any{
		"files": []map[string]any{{"name": "a.pdf", "size": 1}, {"name": "b.pdf", "size": 2}, {"name": "c.pdf", "size": 3}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRouter_FullFlow(t *testing.T) {
	svc, h := newTestServer(t, application.NoSleep{})

	rec := do(t, h, http.MethodPost, "/v1/analysis", nil)
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)

	makeReady(t, h)

	var sess appaudit.SessionView
	decodeBody(t, do(t, h, http.MethodGet, "/v1/session", nil), &sess)
	assert.True(t, sess.Readiness.Ready)
	assert.Equal(t, "valid", sess.TaxID)
	assert.Len(t, sess.Session.Hash, 16)

	rec = do(t, h, http.MethodPost, "/v1/analysis", nil)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	svc.Wait()

	var view appaudit.AnalysisView
	decodeBody(t, do(t, h, http.MethodGet, "/v1/analysis", nil), &view)
	assert.Equal(t, analysis.StateDone, view.Status.State)
	require.NotNil(t, view.Report)
	assert.InDelta(t, 4291.60, view.Report.Result.GrossLedgerAmount, 1e-9)
	assert.InDelta(t, 7910.95, view.Report.Result.ReportedAmount, 1e-9)
	assert.Equal(t, analysis.VerdictCritical, view.Report.Verdict)

	rec = do(t, h, http.MethodGet, "/v1/evidence/export.xlsx", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), sess.Session.ID)
	assert.NotZero(t, rec.Body.Len())
}

func TestRouter_TriggerWhileRunning(t *testing.T) {
	gate := gateSleeper{release: make(chan struct{})}
	svc, h := newTestServer(t, gate)
	makeReady(t, h)

	require.Equal(t, http.StatusAccepted, do(t, h, http.MethodPost, "/v1/analysis", nil).Code)
	assert.Equal(t, http.StatusConflict, do(t, h, http.MethodPost, "/v1/analysis", nil).Code)

	var view appaudit.AnalysisView
	decodeBody(t, do(t, h, http.MethodGet, "/v1/analysis", nil), &view)
	assert.True(t, view.Busy)
	assert.Nil(t, view.Report)

	close(gate.release)
	svc.Wait()
	decodeBody(t, do(t, h, http.MethodGet, "/v1/analysis", nil), &view)
	assert.Equal(t, analysis.StateDone, view.Status.State)
}

func TestRouter_Upload(t *testing.T) {
	_, h := newTestServer(t, application.NoSleep{})

	tests := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{"ok", "/v1/evidence/bank-statement", map[string]any{"files": []map[string]any{{"name": "x.pdf", "size": 10}}}, http.StatusOK},
		{"unknown category", "/v1/evidence/receipts", map[string]any{"files": []map[string]any{{"name": "x.pdf", "size": 10}}}, http.StatusBadRequest},
		{"negative size", "/v1/evidence/invoice", map[string]any{"files": []map[string]any{{"name": "x.pdf", "size": -1}}}, http.StatusBadRequest},
		{"bad name", "/v1/evidence/invoice", map[string]any{"files": []map[string]any{{"name": "../x", "size": 1}}}, http.StatusBadRequest},
		{"unknown field", "/v1/evidence/invoice", map[string]any{"documents": []string{"x"}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}

	// duplicate re-upload is skipped
	rec := do(t, h, http.MethodPost, "/v1/evidence/statements", map[string]any{"files": []map[string]any{{"name": "x.pdf", "size": 10}}})
	require.Equal(t, http.StatusOK, rec.Code)
	var res appaudit.AddResult
	decodeBody(t, rec, &res)
	assert.Empty(t, res.Added)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Count)

	var list struct {
		Total int `json:"total"`
	}
	decodeBody(t, do(t, h, http.MethodGet, "/v1/evidence", nil), &list)
	assert.Equal(t, 1, list.Total)
}

func TestRouter_ProfileAndTaxID(t *testing.T) {
	_, h := newTestServer(t, application.NoSleep{})

	rec := do(t, h, http.MethodPut, "/v1/profile", map[string]any{"platform": "tesla"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h, http.MethodPut, "/v1/profile", map[string]any{"year": 1999})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/v1/profile", map[string]any{"tax_id": "123456780", "platform": "uber"})
	require.Equal(t, http.StatusOK, rec.Code)
	var view appaudit.SessionView
	decodeBody(t, rec, &view)
	assert.Equal(t, "invalid", view.TaxID)
	assert.False(t, view.Readiness.HasTaxID)

	var tax map[string]any
	decodeBody(t, do(t, h, http.MethodGet, "/v1/profile/tax-id/123456789", nil), &tax)
	assert.Equal(t, true, tax["valid"])
	decodeBody(t, do(t, h, http.MethodGet, "/v1/profile/tax-id/1234", nil), &tax)
	assert.Equal(t, "", tax["status"])
}

func TestRouter_ResetAndJournal(t *testing.T) {
	_, h := newTestServer(t, application.NoSleep{})
	makeReady(t, h)

	var before appaudit.SessionView
	decodeBody(t, do(t, h, http.MethodGet, "/v1/session", nil), &before)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/v1/session/reset", map[string]any{"confirm": false}).Code)

	rec := do(t, h, http.MethodPost, "/v1/session/reset", map[string]any{"confirm": true})
	require.Equal(t, http.StatusOK, rec.Code)
	var after appaudit.SessionView
	decodeBody(t, rec, &after)
	assert.NotEqual(t, before.Session.ID, after.Session.ID)
	assert.False(t, after.Readiness.Ready)
	for _, n := range after.Counts {
		assert.Zero(t, n)
	}

	var j struct {
		Entries []struct {
			Message string `json:"message"`
		} `json:"entries"`
		Total int `json:"total"`
	}
	decodeBody(t, do(t, h, http.MethodGet, "/v1/journal", nil), &j)
	require.Equal(t, 1, j.Total)
	assert.Contains(t, j.Entries[0].Message, after.Session.ID)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/v1/journal", nil).Code)
	decodeBody(t, do(t, h, http.MethodGet, "/v1/journal", nil), &j)
	assert.Zero(t, j.Total)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/v1/nope", nil).Code)
}

func TestRouter_Health(t *testing.T) {
	_, h := newTestServer(t, application.NoSleep{})
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", nil).Code)
	rec := do(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "requests_total")
}
