package audit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/bryanwahyu/forensic-audit/internal/application"
	"github.com/bryanwahyu/forensic-audit/internal/domain/analysis"
	domain "github.com/bryanwahyu/forensic-audit/internal/domain/audit"
	"github.com/bryanwahyu/forensic-audit/internal/domain/journal"
)

// Metrics receives analysis lifecycle counters.
type Metrics interface {
	AnalysisStarted()
	AnalysisFinished()
	AnalysisFailed()
}

// Options bundles the collaborators of the session controller.
type Options struct {
	Policy          analysis.Policy
	Delay           time.Duration
	Sleeper         analysis.Sleeper
	Clock           application.Clock
	JournalCapacity int
	JournalSinks    []journal.Sink
	ReportSinks     []analysis.ReportSink
	Narrator        analysis.Narrator
	NarrateTimeout  time.Duration
	Exporter        domain.DossierExporter
	Metrics         Metrics
}

// Service owns exactly one live session and is safe for concurrent use:
// every handler call is serialized on mu, the analysis delay runs outside it.
type Service struct {
	opts   Options
	logger *zap.Logger

	mu   sync.Mutex
	sess *session
	runs sync.WaitGroup
}

type session struct {
	info      domain.SessionContext
	profile   domain.ClientProfile
	store     *domain.EvidenceStore
	engine    *analysis.Engine
	journal   *journal.Journal
	readiness domain.Readiness
	report    *analysis.Report

	runCtx context.Context
	cancel context.CancelFunc
}

func NewService(opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = application.SystemClock{}
	}
	if opts.Sleeper == nil {
		opts.Sleeper = application.TimerSleeper{}
	}
	if opts.NarrateTimeout <= 0 {
		opts.NarrateTimeout = 30 * time.Second
	}
	s := &Service{opts: opts, logger: logger}
	s.sess = s.newSession()
	return s
}

func (s *Service) newSession() *session {
	id := domain.NewSessionID()
	runCtx, cancel := context.WithCancel(context.Background())
	ctx := runCtx

	sinks := append([]journal.Sink{zapSink{logger: s.logger}}, s.opts.JournalSinks...)
	j := journal.New(id, s.opts.JournalCapacity, s.opts.Clock.Now, sinks...)
	j.OnSinkError = func(err error) {
		s.logger.Warn("journal sink failed", zap.String("session_id", id), zap.Error(err))
	}

	sess := &session{
		info: domain.SessionContext{
			ID:        id,
			CreatedAt: s.opts.Clock.Now(),
		},
		profile: domain.DefaultProfile(),
		store:   domain.NewEvidenceStore(),
		journal: j,
		runCtx:  runCtx,
		cancel:  cancel,
	}
	sess.store.OnAdd = func(c domain.Category, f domain.FileDescriptor) {
		j.Add(ctx, journal.LevelSystem, fmt.Sprintf("EVIDENCE LOADED: %s (%s) [%s]", f.Name, humanSize(f.Size), c.Tag()))
	}

	eng := analysis.NewEngine(s.opts.Policy, s.opts.Delay, s.opts.Sleeper)
	eng.Now = s.opts.Clock.Now
	eng.OnProcessing = func(runID string) {
		j.Add(ctx, journal.LevelSystem, "RUNNING FORENSIC TRIANGULATION... run "+runID)
	}
	sess.engine = eng

	sess.refresh()
	j.Add(ctx, journal.LevelSystem, fmt.Sprintf("SESSION %s INITIALIZED.", id))
	return sess
}

// refresh recomputes the gate and the display hash after any mutation.
func (sess *session) refresh() {
	sess.readiness = domain.CheckReadiness(sess.profile, sess.store)
	sess.info.Hash = domain.DisplayHash(sess.info.ID, sess.store.Snapshot())
}

// SessionView is the state the front-end needs to render its form.
type SessionView struct {
	Session   domain.SessionContext   `json:"session"`
	Profile   domain.ClientProfile    `json:"profile"`
	TaxID     string                  `json:"tax_id_status"`
	Readiness domain.Readiness        `json:"readiness"`
	Counts    map[domain.Category]int `json:"counts"`
	State     analysis.State          `json:"analysis_state"`
}

func (s *Service) Session() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Service) viewLocked() SessionView {
	sess := s.sess
	return SessionView{
		Session:   sess.info,
		Profile:   sess.profile,
		TaxID:     domain.TaxIDStatus(sess.profile.TaxID),
		Readiness: sess.readiness,
		Counts:    sess.store.Counts(),
		State:     sess.engine.Status().State,
	}
}

// ProfileUpdate carries only the fields that changed.
type ProfileUpdate struct {
	Name     *string
	TaxID    *string
	Platform *string
	Year     *int
	Period   *string
}

// UpdateProfile overwrites the given fields. An invalid tax id is accepted
// and only gates the trigger; invalid enums are rejected.
func (s *Service) UpdateProfile(ctx context.Context, u ProfileUpdate) (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.sess.profile
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.TaxID != nil {
		p.TaxID = *u.TaxID
	}
	if u.Platform != nil {
		pl, err := domain.ParsePlatform(*u.Platform)
		if err != nil {
			return SessionView{}, err
		}
		p.Platform = pl
	}
	if u.Year != nil {
		if *u.Year < 2000 || *u.Year > 2100 {
			return SessionView{}, application.InvalidInput("year %d out of range", *u.Year)
		}
		p.Year = *u.Year
	}
	if u.Period != nil {
		pe, err := domain.ParsePeriod(*u.Period)
		if err != nil {
			return SessionView{}, err
		}
		p.Period = pe
	}

	s.sess.profile = p
	s.sess.refresh()
	return s.viewLocked(), nil
}

// AddResult reports what an upload changed.
type AddResult struct {
	Category domain.Category         `json:"category"`
	Added    []domain.FileDescriptor `json:"added"`
	Skipped  int                     `json:"skipped"`
	Count    int                     `json:"count"`
	Hash     string                  `json:"hash"`
}

func (s *Service) AddEvidence(ctx context.Context, category string, files []domain.FileDescriptor) (AddResult, error) {
	c, err := domain.ParseCategory(category)
	if err != nil {
		return AddResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added, err := s.sess.store.Add(c, files)
	if err != nil {
		return AddResult{}, err
	}
	s.sess.refresh()
	return AddResult{
		Category: c,
		Added:    added,
		Skipped:  len(files) - len(added),
		Count:    s.sess.store.CountOf(c),
		Hash:     s.sess.info.Hash,
	}, nil
}

func (s *Service) Evidence() []domain.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.store.Inventory()
}

// Trigger starts an analysis in the background and returns its run id.
func (s *Service) Trigger(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sess
	if !sess.readiness.Ready {
		return "", notReadyError(sess.readiness)
	}
	runID, err := sess.engine.Begin()
	if err != nil {
		return "", err
	}
	if s.opts.Metrics != nil {
		s.opts.Metrics.AnalysisStarted()
	}

	s.runs.Add(1)
	go func() {
		defer s.runs.Done()
		s.complete(sess, runID)
	}()
	return runID, nil
}

// notReadyError names the unmet conditions.
func notReadyError(r domain.Readiness) error {
	var missing []string
	if !r.HasName {
		missing = append(missing, "client name")
	}
	if !r.HasTaxID {
		missing = append(missing, "valid tax id")
	}
	if !r.HasEvidence {
		missing = append(missing, "evidence")
	}
	return fmt.Errorf("%w: missing %v", application.ErrNotReady, missing)
}

// complete keeps the engine RUNNING through report assembly and narration;
// the report and the DONE state become visible together under mu.
func (s *Service) complete(sess *session, runID string) {
	ctx := sess.runCtx
	res, counts, err := sess.engine.Settle(ctx, runID, sessionCounter{svc: s, sess: sess})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, analysis.ErrStaleRun) || errors.Is(err, application.ErrSessionReset) {
			s.discard(sess, runID)
			return
		}
		if s.opts.Metrics != nil {
			s.opts.Metrics.AnalysisFailed()
		}
		sess.journal.Add(ctx, journal.LevelError, "CRITICAL ERROR IN ANALYSIS ENGINE: "+err.Error())
		return
	}

	report := analysis.NewReport(sess.info.ID, runID, counts, res, s.opts.Policy)
	if text, nerr := s.narrate(ctx, report); nerr != nil {
		s.logger.Warn("narrative failed", zap.String("run_id", runID), zap.Error(nerr))
	} else {
		report.Narrative = text
	}

	s.mu.Lock()
	published := false
	if s.sess == sess {
		if st, ok := sess.engine.Publish(runID, counts, res); ok {
			report.GeneratedAt = st.FinishedAt
			sess.report = &report
			published = true
		}
	}
	s.mu.Unlock()
	if !published {
		s.discard(sess, runID)
		return
	}

	if s.opts.Metrics != nil {
		s.opts.Metrics.AnalysisFinished()
	}
	sess.journal.Add(ctx, journal.LevelSuccess, "ANALYSIS COMPLETE. DISCREPANCY REPORT GENERATED.")

	for _, sink := range s.opts.ReportSinks {
		if err := sink.StoreReport(ctx, report); err != nil {
			s.logger.Warn("report sink failed", zap.String("run_id", runID), zap.Error(err))
		}
	}
}

// narrate is optional: no narrator means an empty text, a panic is an error.
func (s *Service) narrate(ctx context.Context, report analysis.Report) (text string, err error) {
	if s.opts.Narrator == nil {
		return "", nil
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("narrator panic: %v", p)
		}
	}()
	nctx, cancel := context.WithTimeout(ctx, s.opts.NarrateTimeout)
	defer cancel()
	return s.opts.Narrator.Narrate(nctx, report)
}

// discard drops a run whose session was reset. Metrics count it as failed.
func (s *Service) discard(sess *session, runID string) {
	if s.opts.Metrics != nil {
		s.opts.Metrics.AnalysisFailed()
	}
	s.logger.Info("analysis discarded", zap.String("session_id", sess.info.ID), zap.String("run_id", runID))
}

// AnalysisView is the report surface: engine state plus the last report.
type AnalysisView struct {
	Status analysis.Status  `json:"status"`
	Busy   bool             `json:"busy"`
	Report *analysis.Report `json:"report,omitempty"`
}

func (s *Service) Analysis() AnalysisView {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.sess.engine.Status()
	return AnalysisView{Status: st, Busy: st.State == analysis.StateRunning, Report: s.sess.currentReport(st)}
}

// currentReport only belongs to a DONE engine; a new run hides the old one.
func (sess *session) currentReport(st analysis.Status) *analysis.Report {
	if st.State != analysis.StateDone || sess.report == nil || sess.report.RunID != st.RunID {
		return nil
	}
	r := *sess.report
	return &r
}

// Report returns the latest finished report.
func (s *Service) Report() (analysis.Report, error) {
	v := s.Analysis()
	if v.Report == nil {
		return analysis.Report{}, application.ErrNoResult
	}
	return *v.Report, nil
}

// Wait blocks until every background analysis has returned.
func (s *Service) Wait() { s.runs.Wait() }

// Reset discards the whole session, cancelling any run in flight.
func (s *Service) Reset() domain.SessionContext {
	s.mu.Lock()
	old := s.sess
	old.cancel()
	s.sess = s.newSession()
	sc := s.sess.info
	s.mu.Unlock()

	s.logger.Info("session reset", zap.String("old_session_id", old.info.ID), zap.String("session_id", sc.ID))
	return sc
}

// Close cancels the live session and waits for its runs.
func (s *Service) Close() {
	s.mu.Lock()
	s.sess.cancel()
	s.mu.Unlock()
	s.Wait()
}

func (s *Service) Journal() []journal.Entry {
	s.mu.Lock()
	j := s.sess.journal
	s.mu.Unlock()
	return j.Entries()
}

func (s *Service) ClearJournal() {
	s.mu.Lock()
	j := s.sess.journal
	s.mu.Unlock()
	j.Clear()
}

// Export renders the session dossier with the configured exporter.
func (s *Service) Export(ctx context.Context) ([]byte, string, error) {
	if s.opts.Exporter == nil {
		return nil, "", errors.New("no exporter configured")
	}
	s.mu.Lock()
	d := domain.Dossier{
		Session:   s.sess.info,
		Profile:   s.sess.profile,
		Inventory: s.sess.store.Inventory(),
		Report:    s.sess.currentReport(s.sess.engine.Status()),
	}
	s.mu.Unlock()

	b, err := s.opts.Exporter.ExportDossier(ctx, d)
	if err != nil {
		return nil, "", fmt.Errorf("export dossier: %w", err)
	}
	return b, s.opts.Exporter.ContentType(), nil
}

// sessionCounter gives the engine locked, session-checked access to the store.
type sessionCounter struct {
	svc  *Service
	sess *session
}

func (c sessionCounter) AnalysisCounts(ctx context.Context) (analysis.Counts, error) {
	c.svc.mu.Lock()
	defer c.svc.mu.Unlock()
	if c.svc.sess != c.sess {
		return analysis.Counts{}, application.ErrSessionReset
	}
	st := c.sess.store
	return analysis.Counts{
		Primary:   st.CountOf(domain.CategoryPrimaryLedger),
		Invoice:   st.CountOf(domain.CategoryInvoice),
		Statement: st.CountOf(domain.CategoryBankStatement),
	}, nil
}

func humanSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}
