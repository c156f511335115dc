package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State enum
type State string

const (
	StateIdle    State = "IDLE"
	StateRunning State = "RUNNING"
	StateDone    State = "DONE"
	StateFailed  State = "FAILED"
)

var (
	// ErrAnalysisRunning is returned when a run is already in flight.
	ErrAnalysisRunning = errors.New("analysis already running")
	// ErrStaleRun is returned by Complete for a run that is no longer current.
	ErrStaleRun = errors.New("analysis run is no longer current")
)

// Status is a point-in-time view of the engine.
type Status struct {
	State      State     `json:"state"`
	RunID      string    `json:"run_id,omitempty"`
	Counts     Counts    `json:"counts"`
	Result     *Result   `json:"result,omitempty"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at,omitempty"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

// Engine runs at most one analysis at a time.
type Engine struct {
	Policy  Policy
	Delay   time.Duration
	Sleeper Sleeper
	Now     func() time.Time

	// OnProcessing is the "processing" signal, fired when a run starts.
	OnProcessing func(runID string)

	mu     sync.Mutex
	status Status
}

func NewEngine(p Policy, delay time.Duration, sleeper Sleeper) *Engine {
	return &Engine{
		Policy:  p,
		Delay:   delay,
		Sleeper: sleeper,
		Now:     time.Now,
		status:  Status{State: StateIdle},
	}
}

func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.status
	if st.Result != nil {
		r := *st.Result
		st.Result = &r
	}
	return st
}

// Begin moves the engine to RUNNING and returns the new run id. DONE and
// FAILED pass through IDLE first; RUNNING refuses.
func (e *Engine) Begin() (string, error) {
	e.mu.Lock()
	if e.status.State == StateRunning {
		e.mu.Unlock()
		return "", ErrAnalysisRunning
	}
	// outcome lama dibuang di sini (DONE/FAILED -> IDLE -> RUNNING)
	runID := uuid.New().String()
	e.status = Status{
		State:     StateRunning,
		RunID:     runID,
		StartedAt: e.Now(),
	}
	hook := e.OnProcessing
	e.mu.Unlock()

	if hook != nil {
		hook(runID)
	}
	return runID, nil
}

// Complete waits for the simulated latency, reads the counts and publishes
// the result. Any error or panic while reading leaves the engine FAILED.
func (e *Engine) Complete(ctx context.Context, runID string, counter EvidenceCounter) (Result, error) {
	res, counts, err := e.Settle(ctx, runID, counter)
	if err != nil {
		return Result{}, err
	}
	if _, ok := e.Publish(runID, counts, res); !ok {
		return Result{}, ErrStaleRun
	}
	return res, nil
}

// Settle computes the result of runID but keeps the engine RUNNING, so the
// caller can finish its own work (report, narrative) before Publish. On error
// the run is already closed: IDLE when the wait was cancelled, FAILED otherwise.
func (e *Engine) Settle(ctx context.Context, runID string, counter EvidenceCounter) (res Result, counts Counts, err error) {
	if err := e.sleep(ctx); err != nil {
		e.finish(runID, nil, Counts{}, err, StateIdle)
		return Result{}, Counts{}, err
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("analysis engine panic: %v", p)
			e.finish(runID, nil, Counts{}, err, StateFailed)
		}
	}()

	counts, err = counter.AnalysisCounts(ctx)
	if err != nil {
		err = fmt.Errorf("read evidence counts: %w", err)
		e.finish(runID, nil, Counts{}, err, StateFailed)
		return Result{}, Counts{}, err
	}
	if !e.current(runID) {
		return Result{}, Counts{}, ErrStaleRun
	}
	return Compute(counts, e.Policy), counts, nil
}

// Publish moves a settled run to DONE. False when runID is no longer the
// running one.
func (e *Engine) Publish(runID string, counts Counts, res Result) (Status, bool) {
	if !e.finish(runID, &res, counts, nil, StateDone) {
		return Status{}, false
	}
	return e.Status(), true
}

func (e *Engine) current(runID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status.RunID == runID && e.status.State == StateRunning
}

// Run is Begin followed by Complete on the caller's goroutine.
func (e *Engine) Run(ctx context.Context, counter EvidenceCounter) (Result, error) {
	runID, err := e.Begin()
	if err != nil {
		return Result{}, err
	}
	return e.Complete(ctx, runID, counter)
}

func (e *Engine) sleep(ctx context.Context) error {
	if e.Delay <= 0 || e.Sleeper == nil {
		return ctx.Err()
	}
	return e.Sleeper.Sleep(ctx, e.Delay)
}

func (e *Engine) finish(runID string, res *Result, c Counts, err error, next State) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status.RunID != runID || e.status.State != StateRunning {
		return false
	}
	e.status.State = next
	e.status.Counts = c
	e.status.Result = res
	e.status.FinishedAt = e.Now()
	if err != nil {
		e.status.Error = err.Error()
	}
	return true
}
