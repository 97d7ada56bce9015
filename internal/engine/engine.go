// Package engine runs drift checks on a bounded worker pool and resolves
// named monitor profiles, which can be hot-swapped on config reload.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/driftwatch/driftwatch/internal/config"
	"github.com/driftwatch/driftwatch/internal/correction"
	"github.com/driftwatch/driftwatch/internal/drift"
	"github.com/driftwatch/driftwatch/internal/feature"
	"github.com/driftwatch/driftwatch/internal/metrics"
	"github.com/driftwatch/driftwatch/internal/report"
	"github.com/driftwatch/driftwatch/internal/window"
)

// ErrQueueFull is returned when the check queue has no room; callers should
// treat it as backpressure rather than failure.
var ErrQueueFull = errors.New("check queue full")

// CheckRequest carries everything one drift check needs: the two windows and
// either a profile reference or an inline partition.
type CheckRequest struct {
	ID         string
	Baseline   *window.Window
	Comparison *window.Window

	// ProfileID selects a configured profile. When empty, the inline fields
	// below define the check.
	ProfileID string

	Partition   feature.Partition
	Alpha       float64 // 0 means drift.DefaultAlpha
	NumericTest drift.TestKind
	JSThreshold float64
}

// CheckResult is the outcome of one drift check.
type CheckResult struct {
	CheckID    string          `json:"check_id"`
	DurationMs int64           `json:"duration_ms"`
	Events     []drift.Event   `json:"events"`
	Skipped    []drift.Skip    `json:"skipped"`
	Summary    *report.Summary `json:"summary,omitempty"`
}

type checkWork struct {
	req     *CheckRequest
	resultC chan checkOutcome
}

type checkOutcome struct {
	res *CheckResult
	err error
}

// Engine processes check requests through the worker pool.
type Engine struct {
	profiles atomic.Pointer[profileSet]
	registry *drift.Registry
	pool     *workerPool[*checkWork]
	conf     *config.EngineConf
}

type profileSet struct {
	byID map[string]config.Profile
}

// New creates an Engine using conf and starts the worker pool.
func New(ctx context.Context, cfg *config.Config, reg *drift.Registry) *Engine {
	e := &Engine{
		registry: reg,
		conf:     &cfg.Engine,
	}
	e.SwapProfiles(cfg)

	e.pool = newWorkerPool[*checkWork](
		ctx,
		cfg.Engine.CheckWorkers,
		cfg.Engine.QueueDepth,
		func(ctx context.Context, w *checkWork) {
			res, err := e.processCheck(ctx, w.req)
			if w.resultC != nil {
				w.resultC <- checkOutcome{res: res, err: err}
			} else if err != nil {
				slog.Warn("async check failed", "check_id", w.req.ID, "err", err)
			}
		},
	)

	return e
}

// SwapProfiles atomically replaces the profile set (used on hot-reload).
func (e *Engine) SwapProfiles(cfg *config.Config) {
	ps := &profileSet{byID: make(map[string]config.Profile, len(cfg.Profiles))}
	for _, p := range cfg.Profiles {
		ps.byID[p.ID] = p
	}
	e.profiles.Store(ps)
}

// CheckSync runs a check synchronously and returns the result. A full queue
// or an expired timeout is reported as an error; check-level failures (schema
// mismatch, bad configuration) come back wrapped so callers can map them.
func (e *Engine) CheckSync(ctx context.Context, req *CheckRequest) (*CheckResult, error) {
	resultC := make(chan checkOutcome, 1)
	w := &checkWork{req: req, resultC: resultC}

	timeout := time.Duration(e.conf.CheckTimeoutMs) * time.Millisecond
	if !e.pool.Submit(w) {
		metrics.ChecksDropped.Inc()
		return nil, fmt.Errorf("%w (capacity %d)", ErrQueueFull, e.conf.QueueDepth)
	}
	metrics.ChecksEnqueued.Inc()

	select {
	case out := <-resultC:
		return out.res, out.err
	case <-time.After(timeout):
		return nil, fmt.Errorf("check timeout after %v", timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// CheckAsync enqueues a check for background processing. Returns false if the
// queue is full.
func (e *Engine) CheckAsync(req *CheckRequest) bool {
	w := &checkWork{req: req}
	if !e.pool.Submit(w) {
		metrics.ChecksDropped.Inc()
		return false
	}
	metrics.ChecksEnqueued.Inc()
	return true
}

// QueueUtilization returns queue used / capacity (0–1).
func (e *Engine) QueueUtilization() float64 {
	if e.pool.QueueCap() == 0 {
		return 0
	}
	return float64(e.pool.QueueLen()) / float64(e.pool.QueueCap())
}

func (e *Engine) processCheck(ctx context.Context, req *CheckRequest) (*CheckResult, error) {
	start := time.Now()

	monitor, err := e.buildMonitor(req)
	if err != nil {
		metrics.ChecksFailed.Inc()
		return nil, err
	}

	run, err := monitor.Run(ctx)
	if err != nil {
		metrics.ChecksFailed.Inc()
		return nil, err
	}
	summary, err := monitor.Summary()
	if err != nil {
		metrics.ChecksFailed.Inc()
		return nil, err
	}

	result := &CheckResult{
		CheckID:    req.ID,
		DurationMs: time.Since(start).Milliseconds(),
		Events:     run.Events,
		Skipped:    run.Skipped,
		Summary:    summary,
	}

	metrics.ChecksProcessed.Inc()
	for _, ev := range run.Events {
		metrics.DriftDetected.WithLabelValues(ev.Feature, string(ev.Test)).Inc()
	}
	for _, sk := range run.Skipped {
		metrics.FeaturesSkipped.WithLabelValues(sk.Feature).Inc()
	}

	return result, nil
}

func (e *Engine) buildMonitor(req *CheckRequest) (*drift.Monitor, error) {
	partition := req.Partition
	alpha := req.Alpha
	numericTest := req.NumericTest
	jsThreshold := req.JSThreshold

	if req.ProfileID != "" {
		ps := e.profiles.Load()
		p, ok := ps.byID[req.ProfileID]
		if !ok {
			return nil, fmt.Errorf("%w: unknown profile %q", correction.ErrInvalidConfiguration, req.ProfileID)
		}
		partition = feature.Partition{Numeric: p.NumericFeatures, Categorical: p.CategoricalFeatures}
		alpha = p.Alpha
		numericTest = drift.TestKind(p.NumericTest)
		jsThreshold = p.JSThreshold
	}

	if partition.Empty() {
		return nil, fmt.Errorf("%w: check %s has an empty feature partition", correction.ErrInvalidConfiguration, req.ID)
	}

	opts := []drift.Option{}
	if alpha != 0 {
		opts = append(opts, drift.WithAlpha(alpha))
	}
	if numericTest != "" && numericTest != drift.TestKS {
		cmp, err := e.registry.Get(numericTest)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", correction.ErrInvalidConfiguration, err)
		}
		if js, ok := cmp.(drift.JSComparator); ok && jsThreshold > 0 {
			js.DistanceThreshold = jsThreshold
			cmp = js
		}
		opts = append(opts, drift.WithNumericComparator(cmp))
	}

	return drift.NewMonitor(req.Baseline, req.Comparison, partition, opts...), nil
}

// Shutdown drains the pool gracefully.
func (e *Engine) Shutdown() {
	e.pool.Drain()
}
