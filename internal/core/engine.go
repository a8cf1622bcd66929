package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// CycleResult reports how one refresh cycle settled.
type CycleResult struct {
	Seq          uint64
	Started      time.Time
	Skipped      bool // no metering point configured, nothing fetched
	AllSucceeded bool
	Succeeded    int
	Failed       int
}

// Engine runs refresh cycles against a DataSource and merges the results
// into the dashboard State. One cycle fans out independent fetches; a slow
// or failing branch never blocks or corrupts its siblings.
type Engine struct {
	source   DataSource
	state    *State
	interval time.Duration
	timeout  time.Duration
	seq      atomic.Uint64

	mu       sync.RWMutex
	now      func() time.Time
	onUpdate func(Snapshot)
	onCycle  func(CycleResult)
}

func NewEngine(source DataSource, state *State) *Engine {
	return &Engine{
		source:  source,
		state:   state,
		timeout: 30 * time.Second,
		now:     time.Now,
	}
}

// SetNowFunc overrides the clock; used by tests to pin window boundaries.
func (e *Engine) SetNowFunc(fn func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = fn
}

// OnUpdate registers a callback invoked with a fresh snapshot after every
// committed mutation, so the presentation layer can repaint per branch.
func (e *Engine) OnUpdate(fn func(Snapshot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onUpdate = fn
}

// OnCycle registers a callback invoked once per settled cycle.
func (e *Engine) OnCycle(fn func(CycleResult)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onCycle = fn
}

func (e *Engine) clock() func() time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.now
}

func (e *Engine) notify() {
	e.mu.RLock()
	fn := e.onUpdate
	e.mu.RUnlock()
	if fn != nil {
		fn(e.state.Snapshot())
	}
}

// CheckHealth probes the backend and records its version and reachability.
func (e *Engine) CheckHealth(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	h, err := e.source.Health(ctx)
	if err != nil {
		e.state.SetConnection(ConnectionError)
		e.notify()
		return fmt.Errorf("health check: %w", err)
	}
	e.state.SetServerVersion(h.Version)
	e.state.SetConnection(ConnectionConnected)
	e.notify()
	return nil
}

// LoadConfig fetches the backend configuration into the state and pins the
// refresh interval for the session. Called once at startup; the interval is
// deliberately not re-read afterwards.
func (e *Engine) LoadConfig(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cfg, err := e.source.FetchConfig(ctx)
	if err != nil {
		e.state.SetConnection(ConnectionError)
		e.notify()
		return fmt.Errorf("load config: %w", err)
	}
	e.state.SetConfig(cfg)

	e.mu.Lock()
	if e.interval <= 0 {
		e.interval = cfg.RefreshInterval()
	}
	e.mu.Unlock()

	e.notify()
	return nil
}

// SetInterval overrides the refresh interval before Run starts; later calls
// have no effect on a running loop.
func (e *Engine) SetInterval(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.interval = d
}

// Interval returns the pinned refresh interval.
func (e *Engine) Interval() time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.interval <= 0 {
		return defaultRefreshInterval
	}
	return e.interval
}

// isNoRegister reports whether an error means "the meter has no such
// register" rather than a transport or server fault. The backend answers
// 4xx when a consumption-only meter is asked for production data.
func isNoRegister(err error) bool {
	var se StatusError
	if errors.As(err, &se) {
		status := se.HTTPStatus()
		return status >= http.StatusBadRequest && status < http.StatusInternalServerError
	}
	return false
}

// RunCycle executes one refresh cycle: four aggregated headline fetches and
// one raw-series fetch, all concurrent, each applied to the state as it
// completes. Completion order across branches is unspecified.
func (e *Engine) RunCycle(ctx context.Context) CycleResult {
	seq := e.seq.Add(1)
	now := e.clock()()
	result := CycleResult{Seq: seq, Started: now}

	snap := e.state.Snapshot()
	meteringPoint, ok := snap.Config.PrimaryMeteringPoint()
	if !ok {
		e.state.SetData(DataWarning, "no metering point configured")
		e.notify()
		result.Skipped = true
		e.finishCycle(result)
		return result
	}

	dayWindow := ResolveWindow(PeriodDay, now)
	weekWindow := ResolveWindow(PeriodWeek, now)
	monthWindow := ResolveWindow(PeriodMonth, now)
	variableRate := snap.Config.VariableRate()

	type branch struct {
		name string
		run  func(ctx context.Context) error
	}

	headlineTotal := func(w Window, obis string, apply func(total float64)) func(ctx context.Context) error {
		return func(ctx context.Context) error {
			points, err := e.source.AggregatedSeries(ctx, meteringPoint, obis, w.Infinite())
			if err != nil {
				return err
			}
			// An empty result set is a valid zero, not a failure.
			total := 0.0
			if len(points) > 0 {
				total = points[0].Value
			}
			apply(total)
			return nil
		}
	}

	branches := []branch{
		{
			name: "yesterday consumption",
			run: headlineTotal(dayWindow, ObisConsumption, func(total float64) {
				e.state.SetHeadline(seq, HeadlineYesterday, Headline{Value: total, Known: true, Applicable: true})
			}),
		},
		{
			name: "7-day consumption",
			run: headlineTotal(weekWindow, ObisConsumption, func(total float64) {
				e.state.SetHeadline(seq, HeadlineWeek, Headline{Value: total, Known: true, Applicable: true})
			}),
		},
		{
			name: "30-day consumption",
			run: headlineTotal(monthWindow, ObisConsumption, func(total float64) {
				e.state.SetHeadline(seq, HeadlineMonth, Headline{Value: total, Known: true, Applicable: true})
				// Client-side estimate only; the authoritative figure comes
				// from the invoice endpoint.
				e.state.SetHeadline(seq, HeadlineEstimatedCost, Headline{Value: total * variableRate, Known: true, Applicable: true})
			}),
		},
		{
			name: "yesterday production",
			run: func(ctx context.Context) error {
				points, err := e.source.AggregatedSeries(ctx, meteringPoint, ObisProduction, dayWindow.Infinite())
				if err != nil {
					if isNoRegister(err) {
						e.state.SetHeadline(seq, HeadlineProduction, Headline{Known: true, Applicable: false})
						return nil
					}
					return err
				}
				total := 0.0
				if len(points) > 0 {
					total = points[0].Value
				}
				e.state.SetHeadline(seq, HeadlineProduction, Headline{Value: total, Known: true, Applicable: true})
				return nil
			},
		},
		{
			name: "interval series",
			run: func(ctx context.Context) error {
				points, err := e.source.RawSeries(ctx, meteringPoint, ObisConsumption, dayWindow)
				if err != nil {
					return err
				}
				e.state.MergeSeries(seq, SlotLive, points)
				return nil
			},
		},
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(branches))

	for _, b := range branches {
		wg.Add(1)
		go func(b branch) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()

			if err := b.run(fetchCtx); err != nil {
				log.Printf("engine: %s: %v", b.name, err)
				errs <- err
				return
			}
			errs <- nil
			e.notify()
		}(b)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			result.Failed++
		} else {
			result.Succeeded++
		}
	}
	result.AllSucceeded = result.Failed == 0

	// Partial success still yields a usable dashboard.
	if result.Succeeded == 0 {
		e.state.SetConnection(ConnectionError)
		e.state.SetData(DataError, "all fetches failed")
	} else {
		e.state.SetConnection(ConnectionConnected)
		e.state.SetData(DataOK, "")
	}
	e.notify()
	e.finishCycle(result)
	return result
}

func (e *Engine) finishCycle(result CycleResult) {
	e.mu.RLock()
	fn := e.onCycle
	e.mu.RUnlock()
	if fn != nil {
		fn(result)
	}
}

// LoadPeriodChart fetches the aggregated series for one display period at
// that period's own granularity into the period slot.
func (e *Engine) LoadPeriodChart(ctx context.Context, p Period) error {
	snap := e.state.Snapshot()
	meteringPoint, ok := snap.Config.PrimaryMeteringPoint()
	if !ok {
		return errors.New("no metering point configured")
	}

	seq := e.seq.Add(1)
	w := ResolveWindow(p, e.clock()())

	fetchCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	points, err := e.source.AggregatedSeries(fetchCtx, meteringPoint, ObisConsumption, w)
	if err != nil {
		return fmt.Errorf("period chart %s: %w", p, err)
	}
	e.state.SetPeriodSeries(seq, p, points)
	e.notify()
	return nil
}

// LoadInvoice requests the server-computed invoice for the previous full
// calendar month.
func (e *Engine) LoadInvoice(ctx context.Context) error {
	snap := e.state.Snapshot()
	meteringPoint, ok := snap.Config.PrimaryMeteringPoint()
	if !ok {
		return errors.New("no metering point configured")
	}

	seq := e.seq.Add(1)
	w := InvoiceWindow(e.clock()())

	fetchCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	inv, err := e.source.Invoice(fetchCtx, meteringPoint, w.Start, w.End)
	if err != nil {
		return fmt.Errorf("invoice: %w", err)
	}
	e.state.SetInvoice(seq, inv)
	e.notify()
	return nil
}

// Run drives the auto-refresh loop. The first cycle is always attempted so
// an unconfigured backend surfaces its status; subsequent ticks are gated on
// credential availability and skipped silently otherwise. The interval is
// fixed for the session. Cancelling the context stops the loop; no cycle
// starts afterwards.
func (e *Engine) Run(ctx context.Context) {
	e.RunCycle(ctx)

	ticker := time.NewTicker(e.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("engine: context cancelled, stopping refresh loop")
			return
		case <-ticker.C:
			if e.state.Snapshot().Config.Configured() {
				e.RunCycle(ctx)
			}
		}
	}
}
