package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeStatusError struct{ status int }

func (e *fakeStatusError) Error() string   { return fmt.Sprintf("HTTP %d", e.status) }
func (e *fakeStatusError) HTTPStatus() int { return e.status }

// fakeSource implements DataSource with overridable behavior per method.
type fakeSource struct {
	mu sync.Mutex

	health     func(ctx context.Context) (Health, error)
	config     func(ctx context.Context) (Config, error)
	raw        func(ctx context.Context, mp, obis string, w Window) ([]SeriesPoint, error)
	aggregated func(ctx context.Context, mp, obis string, w Window) ([]SeriesPoint, error)
	invoice    func(ctx context.Context, mp string, start, end time.Time) (Invoice, error)

	aggregatedCalls []string
}

func (f *fakeSource) Health(ctx context.Context) (Health, error) {
	if f.health == nil {
		return Health{Status: "ok", Version: "0.1.0"}, nil
	}
	return f.health(ctx)
}

func (f *fakeSource) FetchConfig(ctx context.Context) (Config, error) {
	if f.config == nil {
		return Config{}, errors.New("not implemented")
	}
	return f.config(ctx)
}

func (f *fakeSource) RawSeries(ctx context.Context, mp, obis string, w Window) ([]SeriesPoint, error) {
	if f.raw == nil {
		return nil, nil
	}
	return f.raw(ctx, mp, obis, w)
}

func (f *fakeSource) AggregatedSeries(ctx context.Context, mp, obis string, w Window) ([]SeriesPoint, error) {
	f.mu.Lock()
	f.aggregatedCalls = append(f.aggregatedCalls, obis+"/"+string(w.Level))
	f.mu.Unlock()
	if f.aggregated == nil {
		return nil, nil
	}
	return f.aggregated(ctx, mp, obis, w)
}

func (f *fakeSource) Invoice(ctx context.Context, mp string, start, end time.Time) (Invoice, error) {
	if f.invoice == nil {
		return Invoice{}, errors.New("not implemented")
	}
	return f.invoice(ctx, mp, start, end)
}

func configuredState() *State {
	s := NewState()
	s.SetConfig(Config{
		HasAPIKey:      true,
		HasEnergyID:    true,
		MeteringPoints: []MeteringPoint{{Code: "LU-METERING-1"}},
		Billing:        Billing{EnergyVariableRatePerKwh: 0.20},
	})
	return s
}

func fixedNow() time.Time {
	return time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
}

func TestRunCycleNoMeteringPoint(t *testing.T) {
	state := NewState()
	state.SetConfig(Config{HasAPIKey: true, HasEnergyID: true})
	src := &fakeSource{}
	e := NewEngine(src, state)
	e.SetNowFunc(fixedNow)

	res := e.RunCycle(context.Background())

	if !res.Skipped {
		t.Error("cycle not marked skipped")
	}
	if len(src.aggregatedCalls) != 0 {
		t.Errorf("network calls made for unconfigured metering point: %v", src.aggregatedCalls)
	}
	snap := state.Snapshot()
	if snap.Data != DataWarning {
		t.Errorf("Data = %v, want WARNING", snap.Data)
	}
	if !strings.Contains(snap.DataMessage, "metering point") {
		t.Errorf("DataMessage = %q", snap.DataMessage)
	}
}

func TestRunCycleAllSucceed(t *testing.T) {
	state := configuredState()
	src := &fakeSource{
		aggregated: func(_ context.Context, _, obis string, w Window) ([]SeriesPoint, error) {
			// Distinguish branches by window span.
			days := int(w.End.Sub(w.Start).Hours()/24) + 1
			switch {
			case obis == ObisProduction:
				return []SeriesPoint{{Value: 3.5}}, nil
			case days == 1:
				return []SeriesPoint{{Value: 12.0}}, nil
			case days == 7:
				return []SeriesPoint{{Value: 80.0}}, nil
			default:
				return []SeriesPoint{{Value: 300.0}}, nil
			}
		},
		raw: func(context.Context, string, string, Window) ([]SeriesPoint, error) {
			return []SeriesPoint{{Time: fixedNow(), Value: 0.4}}, nil
		},
	}
	e := NewEngine(src, state)
	e.SetNowFunc(fixedNow)

	res := e.RunCycle(context.Background())

	if !res.AllSucceeded || res.Failed != 0 || res.Succeeded != 5 {
		t.Errorf("result = %+v, want 5/0 all-succeeded", res)
	}

	snap := state.Snapshot()
	if snap.Data != DataOK || snap.Connection != ConnectionConnected {
		t.Errorf("statuses = %v/%v", snap.Data, snap.Connection)
	}
	if got := snap.HeadlineOf(HeadlineYesterday).Value; got != 12.0 {
		t.Errorf("yesterday = %v", got)
	}
	if got := snap.HeadlineOf(HeadlineWeek).Value; got != 80.0 {
		t.Errorf("week = %v", got)
	}
	if got := snap.HeadlineOf(HeadlineMonth).Value; got != 300.0 {
		t.Errorf("month = %v", got)
	}
	if got := snap.HeadlineOf(HeadlineEstimatedCost).Value; got != 300.0*0.20 {
		t.Errorf("estimated cost = %v, want %v", got, 300.0*0.20)
	}
	prod := snap.HeadlineOf(HeadlineProduction)
	if !prod.Applicable || prod.Value != 3.5 {
		t.Errorf("production = %+v", prod)
	}
	if len(snap.Live) != 1 {
		t.Errorf("live series = %+v", snap.Live)
	}

	// Headline fetches collapse their window into a single total.
	for _, call := range src.aggregatedCalls {
		if !strings.HasSuffix(call, string(AggregationInfinite)) {
			t.Errorf("headline fetch used level %q, want Infinite", call)
		}
	}
}

func TestRunCyclePartialFailureStaysConnected(t *testing.T) {
	state := configuredState()
	src := &fakeSource{
		aggregated: func(_ context.Context, _, obis string, w Window) ([]SeriesPoint, error) {
			days := int(w.End.Sub(w.Start).Hours()/24) + 1
			if obis == ObisConsumption && days == 7 {
				return nil, errors.New("connection refused")
			}
			return []SeriesPoint{{Value: 10}}, nil
		},
	}
	e := NewEngine(src, state)
	e.SetNowFunc(fixedNow)

	res := e.RunCycle(context.Background())

	if res.AllSucceeded {
		t.Error("AllSucceeded despite a failed branch")
	}
	if res.Failed != 1 || res.Succeeded != 4 {
		t.Errorf("result = %+v, want 4 succeeded / 1 failed", res)
	}

	snap := state.Snapshot()
	if snap.Data != DataOK || snap.Connection != ConnectionConnected {
		t.Errorf("statuses = %v/%v, partial success must stay connected", snap.Data, snap.Connection)
	}
	if snap.HeadlineOf(HeadlineWeek).Known {
		t.Error("failed branch committed a headline")
	}
	if !snap.HeadlineOf(HeadlineYesterday).Known {
		t.Error("sibling branch was aborted by the failure")
	}
}

func TestRunCycleAllFailed(t *testing.T) {
	state := configuredState()
	src := &fakeSource{
		aggregated: func(context.Context, string, string, Window) ([]SeriesPoint, error) {
			return nil, errors.New("connection refused")
		},
		raw: func(context.Context, string, string, Window) ([]SeriesPoint, error) {
			return nil, errors.New("connection refused")
		},
	}
	e := NewEngine(src, state)
	e.SetNowFunc(fixedNow)

	res := e.RunCycle(context.Background())

	if res.Succeeded != 0 || res.Failed != 5 {
		t.Errorf("result = %+v, want 0/5", res)
	}
	snap := state.Snapshot()
	if snap.Data != DataError || snap.Connection != ConnectionError {
		t.Errorf("statuses = %v/%v, want ERROR/ERROR", snap.Data, snap.Connection)
	}
}

func TestRunCycleProductionRegisterAbsent(t *testing.T) {
	state := configuredState()
	src := &fakeSource{
		aggregated: func(_ context.Context, _, obis string, _ Window) ([]SeriesPoint, error) {
			if obis == ObisProduction {
				return nil, &fakeStatusError{status: 404}
			}
			return []SeriesPoint{{Value: 10}}, nil
		},
	}
	e := NewEngine(src, state)
	e.SetNowFunc(fixedNow)

	res := e.RunCycle(context.Background())

	// A meter without a production register is a normal outcome.
	if !res.AllSucceeded {
		t.Errorf("result = %+v, absent register must not count as failure", res)
	}
	prod := state.Snapshot().HeadlineOf(HeadlineProduction)
	if !prod.Known || prod.Applicable {
		t.Errorf("production = %+v, want known and not applicable", prod)
	}
}

func TestRunCycleProductionServerFault(t *testing.T) {
	state := configuredState()
	src := &fakeSource{
		aggregated: func(_ context.Context, _, obis string, _ Window) ([]SeriesPoint, error) {
			if obis == ObisProduction {
				return nil, &fakeStatusError{status: 502}
			}
			return []SeriesPoint{{Value: 10}}, nil
		},
	}
	e := NewEngine(src, state)
	e.SetNowFunc(fixedNow)

	res := e.RunCycle(context.Background())

	if res.AllSucceeded || res.Failed != 1 {
		t.Errorf("result = %+v, server fault must count as failure", res)
	}
}

func TestRunCycleEmptyAggregatedIsZero(t *testing.T) {
	state := configuredState()
	src := &fakeSource{
		aggregated: func(context.Context, string, string, Window) ([]SeriesPoint, error) {
			return []SeriesPoint{}, nil
		},
	}
	e := NewEngine(src, state)
	e.SetNowFunc(fixedNow)

	res := e.RunCycle(context.Background())

	if !res.AllSucceeded {
		t.Errorf("result = %+v, empty data is a valid success", res)
	}
	h := state.Snapshot().HeadlineOf(HeadlineYesterday)
	if !h.Known || h.Value != 0 {
		t.Errorf("yesterday = %+v, want known zero", h)
	}
}

func TestLateCycleDoesNotOverwriteNewer(t *testing.T) {
	state := configuredState()

	started := make(chan struct{})
	release := make(chan struct{})
	var rawCalls int
	var mu sync.Mutex

	src := &fakeSource{
		aggregated: func(context.Context, string, string, Window) ([]SeriesPoint, error) {
			return []SeriesPoint{{Value: 1}}, nil
		},
		raw: func(context.Context, string, string, Window) ([]SeriesPoint, error) {
			mu.Lock()
			rawCalls++
			call := rawCalls
			mu.Unlock()
			if call == 1 {
				close(started)
				<-release
				return []SeriesPoint{{Value: 111}}, nil
			}
			return []SeriesPoint{{Value: 222}}, nil
		},
	}
	e := NewEngine(src, state)
	e.SetNowFunc(fixedNow)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		e.RunCycle(context.Background()) // cycle A, raw fetch hangs
	}()
	<-started

	e.RunCycle(context.Background()) // cycle B commits the live slot first
	close(release)
	wg.Wait()

	snap := state.Snapshot()
	if len(snap.Live) != 1 || snap.Live[0].Value != 222 {
		t.Errorf("Live = %+v, late cycle A overwrote newer cycle B", snap.Live)
	}
}

func TestLoadPeriodChart(t *testing.T) {
	state := configuredState()
	var gotLevel AggregationLevel
	src := &fakeSource{
		aggregated: func(_ context.Context, _, _ string, w Window) ([]SeriesPoint, error) {
			gotLevel = w.Level
			return []SeriesPoint{{Value: 1}, {Value: 2}}, nil
		},
	}
	e := NewEngine(src, state)
	e.SetNowFunc(fixedNow)

	if err := e.LoadPeriodChart(context.Background(), PeriodYear); err != nil {
		t.Fatalf("LoadPeriodChart: %v", err)
	}
	if gotLevel != AggregationMonth {
		t.Errorf("level = %v, want Month", gotLevel)
	}
	snap := state.Snapshot()
	if snap.PeriodOf != PeriodYear || len(snap.Period) != 2 {
		t.Errorf("period slot = %v/%d points", snap.PeriodOf, len(snap.Period))
	}
}

func TestLoadInvoice(t *testing.T) {
	state := configuredState()
	var gotStart, gotEnd time.Time
	src := &fakeSource{
		invoice: func(_ context.Context, _ string, start, end time.Time) (Invoice, error) {
			gotStart, gotEnd = start, end
			return Invoice{Total: 99.5, Currency: "EUR"}, nil
		},
	}
	e := NewEngine(src, state)
	e.SetNowFunc(func() time.Time {
		return time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
	})

	if err := e.LoadInvoice(context.Background()); err != nil {
		t.Fatalf("LoadInvoice: %v", err)
	}
	if gotStart.Month() != time.February || gotEnd.Day() != 29 {
		t.Errorf("invoice range = %v..%v, want full February", gotStart, gotEnd)
	}
	snap := state.Snapshot()
	if snap.Invoice == nil || snap.Invoice.Total != 99.5 {
		t.Errorf("invoice = %+v", snap.Invoice)
	}
}

func TestRunFirstCycleAttemptedWhenUnconfigured(t *testing.T) {
	state := NewState()
	state.SetConfig(Config{}) // no credentials, no metering point
	src := &fakeSource{}
	e := NewEngine(src, state)
	e.SetNowFunc(fixedNow)
	e.SetInterval(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	cycles := make(chan CycleResult, 1)
	e.OnCycle(func(r CycleResult) {
		select {
		case cycles <- r:
		default:
		}
	})
	go func() {
		e.Run(ctx)
		close(done)
	}()

	select {
	case r := <-cycles:
		if !r.Skipped {
			t.Errorf("first cycle = %+v, want skipped warning cycle", r)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("first cycle never ran")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancellation")
	}

	if state.Snapshot().Data != DataWarning {
		t.Errorf("Data = %v, want WARNING surfaced by the first cycle", state.Snapshot().Data)
	}
}

func TestOnUpdateFiresPerBranch(t *testing.T) {
	state := configuredState()
	src := &fakeSource{
		aggregated: func(context.Context, string, string, Window) ([]SeriesPoint, error) {
			return []SeriesPoint{{Value: 1}}, nil
		},
	}
	e := NewEngine(src, state)
	e.SetNowFunc(fixedNow)

	var mu sync.Mutex
	updates := 0
	e.OnUpdate(func(Snapshot) {
		mu.Lock()
		updates++
		mu.Unlock()
	})

	e.RunCycle(context.Background())

	mu.Lock()
	defer mu.Unlock()
	// Five branch notifications plus the settle notification.
	if updates < 6 {
		t.Errorf("updates = %d, want at least 6", updates)
	}
}
