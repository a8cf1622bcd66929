// Demo runs the dashboard against an in-process fake backend with
// synthetic metering data, so the TUI can be exercised without a Leneda
// account or a running server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lenedash/lenedash/internal/billing"
	"github.com/lenedash/lenedash/internal/core"
	"github.com/lenedash/lenedash/internal/leneda"
	"github.com/lenedash/lenedash/internal/tui"
)

const demoMeteringPoint = "LU0000010123456789012345678900"

func main() {
	log.SetOutput(io.Discard)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		fmt.Fprintf(os.Stderr, "demo backend: %v\n", err)
		os.Exit(1)
	}
	srv := &http.Server{Handler: newDemoBackend()}
	go srv.Serve(ln)
	defer srv.Close()

	client := leneda.NewClient("http://" + ln.Addr().String())
	state := core.NewState()
	engine := core.NewEngine(client, state)
	engine.SetInterval(30 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := tui.NewModel(core.PeriodWeek)

	var program *tea.Program

	engine.OnUpdate(func(snap core.Snapshot) {
		if program != nil {
			program.Send(tui.SnapshotMsg(snap))
		}
	})
	engine.OnCycle(func(res core.CycleResult) {
		if program != nil {
			program.Send(tui.CycleMsg(res))
		}
	})

	model.SetOnRefresh(func() {
		go engine.RunCycle(ctx)
	})
	model.SetOnPeriodChange(func(p core.Period) {
		go engine.LoadPeriodChart(ctx, p)
	})
	model.SetOnInvoice(func() {
		go engine.LoadInvoice(ctx)
	})

	program = tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		engine.CheckHealth(ctx)
		engine.LoadConfig(ctx)
		go engine.Run(ctx)
		engine.LoadPeriodChart(ctx, core.PeriodWeek)
	}()

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
		os.Exit(1)
	}
}

func newDemoBackend() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", handleHealth)
	mux.HandleFunc("/api/config", handleConfig)
	mux.HandleFunc("/api/metering-data", handleMeteringData)
	mux.HandleFunc("/api/aggregated-data", handleAggregatedData)
	mux.HandleFunc("/api/calculate-invoice", handleInvoice)
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, core.Health{Status: "ok", Version: "demo"})
}

func demoTariff() core.Billing {
	return billing.WithDefaults(core.Billing{
		EnergySupplierName:  "Demo Energy S.A.",
		NetworkOperatorName: "Creos Luxembourg",
		ReferencePowerKw:    6.0,
	})
}

func handleConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, core.Config{
		HasAPIKey:   true,
		HasEnergyID: true,
		MeteringPoints: []core.MeteringPoint{
			{Code: demoMeteringPoint, Name: "Demo Home"},
		},
		Billing: demoTariff(),
		Display: core.Display{UpdateIntervalSeconds: 30},
	})
}

func handleMeteringData(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err1 := time.Parse(time.RFC3339, q.Get("start_date"))
	end, err2 := time.Parse(time.RFC3339, q.Get("end_date"))
	if err1 != nil || err2 != nil {
		http.Error(w, "invalid date range", http.StatusBadRequest)
		return
	}

	production := q.Get("obis_code") == core.ObisProduction
	var items []core.SeriesPoint
	for t := start; !t.After(end); t = t.Add(15 * time.Minute) {
		items = append(items, core.SeriesPoint{Time: t, Value: slotKWh(t, production)})
	}
	writeJSON(w, map[string]any{"items": items})
}

func handleAggregatedData(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err1 := time.Parse("2006-01-02", q.Get("start_date"))
	end, err2 := time.Parse("2006-01-02", q.Get("end_date"))
	if err1 != nil || err2 != nil {
		http.Error(w, "invalid date range", http.StatusBadRequest)
		return
	}
	production := q.Get("obis_code") == core.ObisProduction
	level := core.AggregationLevel(q.Get("aggregation_level"))

	series := aggregate(start, end.AddDate(0, 0, 1), level, production)
	writeJSON(w, map[string]any{"aggregatedTimeSeries": series})
}

func handleInvoice(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err1 := time.Parse("2006-01-02", q.Get("start_date"))
	end, err2 := time.Parse("2006-01-02", q.Get("end_date"))
	if err1 != nil || err2 != nil {
		http.Error(w, "invalid date range", http.StatusBadRequest)
		return
	}

	total := 0.0
	for t := start; t.Before(end.AddDate(0, 0, 1)); t = t.Add(15 * time.Minute) {
		total += slotKWh(t, false)
	}
	writeJSON(w, billing.Compute(demoTariff(), total, start, end))
}

// aggregate sums 15-minute slots into buckets at the requested level.
// The range is [start, endExclusive).
func aggregate(start, endExclusive time.Time, level core.AggregationLevel, production bool) []core.SeriesPoint {
	var out []core.SeriesPoint
	for bucket := start; bucket.Before(endExclusive); {
		var next time.Time
		switch level {
		case core.AggregationHour:
			next = bucket.Add(time.Hour)
		case core.AggregationDay:
			next = bucket.AddDate(0, 0, 1)
		case core.AggregationMonth:
			next = bucket.AddDate(0, 1, 0)
		default:
			next = endExclusive
		}
		if next.After(endExclusive) {
			next = endExclusive
		}

		sum := 0.0
		for t := bucket; t.Before(next); t = t.Add(15 * time.Minute) {
			sum += slotKWh(t, production)
		}
		out = append(out, core.SeriesPoint{Time: bucket, Value: math.Round(sum*1000) / 1000})
		bucket = next
	}
	return out
}

// slotKWh is the deterministic consumption (or solar production) for one
// 15-minute slot. Consumption follows a household curve with morning and
// evening peaks; production follows a midday solar bell.
func slotKWh(t time.Time, production bool) float64 {
	hour := float64(t.Hour()) + float64(t.Minute())/60

	if production {
		if hour < 7 || hour > 20 {
			return 0
		}
		bell := math.Sin((hour - 7) / 13 * math.Pi)
		return 0.35 * bell * bell
	}

	base := 0.04
	morning := 0.10 * peak(hour, 7.5, 1.5)
	evening := 0.16 * peak(hour, 19, 2.5)
	jitter := 0.015 * math.Sin(float64(t.Unix()/900))
	return base + morning + evening + jitter
}

// peak is a smooth bump centered on c with half-width w, zero outside.
func peak(x, c, w float64) float64 {
	d := math.Abs(x-c) / w
	if d >= 1 {
		return 0
	}
	return math.Cos(d*math.Pi/2) * math.Cos(d*math.Pi/2)
}
