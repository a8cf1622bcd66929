package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lenedash/lenedash/internal/appupdate"
	"github.com/lenedash/lenedash/internal/config"
	"github.com/lenedash/lenedash/internal/core"
	"github.com/lenedash/lenedash/internal/leneda"
	"github.com/lenedash/lenedash/internal/tui"
	"github.com/lenedash/lenedash/internal/version"
)

func runDashboard(cfg config.Config) {
	tui.SetThemeByName(cfg.Theme)

	client := leneda.NewClient(cfg.ServerURL)
	state := core.NewState()
	engine := core.NewEngine(client, state)
	if cfg.RefreshIntervalSeconds > 0 {
		engine.SetInterval(time.Duration(cfg.RefreshIntervalSeconds) * time.Second)
	}

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
		go func() {
			if err := engine.LoadPeriodChart(ctx, p); err != nil {
				log.Printf("period chart: %v", err)
			}
		}()
	})
	model.SetOnInvoice(func() {
		go func() {
			if err := engine.LoadInvoice(ctx); err != nil {
				log.Printf("invoice: %v", err)
			}
		}()
	})

	program = tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		if err := engine.CheckHealth(ctx); err != nil {
			log.Printf("startup: %v", err)
		}
		if err := engine.LoadConfig(ctx); err != nil {
			log.Printf("startup: %v", err)
		}
		go engine.Run(ctx)
		if err := engine.LoadPeriodChart(ctx, core.PeriodWeek); err != nil {
			log.Printf("period chart: %v", err)
		}
	}()

	// Re-apply the theme when the settings file changes on disk.
	go func() {
		err := config.Watch(ctx, config.ConfigPath(), func(c config.Config) {
			program.Send(tui.ThemeChangedMsg(c.Theme))
		})
		if err != nil && ctx.Err() == nil {
			log.Printf("settings watch: %v", err)
		}
	}()

	go func() {
		res, err := appupdate.Check(ctx, appupdate.CheckOptions{CurrentVersion: version.Version})
		if err != nil {
			log.Printf("update check: %v", err)
			return
		}
		program.Send(tui.UpdateAvailableMsg(res))
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("TUI error: %v", err)
	}
}
