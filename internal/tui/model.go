package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lenedash/lenedash/internal/appupdate"
	"github.com/lenedash/lenedash/internal/config"
	"github.com/lenedash/lenedash/internal/core"
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// SnapshotMsg carries the latest dashboard state; the refresh engine sends
// one per committed branch.
type SnapshotMsg core.Snapshot

// CycleMsg reports the settled outcome of a refresh cycle.
type CycleMsg core.CycleResult

// ThemeChangedMsg arrives when the settings file changes on disk.
type ThemeChangedMsg string

// UpdateAvailableMsg carries a newer-release notice for the header.
type UpdateAvailableMsg appupdate.Result

type themePersistedMsg struct {
	err error
}

// bannerTTLFrames is how long a transient banner stays up (~6s at the
// 150ms tick).
const bannerTTLFrames = 40

type Model struct {
	snap    core.Snapshot
	hasData bool

	period      core.Period
	showHelp    bool
	showInvoice bool

	width     int
	height    int
	animFrame int

	refreshing bool

	banner       string
	bannerErr    bool
	bannerExpiry int // animFrame after which a transient banner clears; 0 = sticky

	updateHint string

	// Wired from cmd/lenedash into the refresh engine.
	onRefresh      func()
	onPeriodChange func(core.Period)
	onInvoice      func()
}

func NewModel(initialPeriod core.Period) Model {
	if initialPeriod == "" {
		initialPeriod = core.PeriodWeek
	}
	return Model{period: initialPeriod}
}

// SetOnRefresh sets the callback for a manual refresh request.
func (m *Model) SetOnRefresh(fn func()) { m.onRefresh = fn }

// SetOnPeriodChange sets the callback fired when the chart period cycles.
func (m *Model) SetOnPeriodChange(fn func(core.Period)) { m.onPeriodChange = fn }

// SetOnInvoice sets the callback fired when the invoice panel is opened.
func (m *Model) SetOnInvoice(fn func()) { m.onInvoice = fn }

// Period returns the chart period currently selected.
func (m Model) Period() core.Period { return m.period }

func (m Model) persistThemeCmd(name string) tea.Cmd {
	return func() tea.Msg {
		return themePersistedMsg{err: config.SaveTheme(name)}
	}
}

func (m Model) Init() tea.Cmd { return tickCmd() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.animFrame++
		if m.bannerExpiry > 0 && m.animFrame > m.bannerExpiry {
			m.banner = ""
			m.bannerExpiry = 0
		}
		return m, tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case SnapshotMsg:
		m.snap = core.Snapshot(msg)
		m.hasData = true
		return m, nil

	case CycleMsg:
		m.refreshing = false
		return m.applyCycleResult(core.CycleResult(msg)), nil

	case ThemeChangedMsg:
		SetThemeByName(string(msg))
		return m, nil

	case UpdateAvailableMsg:
		res := appupdate.Result(msg)
		if res.UpdateAvailable {
			m.updateHint = fmt.Sprintf("update %s available · %s", res.LatestVersion, res.UpgradeHint)
		}
		return m, nil

	case themePersistedMsg:
		if msg.err != nil {
			m = m.setBanner("theme save failed", true, false)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) applyCycleResult(res core.CycleResult) Model {
	switch {
	case res.Skipped:
		msg := m.snap.DataMessage
		if msg == "" {
			msg = "refresh skipped"
		}
		return m.setBanner(msg, false, true)
	case res.Succeeded == 0:
		return m.setBanner("backend unreachable, data may be stale", true, true)
	case res.Failed > 0:
		return m.setBanner(fmt.Sprintf("partial refresh: %d of %d fetches failed", res.Failed, res.Succeeded+res.Failed), false, false)
	default:
		m.banner = ""
		m.bannerExpiry = 0
		return m
	}
}

// setBanner shows a status banner. Sticky banners stay until the next
// successful cycle; others fade after a few seconds.
func (m Model) setBanner(text string, isErr, sticky bool) Model {
	m.banner = text
	m.bannerErr = isErr
	if sticky {
		m.bannerExpiry = 0
	} else {
		m.bannerExpiry = m.animFrame + bannerTTLFrames
	}
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "?" {
		m.showHelp = !m.showHelp
		return m, nil
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "r":
		if m.onRefresh != nil {
			m.refreshing = true
			m.onRefresh()
		}
		return m, nil

	case "p":
		m.period = core.NextPeriod(m.period)
		if m.onPeriodChange != nil {
			m.onPeriodChange(m.period)
		}
		return m, nil

	case "i":
		m.showInvoice = !m.showInvoice
		if m.showInvoice && m.snap.Invoice == nil && m.onInvoice != nil {
			m.onInvoice()
		}
		return m, nil

	case "t":
		name := CycleTheme()
		return m, m.persistThemeCmd(name)
	}

	return m, nil
}

func (m Model) View() string {
	if m.width < 30 || m.height < 8 {
		return dimStyle.Render("\n  Terminal too small. Resize to at least 30×8.")
	}
	if !m.hasData {
		return m.renderSplash(m.width, m.height)
	}
	if m.showHelp {
		return m.renderHelpOverlay(m.width, m.height)
	}
	return m.renderDashboard()
}
