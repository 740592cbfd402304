package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/kidstimer/internal/app"
	"github.com/sadopc/kidstimer/internal/export"
	"github.com/sadopc/kidstimer/internal/state"
)

// devTapsNeeded is how many presses of the version key unlock developer mode.
const devTapsNeeded = 7

const debugPoints = 50

type eventsMsg []app.Event

// App is the root Bubble Tea model.
type App struct {
	core   *app.App
	snap   app.Snapshot
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportConfirm bool
	exportDir     string

	devTaps int
	devMode bool

	timer    timerModel
	profiles profilesModel
	shop     shopModel
	badges   badgesModel
	stats    statsModel
	settings settingsModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(core *app.App) App {
	h := help.New()
	h.ShowAll = false

	a := App{
		core:       core,
		activeView: viewTimer,
		timer:      newTimerModel(core),
		profiles:   newProfilesModel(core),
		shop:       newShopModel(core),
		badges:     newBadgesModel(core),
		stats:      newStatsModel(core),
		settings:   newSettingsModel(core),
		help:       h,
	}
	a.refresh()
	if a.snap.Active == nil {
		a.activeView = viewProfiles
	}
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.drainEvents(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) drainEvents() tea.Cmd {
	return func() tea.Msg {
		return eventsMsg(a.core.Events())
	}
}

// refresh takes a new snapshot and hands it to every view.
func (a *App) refresh() {
	a.snap = a.core.Snapshot()
	a.timer.setSnapshot(a.snap)
	a.profiles.setSnapshot(a.snap)
	a.shop.setSnapshot(a.snap)
	a.badges.setSnapshot(a.snap)
	a.stats.setSnapshot(a.snap)
	a.settings.setSnapshot(a.snap)
}

// announce shows the most recent event in the footer and rings the bell
// when sound effects are on.
func (a *App) announce(events []app.Event) tea.Cmd {
	if len(events) == 0 {
		return nil
	}
	for _, ev := range events {
		if text := describe(ev); text != "" {
			a.status = text
			a.statusErr = ev.Kind == app.EventTimerDiscarded
		}
	}
	if a.snap.Store != nil && a.snap.Store.GlobalSettings.SoundEffectsEnabled {
		return bell
	}
	return nil
}

func bell() tea.Msg {
	fmt.Fprint(os.Stdout, "\a")
	return nil
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.timer.setSize(a.width, contentHeight)
		a.profiles.setSize(a.width, contentHeight)
		a.shop.setSize(a.width, contentHeight)
		a.badges.setSize(a.width, contentHeight)
		a.stats.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportConfirm {
			return a.updateExportConfirm(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		if key.Matches(msg, keys.Version) {
			return a.tapVersion()
		}
		if !a.devMode {
			a.devTaps = 0
		}

		switch {
		case key.Matches(msg, keys.Points) && a.devMode:
			if err := a.core.AwardDebugPoints(debugPoints); err != nil {
				return a, errorStatus(err)
			}
			return a, done(fmt.Sprintf("+%d pontos", debugPoints))
		case key.Matches(msg, keys.Export):
			a.exportConfirm = true
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewTimer
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewProfiles
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewShop
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewBadges
			return a, nil
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewStats
			return a, nil
		case key.Matches(msg, keys.Tab6):
			a.activeView = viewSettings
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, nil
		}

	case tickMsg:
		events := a.core.Tick()
		a.refresh()
		return a, tea.Batch(tickCmd(), a.announce(events))

	case eventsMsg:
		return a, a.announce(msg)

	case commandDoneMsg:
		a.status = msg.text
		a.statusErr = false
		a.refresh()
		return a, a.drainEvents()

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exportado para " + msg.path
		a.statusErr = false
		a.exportConfirm = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

// tapVersion counts presses of the version key; enough of them in a row
// unlock developer mode for the rest of the session.
func (a App) tapVersion() (tea.Model, tea.Cmd) {
	if a.devMode {
		return a, nil
	}
	a.devTaps++
	if a.devTaps < devTapsNeeded {
		left := devTapsNeeded - a.devTaps
		if left <= 3 {
			a.status = fmt.Sprintf("%d more to developer mode", left)
		}
		return a, nil
	}
	a.devMode = true
	a.status = fmt.Sprintf("Developer mode on. Press + for %d points", debugPoints)
	return a, nil
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTimer:
		a.timer, cmd = a.timer.update(msg)
	case viewProfiles:
		a.profiles, cmd = a.profiles.update(msg)
	case viewShop:
		a.shop, cmd = a.shop.update(msg)
	case viewStats:
		a.stats, cmd = a.stats.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTimer:
		return a.timer.formActive
	case viewProfiles:
		return a.profiles.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTimer:
		content = a.timer.view()
	case viewProfiles:
		content = a.profiles.view()
	case viewShop:
		content = a.shop.view()
	case viewBadges:
		content = a.badges.view()
	case viewStats:
		content = a.stats.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportConfirm {
		content = a.renderExportConfirm()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("kidstimer")
	if a.devMode {
		title += warningStyle.Render(" dev")
	}
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
		if a.statusErr {
			status = errorStyle.Render(" " + a.status)
		}
	}

	// Timer indicator in footer
	timerInfo := ""
	switch a.snap.Status {
	case state.StatusWorking:
		timerInfo = successStyle.Render(" ● " + formatClock(a.snap.Remaining))
	case state.StatusBreak:
		timerInfo = highlightStyle.Render(" ☕ " + formatClock(a.snap.Remaining))
	case state.StatusPaused:
		timerInfo = warningStyle.Render(" ⏸ " + formatClock(a.snap.Remaining))
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportConfirm() string {
	rows := []string{
		titleStyle.Render("Backup"),
		"",
		"  Salvar todos os perfis em:",
		"  " + highlightStyle.Render(a.backupPath()),
		"",
		mutedStyle.Render("  enter: salvar  esc: cancelar"),
	}
	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Enter):
		a.exportConfirm = false
		return a, a.doExport()
	case key.Matches(msg, keys.Back):
		a.exportConfirm = false
	}
	return a, nil
}

// backupPath is where the JSON backup goes: exportDir, else the home dir.
func (a App) backupPath() string {
	dir := a.exportDir
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = home
		}
	}
	name := fmt.Sprintf("kidstimer-backup-%s.json", a.snap.Now.Format(time.DateOnly))
	return filepath.Join(dir, name)
}

func (a App) doExport() tea.Cmd {
	snap := a.core.Snapshot()
	path := a.backupPath()
	return func() tea.Msg {
		if err := export.ToJSON(snap.Store, path, snap.Now); err != nil {
			return statusMsg{text: fmt.Sprintf("Erro no backup: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
