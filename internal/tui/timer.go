package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/kidstimer/internal/app"
	"github.com/sadopc/kidstimer/internal/state"
	"github.com/sadopc/kidstimer/internal/timer"
)

const pathLength = 24

var moonPhases = []string{"🌑", "🌘", "🌗", "🌖", "🌕"}

type timerModel struct {
	core   *app.App
	snap   app.Snapshot
	width  int
	height int

	presetCursor int
	presetLoaded bool
	bar          progress.Model

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	customWork  *string
	customBreak *string
}

func newTimerModel(core *app.App) timerModel {
	w, b := "", ""
	return timerModel{
		core:        core,
		bar:         progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		customWork:  &w,
		customBreak: &b,
	}
}

func (t *timerModel) setSize(w, h int) {
	t.width = w
	t.height = h
	t.bar.Width = max(10, min(w-16, 60))
}

// setSnapshot also selects the default preset the first time settings are
// known.
func (t *timerModel) setSnapshot(s app.Snapshot) {
	t.snap = s
	if t.presetLoaded || s.Store == nil {
		return
	}
	t.presetLoaded = true
	for i, p := range timer.Presets {
		if p.ID == s.Store.GlobalSettings.DefaultPreset {
			t.presetCursor = i
		}
	}
}

func (t timerModel) preset() timer.Preset {
	return timer.Presets[t.presetCursor]
}

// phase is the running phase, looking through a pause.
func (t timerModel) phase() state.Status {
	if t.snap.Store == nil || t.snap.Store.TimerState == nil {
		return state.StatusIdle
	}
	ts := t.snap.Store.TimerState
	if ts.Status == state.StatusPaused && ts.PausedStatus != nil {
		return *ts.PausedStatus
	}
	return ts.Status
}

func (t timerModel) update(msg tea.Msg) (timerModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return t, nil
	}
	switch {
	case key.Matches(km, keys.Start):
		if t.snap.Status != state.StatusIdle {
			return t, nil
		}
		return t.start(t.preset())

	case key.Matches(km, keys.Preset):
		if t.snap.Status == state.StatusIdle {
			t.presetCursor = (t.presetCursor + 1) % len(timer.Presets)
		}
		return t, nil

	case key.Matches(km, keys.Custom):
		if t.snap.Status == state.StatusIdle {
			return t.showCustomForm()
		}

	case key.Matches(km, keys.Pause):
		switch t.snap.Status {
		case state.StatusWorking, state.StatusBreak:
			if err := t.core.PauseTimer(); err != nil {
				return t, errorStatus(err)
			}
			return t, done("Pausado")
		case state.StatusPaused:
			if err := t.core.ResumeTimer(); err != nil {
				return t, errorStatus(err)
			}
			return t, done("Continuando")
		}

	case key.Matches(km, keys.Stop):
		if t.snap.Status == state.StatusIdle {
			return t, nil
		}
		if err := t.core.StopTimer(); err != nil {
			return t, errorStatus(err)
		}
		return t, done("Timer parado")

	case key.Matches(km, keys.Skip):
		if t.phase() != state.StatusBreak {
			return t, nil
		}
		if err := t.core.SkipBreak(); err != nil {
			return t, errorStatus(err)
		}
		return t, done("Intervalo pulado")
	}
	return t, nil
}

func (t timerModel) start(p timer.Preset) (timerModel, tea.Cmd) {
	if err := t.core.StartTimer(p); err != nil {
		return t, errorStatus(err)
	}
	return t, done(fmt.Sprintf("Foco de %d minutos. Você consegue!", p.Work))
}

func (t timerModel) showCustomForm() (timerModel, tea.Cmd) {
	*t.customWork = "15"
	*t.customBreak = "3"

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Foco (min)").Value(t.customWork).Validate(validMinutes),
			huh.NewInput().Title("Intervalo (min)").Value(t.customBreak).Validate(validMinutes),
		).Title("Timer personalizado"),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

func validMinutes(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("digite um número")
	}
	if n < 1 {
		return fmt.Errorf("mínimo de 1 minuto")
	}
	return nil
}

func (t timerModel) updateForm(msg tea.Msg) (timerModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		work, _ := strconv.Atoi(strings.TrimSpace(*t.customWork))
		brk, _ := strconv.Atoi(strings.TrimSpace(*t.customBreak))
		p, err := timer.Custom(work, brk)
		if err != nil {
			return t, errorStatus(err)
		}
		return t.start(p)
	}

	return t, cmd
}

func (t timerModel) view() string {
	w := t.width - 4

	if t.formActive && t.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Timer"), "", t.form.View()),
		)
	}

	p := t.snap.Active
	if p == nil {
		content := lipgloss.JoinVertical(lipgloss.Center,
			titleStyle.Render("Quem vai estudar agora?"),
			"",
			mutedStyle.Render("Press 2 to pick or create a profile"),
		)
		return panelStyle.Width(w).Render(content)
	}

	header := fmt.Sprintf("%s %s", animalIcon(p.Avatar), titleStyle.Render(p.Name))
	stats := mutedStyle.Render(fmt.Sprintf("⭐ %d pontos   🔥 %d dias   🍅 %d hoje", p.Points, p.CurrentStreak, t.snap.Today))

	accent := lipgloss.NewStyle().Bold(true).Foreground(themeColor(p.Theme)).Align(lipgloss.Center)

	var timeDisplay, phaseLabel, indicator, controls string
	switch t.snap.Status {
	case state.StatusIdle:
		pr := t.preset()
		timeDisplay = timerStyle.Width(w - 6).Render(formatClock(pr.Work * 60))
		phaseLabel = mutedStyle.Render(fmt.Sprintf("%s: %d min foco, %d min intervalo", pr.Name, pr.Work, pr.Break))
		indicator = t.renderIndicator(p, 0)
		controls = mutedStyle.Render("s: start  p: preset  c: custom")
	case state.StatusWorking:
		timeDisplay = accent.Width(w - 6).Render(formatClock(t.snap.Remaining))
		phaseLabel = accent.Render(statusLabel(state.StatusWorking))
		indicator = t.renderIndicator(p, t.snap.Progress)
		controls = mutedStyle.Render("space: pause  x: stop")
	case state.StatusBreak:
		timeDisplay = timerBreakStyle.Width(w - 6).Render(formatClock(t.snap.Remaining))
		phaseLabel = timerBreakStyle.Render(statusLabel(state.StatusBreak))
		indicator = t.renderIndicator(p, t.snap.Progress)
		controls = mutedStyle.Render("space: pause  b: skip break  x: stop")
	case state.StatusPaused:
		timeDisplay = timerPausedStyle.Width(w - 6).Render(formatClock(t.snap.Remaining))
		phaseLabel = warningStyle.Bold(true).Render(statusLabel(state.StatusPaused) + " · " + statusLabel(t.phase()))
		indicator = t.renderIndicator(p, t.snap.Progress)
		controls = mutedStyle.Render("space: resume  x: stop")
		if t.phase() == state.StatusBreak {
			controls = mutedStyle.Render("space: resume  b: skip break  x: stop")
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		header,
		stats,
		"",
		timeDisplay,
		phaseLabel,
		"",
		indicator,
	)

	style := panelStyle
	if t.snap.Status != state.StatusIdle {
		style = activePanelStyle.BorderForeground(themeColor(p.Theme))
	}
	return style.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

// renderIndicator draws the profile's preferred progress visual.
func (t timerModel) renderIndicator(p *state.Profile, pct float64) string {
	switch p.ProgressIndicator {
	case state.IndicatorCircular:
		i := int(pct * float64(len(moonPhases)-1))
		return moonPhases[i] + mutedStyle.Render(fmt.Sprintf("  %d%%", int(pct*100)))
	case state.IndicatorHourglass:
		return renderHourglass(pct)
	case state.IndicatorPath:
		return renderPath(p.PathAnimal, pct)
	}
	return t.bar.ViewAs(pct)
}

func renderHourglass(pct float64) string {
	const grains = 6
	fallen := int(pct * grains)
	top := strings.Repeat("·", grains-fallen) + strings.Repeat(" ", fallen)
	bottom := strings.Repeat(" ", grains-fallen) + strings.Repeat("·", fallen)
	return strings.Join([]string{
		"╲" + warningStyle.Render(top) + "╱",
		" ╲" + strings.Repeat(" ", grains-2) + "╱",
		" ╱" + strings.Repeat(" ", grains-2) + "╲",
		"╱" + warningStyle.Render(bottom) + "╲",
	}, "\n")
}

func renderPath(animal string, pct float64) string {
	pos := int(pct * float64(pathLength-1))
	var b strings.Builder
	b.WriteString(successStyle.Render(strings.Repeat("━", pos)))
	b.WriteString(animalIcon(animal))
	b.WriteString(mutedStyle.Render(strings.Repeat("┄", pathLength-1-pos)))
	b.WriteString("🏁")
	return b.String()
}
