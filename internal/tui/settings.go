package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/kidstimer/internal/app"
	"github.com/sadopc/kidstimer/internal/settings"
	"github.com/sadopc/kidstimer/internal/timer"
)

type settingsModel struct {
	core   *app.App
	snap   app.Snapshot
	width  int
	height int

	cursor     int
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	volume        *string
	defaultPreset *string
}

func newSettingsModel(core *app.App) settingsModel {
	v, p := "", ""
	return settingsModel{
		core:          core,
		volume:        &v,
		defaultPreset: &p,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s *settingsModel) setSnapshot(snap app.Snapshot) {
	s.snap = snap
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch {
	case key.Matches(km, keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(km, keys.Down):
		if s.cursor < len(settings.Keys)-1 {
			s.cursor++
		}
	case key.Matches(km, keys.Enter):
		k := settings.Keys[s.cursor]
		on, err := s.core.ToggleSetting(k)
		if err != nil {
			return s, errorStatus(err)
		}
		return s, done(fmt.Sprintf("%s: %s", k.Label(), onOff(on)))
	case key.Matches(km, keys.Edit):
		return s.showForm()
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	g := s.snap.Store.GlobalSettings
	*s.volume = strconv.Itoa(int(g.MasterVolume*100 + 0.5))
	*s.defaultPreset = g.DefaultPreset

	presetOptions := make([]huh.Option[string], len(timer.Presets))
	for i, p := range timer.Presets {
		presetOptions[i] = huh.NewOption(fmt.Sprintf("%s (%d/%d)", p.Name, p.Work, p.Break), p.ID)
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Volume (0-100)").Value(s.volume).Validate(validPercent),
			huh.NewSelect[string]().Title("Timer padrão").Options(presetOptions...).Value(s.defaultPreset),
		).Title("Ajustes"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func validPercent(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 || n > 100 {
		return fmt.Errorf("use um número de 0 a 100")
	}
	return nil
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.saveSettings()
	}

	return s, cmd
}

func (s settingsModel) saveSettings() tea.Cmd {
	pct, _ := strconv.Atoi(strings.TrimSpace(*s.volume))
	if err := s.core.SetVolume(float64(pct) / 100); err != nil {
		return errorStatus(err)
	}
	if err := s.core.SetDefaultPreset(*s.defaultPreset); err != nil {
		return errorStatus(err)
	}
	return done("Ajustes salvos")
}

func onOff(on bool) string {
	if on {
		return "ligado"
	}
	return "desligado"
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Ajustes")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	if s.snap.Store != nil {
		g := s.snap.Store.GlobalSettings
		for i, k := range settings.Keys {
			cursor := "  "
			style := normalItemStyle
			if i == s.cursor {
				cursor = "> "
				style = selectedItemStyle
			}
			on, _ := settings.Get(g, k)
			value := mutedStyle.Render(onOff(on))
			if on {
				value = successStyle.Render(onOff(on))
			}
			label := lipgloss.NewStyle().Width(24).Render(k.Label())
			rows = append(rows, style.Render(cursor+label)+" "+value)
		}

		preset := g.DefaultPreset
		if p, ok := timer.PresetByID(preset); ok {
			preset = p.Name
		}
		rows = append(rows, "")
		rows = append(rows, fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(24).Render("Volume"), highlightStyle.Render(fmt.Sprintf("%d%%", int(g.MasterVolume*100+0.5)))))
		rows = append(rows, fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(24).Render("Timer padrão"), highlightStyle.Render(preset)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: toggle  E: volume and default timer"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
