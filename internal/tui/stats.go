package tui

import (
	"fmt"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/kidstimer/internal/app"
	"github.com/sadopc/kidstimer/internal/state"
)

type statsMode int

const (
	statsPomodoros statsMode = iota
	statsMinutes
)

type statsModel struct {
	core   *app.App
	snap   app.Snapshot
	width  int
	height int

	mode   statsMode
	offset int // 7-day blocks back from today (0 = current)

	chart barchart.Model
}

func newStatsModel(core *app.App) statsModel {
	return statsModel{
		core:  core,
		chart: barchart.New(60, 12),
	}
}

func (s *statsModel) setSize(w, h int) {
	s.width = w
	s.height = h
	s.buildChart()
}

func (s *statsModel) setSnapshot(snap app.Snapshot) {
	s.snap = snap
	s.buildChart()
}

// dateRange returns the seven local days ending offset weeks before today.
func (s statsModel) dateRange() (time.Time, time.Time) {
	now := s.snap.Now
	if now.IsZero() {
		now = time.Now()
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := today.AddDate(0, 0, 1-7*s.offset)
	return end.AddDate(0, 0, -7), end
}

// daily totals the active profile's history per local day.
func (s statsModel) daily() map[string]int {
	out := make(map[string]int)
	if s.snap.Active == nil {
		return out
	}
	for _, r := range s.snap.Store.SessionHistory {
		if r.ProfileID != s.snap.Active.ID || !r.Completed {
			continue
		}
		v := 1
		if s.mode == statsMinutes {
			v = r.WorkDuration
		}
		out[state.Day(r.Date)] += v
	}
	return out
}

func (s statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch {
	case key.Matches(km, keys.Left):
		// history is pruned, so there is nothing older to page to
		if s.offset < 4 {
			s.offset++
		}
	case key.Matches(km, keys.Right):
		if s.offset > 0 {
			s.offset--
		}
	case key.Matches(km, keys.Enter):
		if s.mode == statsPomodoros {
			s.mode = statsMinutes
		} else {
			s.mode = statsPomodoros
		}
	default:
		return s, nil
	}
	s.buildChart()
	return s, nil
}

func (s *statsModel) buildChart() {
	chartWidth := s.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if s.height > 30 {
		chartHeight = 16
	}

	s.chart = barchart.New(chartWidth, chartHeight)

	color := colorPrimary
	if s.snap.Active != nil {
		color = themeColor(s.snap.Active.Theme)
	}
	style := lipgloss.NewStyle().Foreground(color)

	totals := s.daily()
	from, to := s.dateRange()

	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		bars = append(bars, barchart.BarData{
			Label:  d.Format("02/01"),
			Values: []barchart.BarValue{{Name: "", Value: float64(totals[state.Day(d)]), Style: style}},
		})
	}

	s.chart.PushAll(bars)
	s.chart.Draw()
}

func (s statsModel) view() string {
	w := s.width - 4

	p := s.snap.Active
	if p == nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Progresso"),
			"",
			mutedStyle.Render("Pick a profile first (press 2)"),
		))
	}

	pomTab := inactiveTabStyle.Render("Pomodoros")
	minTab := inactiveTabStyle.Render("Minutos")
	if s.mode == statsPomodoros {
		pomTab = activeTabStyle.Render("Pomodoros")
	} else {
		minTab = activeTabStyle.Render("Minutos")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, pomTab, minTab)

	from, to := s.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s a %s", from.Format("02/01"), to.AddDate(0, 0, -1).Format("02/01/2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Progresso"), "  ", modeTabs, "  ", dateLabel,
	)

	summary := []string{
		fmt.Sprintf("  Pomodoros no total   %s", highlightStyle.Render(fmt.Sprint(p.TotalPomodoros))),
		fmt.Sprintf("  Tempo de foco        %s", highlightStyle.Render(formatMinutes(p.TotalMinutes))),
		fmt.Sprintf("  Sequência atual      %s", highlightStyle.Render(fmt.Sprintf("%d dias", p.CurrentStreak))),
		fmt.Sprintf("  Maior sequência      %s", highlightStyle.Render(fmt.Sprintf("%d dias", p.LongestStreak))),
		fmt.Sprintf("  Hoje                 %s", highlightStyle.Render(fmt.Sprint(s.snap.Today))),
	}

	nav := mutedStyle.Render("  ←/→: navigate  enter: switch mode")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", s.chart.View(), "", lipgloss.JoinVertical(lipgloss.Left, summary...), "", nav,
		),
	)
}
