package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/kidstimer/internal/app"
)

type badgesModel struct {
	core   *app.App
	snap   app.Snapshot
	width  int
	height int
}

func newBadgesModel(core *app.App) badgesModel {
	return badgesModel{core: core}
}

func (b *badgesModel) setSize(w, h int) {
	b.width = w
	b.height = h
}

func (b *badgesModel) setSnapshot(s app.Snapshot) {
	b.snap = s
}

func (b badgesModel) view() string {
	w := b.width - 4
	p := b.snap.Active
	if p == nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Medalhas"),
			"",
			mutedStyle.Render("Pick a profile first (press 2)"),
		))
	}

	all := b.core.Catalog().Badges()
	title := titleStyle.Render("Medalhas") + "  " + mutedStyle.Render(fmt.Sprintf("%d/%d", len(p.Badges), len(all)))

	var rows []string
	for _, badge := range all {
		if p.HasBadge(badge.ID) {
			rows = append(rows, fmt.Sprintf("  %s %s  %s",
				badge.Icon, successStyle.Bold(true).Render(badge.Name), subtitleStyle.Render(badge.Description)))
			continue
		}
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  🔒 %s  %s", badge.Name, badge.Description)))
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", strings.Join(rows, "\n")),
	)
}
