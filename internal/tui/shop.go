package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/kidstimer/internal/app"
	"github.com/sadopc/kidstimer/internal/catalog"
	"github.com/sadopc/kidstimer/internal/rewards"
	"github.com/sadopc/kidstimer/internal/state"
)

var kindNames = map[state.ItemKind]string{
	state.KindTheme:          "Temas",
	state.KindAvatar:         "Avatares",
	state.KindAnimal:         "Animais",
	state.KindSoundscape:     "Sons",
	state.KindEnergeticTrack: "Músicas",
}

type shopModel struct {
	core   *app.App
	snap   app.Snapshot
	width  int
	height int

	kind   int // index into catalog.Kinds
	cursor int
}

func newShopModel(core *app.App) shopModel {
	return shopModel{core: core}
}

func (s *shopModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s *shopModel) setSnapshot(snap app.Snapshot) {
	s.snap = snap
}

func (s shopModel) currentKind() state.ItemKind {
	return catalog.Kinds[s.kind]
}

func (s shopModel) items() []catalog.Item {
	return s.core.Catalog().Items(s.currentKind())
}

func equipped(p *state.Profile, kind state.ItemKind, id string) bool {
	switch kind {
	case state.KindTheme:
		return p.Theme == id
	case state.KindAvatar:
		return p.Avatar == id
	case state.KindAnimal:
		return p.PathAnimal == id
	}
	return p.MusicPreference == id
}

func (s shopModel) update(msg tea.Msg) (shopModel, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	items := s.items()
	switch {
	case key.Matches(km, keys.Left):
		s.kind = (s.kind + len(catalog.Kinds) - 1) % len(catalog.Kinds)
		s.cursor = 0
	case key.Matches(km, keys.Right):
		s.kind = (s.kind + 1) % len(catalog.Kinds)
		s.cursor = 0
	case key.Matches(km, keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(km, keys.Down):
		if s.cursor < len(items)-1 {
			s.cursor++
		}
	case key.Matches(km, keys.Enter):
		if len(items) == 0 || s.snap.Active == nil {
			return s, nil
		}
		return s.activate(items[s.cursor])
	}
	return s, nil
}

// activate buys a locked item or equips an owned one. Enter on the music
// already playing turns it off.
func (s shopModel) activate(it catalog.Item) (shopModel, tea.Cmd) {
	p := s.snap.Active
	if !p.Owns(it.Kind, it.ID) {
		if _, err := s.core.BuyItem(it.Kind, it.ID); err != nil {
			return s, errorStatus(err)
		}
		return s, done(fmt.Sprintf("Você comprou %s!", it.Name))
	}

	var err error
	switch it.Kind {
	case state.KindTheme:
		err = s.core.SelectTheme(it.ID)
	case state.KindAvatar:
		err = s.core.SelectAvatar(it.ID)
	case state.KindAnimal:
		err = s.core.SelectAnimal(it.ID)
	default:
		id := it.ID
		if p.MusicPreference == id {
			id = rewards.MusicNone
		}
		err = s.core.SelectMusic(id)
	}
	if err != nil {
		return s, errorStatus(err)
	}
	return s, done(fmt.Sprintf("%s selecionado", it.Name))
}

func (s shopModel) view() string {
	w := s.width - 4

	var tabs []string
	for i, k := range catalog.Kinds {
		if i == s.kind {
			tabs = append(tabs, activeTabStyle.Render(kindNames[k]))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(kindNames[k]))
		}
	}
	kindTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	p := s.snap.Active
	if p == nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Loja"),
			"",
			mutedStyle.Render("Pick a profile first (press 2)"),
		))
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Loja"), "  ", kindTabs, "  ", highlightStyle.Render(fmt.Sprintf("⭐ %d", p.Points)),
	)

	var rows []string
	for i, it := range s.items() {
		cursor := "  "
		style := normalItemStyle
		if i == s.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		var tag string
		switch {
		case equipped(p, it.Kind, it.ID):
			tag = successStyle.Render("✓ em uso")
		case p.Owns(it.Kind, it.ID):
			tag = mutedStyle.Render("seu")
		case p.Points >= it.Cost:
			tag = highlightStyle.Render(fmt.Sprintf("%d pts", it.Cost))
		default:
			tag = accentStyle.Render(fmt.Sprintf("🔒 %d pts", it.Cost))
		}

		name := it.Name
		if it.Kind == state.KindAvatar || it.Kind == state.KindAnimal {
			name = animalIcon(it.ID) + " " + name
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-26s", cursor, name))+" "+tag)
	}

	nav := mutedStyle.Render("  ←/→: category  enter: buy or use")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", strings.Join(rows, "\n"), "", nav,
		),
	)
}
