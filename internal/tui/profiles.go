package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/kidstimer/internal/app"
	"github.com/sadopc/kidstimer/internal/catalog"
	"github.com/sadopc/kidstimer/internal/profile"
	"github.com/sadopc/kidstimer/internal/state"
)

var indicatorNames = map[state.Indicator]string{
	state.IndicatorCircular:  "Lua",
	state.IndicatorPath:      "Caminho",
	state.IndicatorHourglass: "Ampulheta",
	state.IndicatorBar:       "Barra",
}

type profilesModel struct {
	core   *app.App
	snap   app.Snapshot
	width  int
	height int

	cursor        int
	confirmDelete bool

	formActive bool
	form       *huh.Form
	formType   string // "new", "edit"

	// Form field pointers (survive value copies)
	formName      *string
	formAvatar    *string
	formTheme     *string
	formIndicator *state.Indicator

	editingID string
}

func newProfilesModel(core *app.App) profilesModel {
	name, avatar, theme := "", "", ""
	ind := state.IndicatorCircular
	return profilesModel{
		core:          core,
		formName:      &name,
		formAvatar:    &avatar,
		formTheme:     &theme,
		formIndicator: &ind,
	}
}

func (p *profilesModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p *profilesModel) setSnapshot(s app.Snapshot) {
	p.snap = s
	if n := len(p.profiles()); p.cursor >= n {
		p.cursor = max(0, n-1)
	}
}

func (p profilesModel) profiles() []state.Profile {
	if p.snap.Store == nil {
		return nil
	}
	return p.snap.Store.Profiles
}

func (p profilesModel) update(msg tea.Msg) (profilesModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	profiles := p.profiles()
	if p.confirmDelete {
		p.confirmDelete = false
		if key.Matches(km, keys.Delete) && p.cursor < len(profiles) {
			if err := p.core.DeleteProfile(profiles[p.cursor].ID); err != nil {
				return p, errorStatus(err)
			}
			return p, done(fmt.Sprintf("Perfil %s removido", profiles[p.cursor].Name))
		}
		return p, nil
	}

	switch {
	case key.Matches(km, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(km, keys.Down):
		if p.cursor < len(profiles)-1 {
			p.cursor++
		}
	case key.Matches(km, keys.Enter):
		if len(profiles) > 0 {
			pr := profiles[p.cursor]
			if err := p.core.SwitchProfile(pr.ID); err != nil {
				return p, errorStatus(err)
			}
			return p, done(fmt.Sprintf("Olá, %s!", pr.Name))
		}
	case key.Matches(km, keys.New):
		return p.showNewForm()
	case key.Matches(km, keys.Edit):
		if len(profiles) > 0 {
			return p.showEditForm(profiles[p.cursor])
		}
	case key.Matches(km, keys.Delete):
		if len(profiles) > 0 {
			p.confirmDelete = true
		}
	case key.Matches(km, keys.Logout):
		if p.snap.Active == nil {
			return p, nil
		}
		if err := p.core.Logout(); err != nil {
			return p, errorStatus(err)
		}
		return p, done("Até logo!")
	}
	return p, nil
}

func itemOptions(c *catalog.Catalog, kind state.ItemKind, owned []string) []huh.Option[string] {
	var opts []huh.Option[string]
	for _, it := range c.Items(kind) {
		for _, id := range owned {
			if id == it.ID {
				label := it.Name
				if kind == state.KindAvatar {
					label = animalIcon(it.ID) + " " + it.Name
				}
				opts = append(opts, huh.NewOption(label, it.ID))
			}
		}
	}
	return opts
}

func indicatorOptions() []huh.Option[state.Indicator] {
	opts := make([]huh.Option[state.Indicator], len(state.Indicators))
	for i, ind := range state.Indicators {
		opts[i] = huh.NewOption(indicatorNames[ind], ind)
	}
	return opts
}

func validName(s string) error {
	_, err := profile.ValidateName(s)
	return err
}

func (p profilesModel) showNewForm() (profilesModel, tea.Cmd) {
	// A new profile starts with the free items only.
	fresh := state.NewProfile("", "")
	*p.formName = ""
	*p.formAvatar = fresh.Avatar
	*p.formTheme = fresh.Theme
	p.formType = "new"

	c := p.core.Catalog()
	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Nome").CharLimit(profile.MaxNameLength).Value(p.formName).Validate(validName),
			huh.NewSelect[string]().Title("Avatar").Options(itemOptions(c, state.KindAvatar, fresh.UnlockedAvatars)...).Value(p.formAvatar),
			huh.NewSelect[string]().Title("Tema").Options(itemOptions(c, state.KindTheme, fresh.UnlockedThemes)...).Value(p.formTheme),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p profilesModel) showEditForm(pr state.Profile) (profilesModel, tea.Cmd) {
	*p.formName = pr.Name
	*p.formAvatar = pr.Avatar
	*p.formTheme = pr.Theme
	*p.formIndicator = pr.ProgressIndicator
	p.formType = "edit"
	p.editingID = pr.ID

	c := p.core.Catalog()
	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Nome").CharLimit(profile.MaxNameLength).Value(p.formName).Validate(validName),
			huh.NewSelect[string]().Title("Avatar").Options(itemOptions(c, state.KindAvatar, pr.UnlockedAvatars)...).Value(p.formAvatar),
			huh.NewSelect[string]().Title("Tema").Options(itemOptions(c, state.KindTheme, pr.UnlockedThemes)...).Value(p.formTheme),
			huh.NewSelect[state.Indicator]().Title("Indicador de progresso").Options(indicatorOptions()...).Value(p.formIndicator),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p profilesModel) updateForm(msg tea.Msg) (profilesModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		switch p.formType {
		case "new":
			pr, err := p.core.CreateProfile(*p.formName, *p.formAvatar, *p.formTheme)
			if err != nil {
				return p, errorStatus(err)
			}
			return p, done(fmt.Sprintf("Bem-vindo, %s!", pr.Name))
		case "edit":
			name, avatar, theme, ind := *p.formName, *p.formAvatar, *p.formTheme, *p.formIndicator
			_, err := p.core.EditProfile(p.editingID, profile.Patch{
				Name:              &name,
				Avatar:            &avatar,
				Theme:             &theme,
				ProgressIndicator: &ind,
			})
			if err != nil {
				return p, errorStatus(err)
			}
			return p, done("Perfil atualizado")
		}
	}

	return p, cmd
}

func (p profilesModel) view() string {
	if p.formActive && p.form != nil {
		title := titleStyle.Render("Novo perfil")
		if p.formType == "edit" {
			title = titleStyle.Render("Editar perfil")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View())
		return panelStyle.Width(p.width - 4).Render(content)
	}
	return p.renderList()
}

func (p profilesModel) renderList() string {
	w := p.width - 4
	title := titleStyle.Render("Perfis")
	profiles := p.profiles()

	if len(profiles) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No profiles yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-3s %-24s %8s %8s %6s", "", "Nome", "Pontos", "Pomod.", "Dias"))
	rows = append(rows, header)

	for i, pr := range profiles {
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		name := pr.Name
		if p.snap.Active != nil && p.snap.Active.ID == pr.ID {
			name += " ★"
		}
		row := style.Render(fmt.Sprintf("%s%s %-24s %8d %8d %6d", cursor, animalIcon(pr.Avatar), name, pr.Points, pr.TotalPomodoros, pr.CurrentStreak))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	if p.confirmDelete && p.cursor < len(profiles) {
		rows = append(rows, errorStyle.Render(fmt.Sprintf("  Remover %s? Press d again to confirm", profiles[p.cursor].Name)))
	} else {
		rows = append(rows, mutedStyle.Render("  enter: switch  n: new  E: edit  d: delete  o: logout"))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
