package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/kidstimer/internal/app"
	"github.com/sadopc/kidstimer/internal/state"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTimer viewState = iota
	viewProfiles
	viewShop
	viewBadges
	viewStats
	viewSettings
)

var viewNames = []string{"Timer", "Perfis", "Loja", "Medalhas", "Progresso", "Ajustes"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// commandDoneMsg is sent after a child view ran a command against the app,
// so the root refreshes its snapshot and drains events.
type commandDoneMsg struct {
	text string
}

// --- Helpers ---

// formatClock renders seconds as MM:SS. Minutes are not wrapped into hours
// so a 90 minute custom session reads 90:00.
func formatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func formatMinutes(mins int) string {
	if mins < 60 {
		return fmt.Sprintf("%d min", mins)
	}
	return fmt.Sprintf("%dh%02d", mins/60, mins%60)
}

func errorStatus(err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("Erro: %v", err), isError: true}
	}
}

func done(text string) tea.Cmd {
	return func() tea.Msg { return commandDoneMsg{text: text} }
}

// describe turns an app event into a line for the footer.
func describe(ev app.Event) string {
	switch ev.Kind {
	case app.EventWorkCompleted:
		if ev.ProfileID == "" {
			return "Pomodoro concluído! Hora do intervalo"
		}
		if ev.FirstOfDay {
			return fmt.Sprintf("Primeiro pomodoro do dia! +%d pontos", ev.Points)
		}
		return fmt.Sprintf("Pomodoro concluído! +%d pontos", ev.Points)
	case app.EventBreakCompleted:
		return "Intervalo acabou. Vamos de novo?"
	case app.EventBadgeUnlocked:
		return fmt.Sprintf("Nova medalha: %s %s", ev.Badge.Icon, ev.Badge.Name)
	case app.EventAlert:
		return ev.Alert.Message()
	case app.EventTimerDiscarded:
		return "O timer salvo não pôde ser recuperado"
	}
	return ""
}

func statusLabel(s state.Status) string {
	switch s {
	case state.StatusWorking:
		return "FOCO"
	case state.StatusBreak:
		return "INTERVALO"
	case state.StatusPaused:
		return "PAUSADO"
	}
	return "PRONTO"
}
