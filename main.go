package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sadopc/kidstimer/internal/app"
	"github.com/sadopc/kidstimer/internal/config"
	"github.com/sadopc/kidstimer/internal/store"
	"github.com/sadopc/kidstimer/internal/tui"
)

var (
	cfg    config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "kidstimer",
	Short: "Pomodoro timer for kids",
	Long: `kidstimer is a terminal pomodoro timer for kids.

Finished focus sessions earn points that buy themes, avatars and path
animals in the shop. Badges and streaks track progress over time.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		logger = log.NewWithOptions(os.Stderr, log.Options{
			Prefix:          "kidstimer",
			Level:           cfg.Level(),
			ReportTimestamp: true,
		})
		return nil
	},
	RunE: runTUI,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openSlot() (*store.Store, error) {
	s, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return s, nil
}

func openApp(s *store.Store) *app.App {
	return app.Open(s, app.Options{
		Logger:      logger,
		HistoryDays: cfg.HistoryDays,
		Bonuses:     cfg.Bonuses,
	})
}

func runTUI(cmd *cobra.Command, args []string) error {
	// The alt screen owns stdout and stderr, so logs go to a file.
	logPath := filepath.Join(filepath.Dir(cfg.DBPath), "kidstimer.log")
	f, err := tea.LogToFile(logPath, "")
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()
	logger.SetOutput(f)

	s, err := openSlot()
	if err != nil {
		return err
	}
	defer s.Close()

	core := openApp(s)
	defer core.Close()

	p := tea.NewProgram(tui.NewApp(core), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
