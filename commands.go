package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sadopc/kidstimer/internal/app"
	"github.com/sadopc/kidstimer/internal/codec"
	"github.com/sadopc/kidstimer/internal/export"
	"github.com/sadopc/kidstimer/internal/store"
)

var errNeedYes = errors.New("this replaces all saved data, rerun with --yes")

var assumeYes bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active profile and timer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(s *store.Store, core *app.App) error {
			saved, err := s.UpdatedAt(store.KeyData)
			if err != nil {
				return err
			}
			return printStatus(cmd.OutOrStdout(), core.Snapshot(), saved)
		})
	},
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(_ *store.Store, core *app.App) error {
			snap := core.Snapshot()
			out := cmd.OutOrStdout()
			if len(snap.Store.Profiles) == 0 {
				fmt.Fprintln(out, "no profiles yet")
				return nil
			}
			for _, p := range snap.Store.Profiles {
				mark := " "
				if snap.Active != nil && snap.Active.ID == p.ID {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %-30s %6s pts  %3d pomodoros  %d badges\n",
					mark, p.Name, humanize.Comma(int64(p.Points)), p.TotalPomodoros, len(p.Badges))
			}
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file.json>",
	Short: "Write a JSON backup of all profiles and history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(_ *store.Store, core *app.App) error {
			snap := core.Snapshot()
			if err := export.ToJSON(snap.Store, args[0], snap.Now); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Replace saved data with a JSON backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !assumeYes {
			return errNeedYes
		}
		imported, err := export.FromJSON(args[0])
		if err != nil {
			return err
		}
		s, err := openSlot()
		if err != nil {
			return err
		}
		defer s.Close()
		if err := codec.New(s, logger).Save(imported); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d profiles\n", len(imported.Profiles))
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all saved data",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !assumeYes {
			return errNeedYes
		}
		s, err := openSlot()
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "all data removed")
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "confirm replacing saved data")
	resetCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "confirm deleting saved data")

	rootCmd.AddCommand(statusCmd, profilesCmd, exportCmd, importCmd, resetCmd)
}

// withApp opens the store and core for one command and flushes on return.
func withApp(fn func(*store.Store, *app.App) error) error {
	s, err := openSlot()
	if err != nil {
		return err
	}
	defer s.Close()

	core := openApp(s)
	defer core.Close()
	return fn(s, core)
}

func printStatus(w io.Writer, snap app.Snapshot, saved time.Time) error {
	p := snap.Active
	if p == nil {
		_, err := fmt.Fprintln(w, "no active profile")
		return err
	}

	fmt.Fprintf(w, "profile:   %s\n", p.Name)
	fmt.Fprintf(w, "points:    %s\n", humanize.Comma(int64(p.Points)))
	fmt.Fprintf(w, "pomodoros: %d (%d today, %d minutes total)\n", p.TotalPomodoros, snap.Today, p.TotalMinutes)
	fmt.Fprintf(w, "streak:    %d days (best %d)\n", p.CurrentStreak, p.LongestStreak)
	if p.LastActiveDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", p.LastActiveDate, time.Local); err == nil {
			fmt.Fprintf(w, "active:    %s (%s)\n", p.LastActiveDate, humanize.RelTime(t, snap.Now, "ago", "from now"))
		}
	}

	timer := string(snap.Status)
	if snap.Store.TimerState != nil {
		timer = fmt.Sprintf("%s, %02d:%02d left", snap.Status, snap.Remaining/60, snap.Remaining%60)
	}
	fmt.Fprintf(w, "timer:     %s\n", timer)
	if !saved.IsZero() {
		fmt.Fprintf(w, "saved:     %s\n", humanize.RelTime(saved, snap.Now, "ago", "from now"))
	}
	return nil
}
