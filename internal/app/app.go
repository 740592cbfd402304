// Package app is the command surface the TUI and CLI drive. It owns the
// in-memory store, serialises commands with a mutex, and hands every
// committed change to the background flusher.
package app

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sadopc/kidstimer/internal/catalog"
	"github.com/sadopc/kidstimer/internal/codec"
	"github.com/sadopc/kidstimer/internal/profile"
	"github.com/sadopc/kidstimer/internal/rewards"
	"github.com/sadopc/kidstimer/internal/state"
	"github.com/sadopc/kidstimer/internal/store"
	"github.com/sadopc/kidstimer/internal/timer"
)

type Options struct {
	Logger      *log.Logger
	Catalog     *catalog.Catalog
	HistoryDays int
	Now         func() time.Time
	Bonuses     bool // first-of-day and streak point bonuses
}

type App struct {
	mu sync.Mutex

	store    *state.Store
	lastDate string
	pending  []Event

	flusher  *codec.Flusher
	catalog  *catalog.Catalog
	profiles *profile.Manager
	rewards  *rewards.Engine
	logger   *log.Logger
	now      func() time.Time
}

// Open loads the store from slot, migrates it and reconciles any timer that
// expired while nobody was watching. Events produced by reconciliation are
// available from Events. Open never fails: unreadable data starts fresh.
func Open(slot codec.Slot, opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := codec.New(slot, opts.Logger)
	a := &App{
		store:    c.Load(),
		lastDate: c.LastDate(),
		flusher:  codec.NewFlusher(slot, opts.Logger),
		catalog:  opts.Catalog,
		profiles: profile.New(opts.Catalog),
		rewards:  rewards.New(opts.Catalog, opts.HistoryDays),
		logger:   opts.Logger,
		now:      opts.Now,
	}

	if opts.Bonuses {
		a.rewards.EnableBonuses()
	}

	now := a.now()
	events, err := timer.Reconcile(a.store, now)
	if err != nil {
		a.logger.Warn("discarding saved timer", "err", err)
		a.pending = append(a.pending, Event{Kind: EventTimerDiscarded, At: now})
	}
	if len(events) > 0 {
		a.logger.Info("reconciled timer", "transitions", len(events), "status", a.store.Status())
	}
	a.handle(events, now)
	a.flush()
	return a
}

// Close flushes the store and waits for pending writes.
func (a *App) Close() {
	a.mu.Lock()
	a.flush()
	a.mu.Unlock()
	a.flusher.Close()
}

func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}

// Events drains events produced since the last call.
func (a *App) Events() []Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.pending
	a.pending = nil
	return out
}

func (a *App) flush() {
	a.flusher.Flush(a.store)
}

// handle turns timer events into app events, crediting completions to the
// active profile. Callers hold a.mu.
func (a *App) handle(events []timer.Event, now time.Time) {
	for _, ev := range events {
		switch ev.Kind {
		case timer.EventWorkCompleted:
			c, err := a.rewards.OnWorkCompleted(a.store, ev, a.lastDate)
			if err != nil {
				a.logger.Warn("work completed without a profile to credit", "err", err)
				a.pending = append(a.pending, Event{Kind: EventWorkCompleted, At: ev.At})
				continue
			}
			a.logger.Info("work completed", "profile", c.ProfileID, "points", c.Points, "minutes", ev.WorkMinutes)
			if c.Day != a.lastDate {
				a.lastDate = c.Day
				a.flusher.Queue(store.KeyLastDate, c.Day)
			}
			a.pending = append(a.pending, Event{
				Kind:       EventWorkCompleted,
				At:         ev.At,
				ProfileID:  c.ProfileID,
				Points:     c.Points,
				FirstOfDay: c.FirstOfDay,
			})
			a.badges(c.ProfileID, c.Badges, now)
		case timer.EventBreakCompleted:
			a.pending = append(a.pending, Event{Kind: EventBreakCompleted, At: ev.At})
		case timer.EventAlert:
			a.pending = append(a.pending, Event{Kind: EventAlert, At: ev.At, Alert: ev.Alert})
		}
	}
}

func (a *App) badges(profileID string, badges []catalog.Badge, now time.Time) {
	for _, b := range badges {
		a.logger.Info("badge unlocked", "profile", profileID, "badge", b.ID)
		a.pending = append(a.pending, Event{Kind: EventBadgeUnlocked, At: now, ProfileID: profileID, Badge: b})
	}
}

// do runs a command under the lock. Transitions that came due since the
// last tick are applied first, so a command never acts on a stale phase.
// The store is flushed whenever anything may have changed.
func (a *App) do(fn func(now time.Time) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	due := timer.Advance(a.store, now)
	a.handle(due, now)

	err := fn(now)
	if err == nil || len(due) > 0 {
		a.flush()
	}
	return err
}

// Tick advances the countdown and returns the events it and any earlier
// command produced. It only writes when a phase changed.
func (a *App) Tick() []Event {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	before := a.store.Status()
	events := timer.Tick(a.store, now, a.store.GlobalSettings.Alerts)
	a.handle(events, now)
	if a.store.Status() != before {
		a.logger.Debug("timer phase changed", "from", before, "to", a.store.Status())
		a.flush()
	}

	out := a.pending
	a.pending = nil
	return out
}

// Snapshot is a consistent, deep-copied view for rendering.
type Snapshot struct {
	Store     *state.Store
	Active    *state.Profile
	Status    state.Status
	Remaining int
	Progress  float64
	Today     int
	Now       time.Time
}

func (a *App) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	s := a.store.Clone()
	snap := Snapshot{
		Store:     s,
		Active:    s.ActiveProfile(),
		Status:    s.Status(),
		Remaining: timer.Remaining(s.TimerState, now),
		Progress:  timer.Progress(s.TimerState, now),
		Now:       now,
	}
	if snap.Active != nil {
		snap.Today = rewards.CompletedOn(s, snap.Active.ID, now)
	}
	return snap
}
