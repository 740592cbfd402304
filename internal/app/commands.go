package app

import (
	"time"

	"github.com/sadopc/kidstimer/internal/apperr"
	"github.com/sadopc/kidstimer/internal/catalog"
	"github.com/sadopc/kidstimer/internal/profile"
	"github.com/sadopc/kidstimer/internal/settings"
	"github.com/sadopc/kidstimer/internal/state"
	"github.com/sadopc/kidstimer/internal/timer"
)

// activeChanged stops a running timer when the active profile changed, so a
// session started by one profile is never credited to another.
func (a *App) activeChanged(prev *string, now time.Time) {
	cur := a.store.ActiveProfileID
	same := (prev == nil && cur == nil) || (prev != nil && cur != nil && *prev == *cur)
	if same || a.store.TimerState == nil {
		return
	}
	a.logger.Info("active profile changed, stopping timer", "status", a.store.Status())
	_ = timer.Stop(a.store, now)
}

func activeID(s *state.Store) *string {
	if s.ActiveProfileID == nil {
		return nil
	}
	id := *s.ActiveProfileID
	return &id
}

// CreateProfile adds a profile and makes it active.
func (a *App) CreateProfile(name, avatar, theme string) (state.Profile, error) {
	var p state.Profile
	err := a.do(func(now time.Time) error {
		prev := activeID(a.store)
		var err error
		p, err = a.profiles.Create(a.store, name, avatar, theme)
		if err != nil {
			return err
		}
		a.logger.Info("profile created", "profile", p.ID)
		a.activeChanged(prev, now)
		return nil
	})
	return p, err
}

func (a *App) SwitchProfile(id string) error {
	return a.do(func(now time.Time) error {
		prev := activeID(a.store)
		if err := a.profiles.SwitchActive(a.store, id); err != nil {
			return err
		}
		a.activeChanged(prev, now)
		return nil
	})
}

// EditProfile applies a partial update. Changing the progress indicator can
// unlock the explorer badge.
func (a *App) EditProfile(id string, patch profile.Patch) (state.Profile, error) {
	var p state.Profile
	err := a.do(func(now time.Time) error {
		var err error
		if p, err = a.profiles.Update(a.store, id, patch); err != nil {
			return err
		}
		if patch.ProgressIndicator != nil {
			live := a.store.Profile(id)
			a.badges(id, a.rewards.Evaluate(a.store, live, now), now)
			p = live.Clone()
		}
		return nil
	})
	return p, err
}

func (a *App) DeleteProfile(id string) error {
	return a.do(func(now time.Time) error {
		prev := activeID(a.store)
		if err := a.profiles.Delete(a.store, id); err != nil {
			return err
		}
		a.logger.Info("profile deleted", "profile", id)
		a.activeChanged(prev, now)
		return nil
	})
}

func (a *App) Logout() error {
	return a.do(func(now time.Time) error {
		prev := activeID(a.store)
		a.profiles.Logout(a.store)
		a.activeChanged(prev, now)
		return nil
	})
}

// StartTimer begins a work phase for the active profile.
func (a *App) StartTimer(p timer.Preset) error {
	return a.do(func(now time.Time) error {
		if a.store.ActiveProfile() == nil {
			return apperr.NotFound("no active profile")
		}
		if err := timer.Start(a.store, p, now); err != nil {
			return err
		}
		a.logger.Debug("timer started", "preset", p.ID, "work", p.Work, "break", p.Break)
		return nil
	})
}

// StartPreset starts one of the fixed presets by id.
func (a *App) StartPreset(id string) error {
	p, ok := timer.PresetByID(id)
	if !ok {
		return apperr.Validation("unknown preset %q", id)
	}
	return a.StartTimer(p)
}

func (a *App) PauseTimer() error {
	return a.do(func(now time.Time) error { return timer.Pause(a.store, now) })
}

func (a *App) ResumeTimer() error {
	return a.do(func(now time.Time) error { return timer.Resume(a.store, now) })
}

func (a *App) StopTimer() error {
	return a.do(func(now time.Time) error { return timer.Stop(a.store, now) })
}

func (a *App) SkipBreak() error {
	return a.do(func(now time.Time) error { return timer.Skip(a.store, now) })
}

func (a *App) BuyItem(kind state.ItemKind, id string) (catalog.Item, error) {
	var item catalog.Item
	err := a.do(func(now time.Time) error {
		var (
			badges []catalog.Badge
			err    error
		)
		item, badges, err = a.rewards.Buy(a.store, kind, id, now)
		if err != nil {
			return err
		}
		p := a.store.ActiveProfile()
		a.logger.Info("item bought", "profile", p.ID, "kind", kind, "item", id, "cost", item.Cost)
		a.badges(p.ID, badges, now)
		return nil
	})
	return item, err
}

func (a *App) SelectAvatar(id string) error {
	return a.do(func(time.Time) error { return a.rewards.SelectAvatar(a.store, id) })
}

func (a *App) SelectTheme(id string) error {
	return a.do(func(time.Time) error { return a.rewards.SelectTheme(a.store, id) })
}

func (a *App) SelectAnimal(id string) error {
	return a.do(func(time.Time) error { return a.rewards.SelectAnimal(a.store, id) })
}

func (a *App) SelectMusic(id string) error {
	return a.do(func(time.Time) error { return a.rewards.SelectMusic(a.store, id) })
}

// AwardDebugPoints credits n points to the active profile. The TUI gates it
// behind developer mode.
func (a *App) AwardDebugPoints(n int) error {
	return a.do(func(now time.Time) error {
		badges, err := a.rewards.AwardDebugPoints(a.store, n, now)
		if err != nil {
			return err
		}
		id := *a.store.ActiveProfileID
		a.logger.Warn("debug points awarded", "profile", id, "points", n)
		a.badges(id, badges, now)
		return nil
	})
}

func (a *App) ToggleSetting(key settings.Key) (bool, error) {
	var v bool
	err := a.do(func(time.Time) error {
		var err error
		v, err = settings.Toggle(&a.store.GlobalSettings, key)
		return err
	})
	return v, err
}

func (a *App) SetVolume(v float64) error {
	return a.do(func(time.Time) error { return settings.SetVolume(&a.store.GlobalSettings, v) })
}

func (a *App) SetDefaultPreset(id string) error {
	return a.do(func(time.Time) error { return settings.SetDefaultPreset(&a.store.GlobalSettings, id) })
}
