// Package rewards turns work completions into points, streaks and badges,
// and runs the shop: buying and equipping catalog items.
package rewards

import (
	"time"

	"github.com/sadopc/kidstimer/internal/apperr"
	"github.com/sadopc/kidstimer/internal/catalog"
	"github.com/sadopc/kidstimer/internal/state"
	"github.com/sadopc/kidstimer/internal/timer"
)

const (
	// CompletionAward is credited for every completed work phase regardless
	// of its length.
	CompletionAward = 15

	// Optional bonuses, off unless EnableBonuses is called.
	FirstOfDayBonus = 5
	StreakBonus     = 5

	DefaultHistoryDays = 30

	sessionTypePomodoro = "pomodoro"
)

type Engine struct {
	catalog     *catalog.Catalog
	historyDays int
	bonuses     bool
}

func New(c *catalog.Catalog, historyDays int) *Engine {
	if historyDays <= 0 {
		historyDays = DefaultHistoryDays
	}
	return &Engine{catalog: c, historyDays: historyDays}
}

// EnableBonuses adds FirstOfDayBonus to the first completion of a day and
// StreakBonus to every completion made while a streak is running.
func (e *Engine) EnableBonuses() {
	e.bonuses = true
}

// Completion describes what a single work completion earned.
type Completion struct {
	ProfileID string
	Points    int
	// FirstOfDay is set when the completion falls on a different day than
	// the last-date marker.
	FirstOfDay bool
	Day        string
	Badges     []catalog.Badge
}

func errNoActiveProfile() error {
	return apperr.NotFound("no active profile")
}

// OnWorkCompleted credits the active profile for a work completion event.
// lastDate is the value of the kids-timer-last-date marker; the caller
// writes Completion.Day back to it.
func (e *Engine) OnWorkCompleted(s *state.Store, ev timer.Event, lastDate string) (Completion, error) {
	p := s.ActiveProfile()
	if p == nil {
		return Completion{}, errNoActiveProfile()
	}
	day := state.Day(ev.At)
	first := lastDate != day

	points := CompletionAward
	if e.bonuses {
		if first {
			points += FirstOfDayBonus
		}
		if p.CurrentStreak > 0 {
			points += StreakBonus
		}
	}
	p.Points += points
	p.TotalPomodoros++
	p.TotalMinutes += ev.WorkMinutes
	updateStreak(p, day)

	s.SessionHistory = append(s.SessionHistory, state.SessionRecord{
		ProfileID:     p.ID,
		Date:          ev.At,
		Type:          sessionTypePomodoro,
		WorkDuration:  ev.WorkMinutes,
		BreakDuration: ev.BreakMinutes,
		Completed:     true,
	})
	e.prune(s, ev.At)

	return Completion{
		ProfileID:  p.ID,
		Points:     points,
		FirstOfDay: first,
		Day:        day,
		Badges:     e.Evaluate(s, p, ev.At),
	}, nil
}

func updateStreak(p *state.Profile, day string) {
	switch {
	case p.LastActiveDate == day:
		if p.CurrentStreak == 0 {
			p.CurrentStreak = 1
		}
	case p.LastActiveDate > day:
		// Completion dated before the last active day (clock moved back).
		return
	case p.LastActiveDate == previousDay(day):
		p.CurrentStreak++
	default:
		p.CurrentStreak = 1
	}
	p.LongestStreak = max(p.LongestStreak, p.CurrentStreak)
	p.LastActiveDate = day
}

func previousDay(day string) string {
	t, err := time.ParseInLocation(time.DateOnly, day, time.Local)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(time.DateOnly)
}

func (e *Engine) prune(s *state.Store, now time.Time) {
	cutoff := now.AddDate(0, 0, -e.historyDays)
	kept := s.SessionHistory[:0]
	for _, r := range s.SessionHistory {
		if !r.Date.Before(cutoff) {
			kept = append(kept, r)
		}
	}
	s.SessionHistory = kept
}

// CompletedOn counts the profile's completed sessions on the local day of now.
func CompletedOn(s *state.Store, profileID string, now time.Time) int {
	day := state.Day(now)
	n := 0
	for _, r := range s.SessionHistory {
		if r.ProfileID == profileID && r.Completed && state.Day(r.Date) == day {
			n++
		}
	}
	return n
}

// Evaluate unlocks every badge whose rule p now satisfies and returns the
// newly unlocked ones. Badges are never removed.
func (e *Engine) Evaluate(s *state.Store, p *state.Profile, now time.Time) []catalog.Badge {
	var unlocked []catalog.Badge
	for _, b := range e.catalog.Badges() {
		if p.HasBadge(b.ID) {
			continue
		}
		if metric(s, p, b.Rule.Metric, now) >= b.Rule.Threshold && p.AddBadge(b.ID) {
			unlocked = append(unlocked, b)
		}
	}
	return unlocked
}

func metric(s *state.Store, p *state.Profile, m catalog.Metric, now time.Time) int {
	switch m {
	case catalog.MetricTotalPomodoros:
		return p.TotalPomodoros
	case catalog.MetricPomodorosToday:
		return CompletedOn(s, p.ID, now)
	case catalog.MetricCurrentStreak:
		return p.CurrentStreak
	case catalog.MetricIndicatorsTried:
		return len(p.TriedIndicators)
	case catalog.MetricUnlockedThemes:
		return len(p.UnlockedThemes)
	}
	return 0
}

// AwardDebugPoints credits n points to the active profile.
func (e *Engine) AwardDebugPoints(s *state.Store, n int, now time.Time) ([]catalog.Badge, error) {
	if n <= 0 {
		return nil, apperr.Validation("debug award must be positive, got %d", n)
	}
	p := s.ActiveProfile()
	if p == nil {
		return nil, errNoActiveProfile()
	}
	p.Points += n
	return e.Evaluate(s, p, now), nil
}
