package rewards

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/kidstimer/internal/apperr"
	"github.com/sadopc/kidstimer/internal/catalog"
	"github.com/sadopc/kidstimer/internal/state"
	"github.com/sadopc/kidstimer/internal/timer"
)

var day1 = time.Date(2026, 5, 4, 10, 0, 0, 0, time.Local)

func newStore(t *testing.T) (*state.Store, *state.Profile) {
	t.Helper()
	s := state.New()
	s.Profiles = append(s.Profiles, state.NewProfile("p1", "Ana"))
	id := "p1"
	s.ActiveProfileID = &id
	return s, s.ActiveProfile()
}

func completion(at time.Time, work int) timer.Event {
	return timer.Event{
		Kind:         timer.EventWorkCompleted,
		At:           at,
		WorkEnd:      state.Millis(at),
		WorkMinutes:  work,
		BreakMinutes: 5,
	}
}

func badgeIDs(bs []catalog.Badge) []string {
	var out []string
	for _, b := range bs {
		out = append(out, b.ID)
	}
	return out
}

func TestOnWorkCompletedFirstSession(t *testing.T) {
	e := New(catalog.Default(), 0)
	s, p := newStore(t)

	c, err := e.OnWorkCompleted(s, completion(day1, 1), "")
	require.NoError(t, err)

	assert.Equal(t, "p1", c.ProfileID)
	assert.Equal(t, CompletionAward, c.Points)
	assert.True(t, c.FirstOfDay)
	assert.Equal(t, "2026-05-04", c.Day)
	assert.Equal(t, []string{"primeiro-passo"}, badgeIDs(c.Badges))

	assert.Equal(t, 15, p.Points)
	assert.Equal(t, 1, p.TotalPomodoros)
	assert.Equal(t, 1, p.TotalMinutes)
	assert.Equal(t, 1, p.CurrentStreak)
	assert.Equal(t, 1, p.LongestStreak)
	assert.Equal(t, "2026-05-04", p.LastActiveDate)

	require.Len(t, s.SessionHistory, 1)
	r := s.SessionHistory[0]
	assert.Equal(t, "p1", r.ProfileID)
	assert.True(t, r.Completed)
	assert.Equal(t, 1, r.WorkDuration)
}

func TestAwardIsIndependentOfDuration(t *testing.T) {
	e := New(catalog.Default(), 0)
	s, p := newStore(t)

	_, err := e.OnWorkCompleted(s, completion(day1, 1), "")
	require.NoError(t, err)
	_, err = e.OnWorkCompleted(s, completion(day1.Add(time.Hour), 50), "2026-05-04")
	require.NoError(t, err)

	assert.Equal(t, 30, p.Points)
	assert.Equal(t, 2, p.TotalPomodoros)
	assert.Equal(t, 51, p.TotalMinutes)
}

func TestFirstOfDayFollowsMarker(t *testing.T) {
	e := New(catalog.Default(), 0)
	s, _ := newStore(t)

	c, err := e.OnWorkCompleted(s, completion(day1, 25), "2026-05-04")
	require.NoError(t, err)
	assert.False(t, c.FirstOfDay)

	c, err = e.OnWorkCompleted(s, completion(day1.AddDate(0, 0, 1), 25), "2026-05-04")
	require.NoError(t, err)
	assert.True(t, c.FirstOfDay)
	assert.Equal(t, "2026-05-05", c.Day)
}

func TestStreakBookkeeping(t *testing.T) {
	tests := []struct {
		name         string
		lastActive   string
		streak       int
		longest      int
		wantStreak   int
		wantLongest  int
		wantLastDate string
	}{
		{"first ever", "", 0, 0, 1, 1, "2026-05-04"},
		{"yesterday", "2026-05-03", 3, 3, 4, 4, "2026-05-04"},
		{"same day", "2026-05-04", 3, 5, 3, 5, "2026-05-04"},
		{"gap", "2026-05-01", 6, 6, 1, 6, "2026-05-04"},
		{"month boundary", "2026-04-30", 2, 2, 1, 2, "2026-05-04"},
		{"clock moved back", "2026-05-06", 2, 2, 2, 2, "2026-05-06"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := state.NewProfile("p", "Ana")
			p.LastActiveDate = tt.lastActive
			p.CurrentStreak = tt.streak
			p.LongestStreak = tt.longest
			updateStreak(&p, "2026-05-04")
			assert.Equal(t, tt.wantStreak, p.CurrentStreak)
			assert.Equal(t, tt.wantLongest, p.LongestStreak)
			assert.Equal(t, tt.wantLastDate, p.LastActiveDate)
		})
	}
}

func TestPreviousDayCrossesMonth(t *testing.T) {
	assert.Equal(t, "2026-02-28", previousDay("2026-03-01"))
	assert.Equal(t, "2025-12-31", previousDay("2026-01-01"))
	assert.Equal(t, "", previousDay("garbage"))
}

func TestCompletionsTodayUnlockDailyBadges(t *testing.T) {
	e := New(catalog.Default(), 0)
	s, p := newStore(t)

	var got []string
	for i := 0; i < 10; i++ {
		c, err := e.OnWorkCompleted(s, completion(day1.Add(time.Duration(i)*time.Minute), 1), "")
		require.NoError(t, err)
		got = append(got, badgeIDs(c.Badges)...)
	}
	assert.Equal(t, []string{"primeiro-passo", "cinco-seguidos", "maratonista"}, got)
	assert.Equal(t, 10, CompletedOn(s, p.ID, day1))
	assert.Equal(t, 0, CompletedOn(s, p.ID, day1.AddDate(0, 0, 1)))
}

func TestEvaluateIsIdempotentAndMonotone(t *testing.T) {
	e := New(catalog.Default(), 0)
	s, p := newStore(t)
	p.TotalPomodoros = 100
	p.CurrentStreak = 30

	first := e.Evaluate(s, p, day1)
	assert.ElementsMatch(t, []string{"primeiro-passo", "centuriao", "consistente", "dedicado"}, badgeIDs(first))

	assert.Empty(t, e.Evaluate(s, p, day1))
	before := len(p.Badges)

	// Counters dropping never revokes.
	p.CurrentStreak = 0
	assert.Empty(t, e.Evaluate(s, p, day1))
	assert.Len(t, p.Badges, before)
}

func TestExplorerAndFashionistaBadges(t *testing.T) {
	e := New(catalog.Default(), 0)
	s, p := newStore(t)

	p.TriedIndicators = []state.Indicator{state.IndicatorCircular, state.IndicatorPath, state.IndicatorHourglass}
	assert.Empty(t, e.Evaluate(s, p, day1))
	p.TriedIndicators = append(p.TriedIndicators, state.IndicatorBar)
	assert.Equal(t, []string{"explorador"}, badgeIDs(e.Evaluate(s, p, day1)))

	p.UnlockedThemes = append(p.UnlockedThemes, "floresta")
	assert.Equal(t, []string{"fashionista"}, badgeIDs(e.Evaluate(s, p, day1)))
}

func TestHistoryIsPruned(t *testing.T) {
	e := New(catalog.Default(), 30)
	s, _ := newStore(t)
	s.SessionHistory = []state.SessionRecord{
		{ProfileID: "p1", Date: day1.AddDate(0, 0, -45), Completed: true},
		{ProfileID: "p1", Date: day1.AddDate(0, 0, -29), Completed: true},
	}
	_, err := e.OnWorkCompleted(s, completion(day1, 25), "")
	require.NoError(t, err)

	require.Len(t, s.SessionHistory, 2)
	assert.True(t, s.SessionHistory[0].Date.Equal(day1.AddDate(0, 0, -29)))
}

func TestCompletionWithoutActiveProfile(t *testing.T) {
	e := New(catalog.Default(), 0)
	s := state.New()
	_, err := e.OnWorkCompleted(s, completion(day1, 25), "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Empty(t, s.SessionHistory)
}

func TestAwardDebugPoints(t *testing.T) {
	e := New(catalog.Default(), 0)
	s, p := newStore(t)

	_, err := e.AwardDebugPoints(s, 50, day1)
	require.NoError(t, err)
	assert.Equal(t, 50, p.Points)

	_, err = e.AwardDebugPoints(s, 0, day1)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = e.AwardDebugPoints(s, -3, day1)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, 50, p.Points)

	s.ActiveProfileID = nil
	_, err = e.AwardDebugPoints(s, 5, day1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestBonusesWhenEnabled(t *testing.T) {
	e := New(catalog.Default(), 0)
	e.EnableBonuses()
	s, p := newStore(t)

	c, err := e.OnWorkCompleted(s, completion(day1, 25), "")
	require.NoError(t, err)
	assert.Equal(t, CompletionAward+FirstOfDayBonus, c.Points, "no streak running yet")

	c, err = e.OnWorkCompleted(s, completion(day1.Add(time.Hour), 25), "2026-05-04")
	require.NoError(t, err)
	assert.Equal(t, CompletionAward+StreakBonus, c.Points)

	c, err = e.OnWorkCompleted(s, completion(day1.AddDate(0, 0, 1), 25), "2026-05-04")
	require.NoError(t, err)
	assert.Equal(t, CompletionAward+FirstOfDayBonus+StreakBonus, c.Points)

	assert.Equal(t, 20+20+25, p.Points)
}
