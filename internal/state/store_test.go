package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreDefaults(t *testing.T) {
	s := New()
	assert.Equal(t, CurrentVersion, s.Version)
	assert.Empty(t, s.Profiles)
	assert.Nil(t, s.ActiveProfileID)
	assert.Nil(t, s.TimerState)
	assert.Equal(t, StatusIdle, s.Status())
	assert.Equal(t, 0.8, s.GlobalSettings.MasterVolume)
	assert.True(t, s.GlobalSettings.Alerts.OneMinute)
}

func TestNewProfileDefaults(t *testing.T) {
	p := NewProfile("profile-1", "Ana")
	assert.Equal(t, "rabbit", p.Avatar)
	assert.Equal(t, "divertido", p.Theme)
	assert.Equal(t, IndicatorCircular, p.ProgressIndicator)
	assert.Equal(t, []string{"divertido", "minimalista"}, p.UnlockedThemes)
	assert.True(t, p.Owns(KindSoundscape, "piano-calmo"))
	assert.True(t, p.Owns(KindEnergeticTrack, "happy-ukulele"))
	assert.False(t, p.Owns(KindAvatar, "fox"))
	assert.False(t, p.Owns(ItemKind("hat"), "rabbit"))

	// default slices must not alias the package-level defaults
	p.UnlockedThemes[0] = "x"
	assert.Equal(t, "divertido", DefaultThemes[0])
}

func TestActiveProfile(t *testing.T) {
	s := New()
	s.Profiles = append(s.Profiles, NewProfile("a", "Ana"), NewProfile("b", "Bia"))
	assert.Nil(t, s.ActiveProfile())

	id := "b"
	s.ActiveProfileID = &id
	require.NotNil(t, s.ActiveProfile())
	assert.Equal(t, "Bia", s.ActiveProfile().Name)

	missing := "zzz"
	s.ActiveProfileID = &missing
	assert.Nil(t, s.ActiveProfile())
}

func TestAddBadgeIsMonotone(t *testing.T) {
	p := NewProfile("a", "Ana")
	assert.True(t, p.AddBadge("primeiro-passo"))
	assert.False(t, p.AddBadge("primeiro-passo"))
	assert.Len(t, p.Badges, 1)
}

func TestCloneIsDeep(t *testing.T) {
	s := New()
	s.Profiles = append(s.Profiles, NewProfile("a", "Ana"))
	id := "a"
	s.ActiveProfileID = &id
	paused := StatusWorking
	s.TimerState = &TimerState{Status: StatusPaused, PausedStatus: &paused}

	c := s.Clone()
	c.Profiles[0].Badges = append(c.Profiles[0].Badges, "x")
	c.Profiles[0].Name = "Changed"
	*c.ActiveProfileID = "b"
	*c.TimerState.PausedStatus = StatusBreak

	assert.Empty(t, s.Profiles[0].Badges)
	assert.Equal(t, "Ana", s.Profiles[0].Name)
	assert.Equal(t, "a", *s.ActiveProfileID)
	assert.Equal(t, StatusWorking, *s.TimerState.PausedStatus)
}

func TestMillisRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.Local)
	assert.True(t, FromMillis(Millis(now)).Equal(now))
	assert.Equal(t, "2026-03-04", Day(now))
}

func TestIndicatorValid(t *testing.T) {
	for _, i := range Indicators {
		assert.True(t, i.Valid(), i)
	}
	assert.False(t, Indicator("spiral").Valid())
}
