package profile

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/kidstimer/internal/apperr"
	"github.com/sadopc/kidstimer/internal/catalog"
	"github.com/sadopc/kidstimer/internal/state"
)

func newManager() *Manager {
	m := New(catalog.Default())
	n := 0
	m.newID = func() string {
		n++
		return fmt.Sprintf("profile-%d", n)
	}
	return m
}

func ptr[T any](v T) *T { return &v }

func TestCreate(t *testing.T) {
	m := newManager()
	s := state.New()

	p, err := m.Create(s, "  Ana ", "", "")
	require.NoError(t, err)
	assert.Equal(t, "profile-1", p.ID)
	assert.Equal(t, "Ana", p.Name)
	assert.Equal(t, state.DefaultAvatar, p.Avatar)
	assert.Equal(t, state.DefaultTheme, p.Theme)
	assert.Zero(t, p.Points)

	require.NotNil(t, s.ActiveProfileID)
	assert.Equal(t, "profile-1", *s.ActiveProfileID)
}

func TestCreateRealIDsAreUnique(t *testing.T) {
	m := New(catalog.Default())
	s := state.New()
	a, err := m.Create(s, "A", "", "")
	require.NoError(t, err)
	b, err := m.Create(s, "B", "", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(a.ID, "profile-"))
	assert.NotEqual(t, a.ID, b.ID)
}

func TestCreateValidation(t *testing.T) {
	m := newManager()
	s := state.New()

	for _, name := range []string{"", "   ", "\t\n", strings.Repeat("a", MaxNameLength+1)} {
		_, err := m.Create(s, name, "", "")
		assert.ErrorIs(t, err, apperr.ErrValidation, "name %q", name)
	}
	_, err := m.Create(s, "Ana", "dragon", "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = m.Create(s, "Ana", "", "espaco")
	assert.ErrorIs(t, err, apperr.ErrLocked, "new profiles only own the default themes")

	assert.Empty(t, s.Profiles)
	assert.Nil(t, s.ActiveProfileID)
}

func TestCreateWithChoices(t *testing.T) {
	m := newManager()
	s := state.New()
	p, err := m.Create(s, "Bia", "rabbit", "minimalista")
	require.NoError(t, err)
	assert.Equal(t, "minimalista", p.Theme)
}

func TestSwitchActive(t *testing.T) {
	m := newManager()
	s := state.New()
	_, err := m.Create(s, "Ana", "", "")
	require.NoError(t, err)
	_, err = m.Create(s, "Bia", "", "")
	require.NoError(t, err)

	require.NoError(t, m.SwitchActive(s, "profile-1"))
	active, ok := m.Active(s)
	require.True(t, ok)
	assert.Equal(t, "Ana", active.Name)

	assert.ErrorIs(t, m.SwitchActive(s, "nope"), apperr.ErrNotFound)
	assert.Equal(t, "profile-1", *s.ActiveProfileID)
}

func TestProfilesDoNotShareState(t *testing.T) {
	m := newManager()
	s := state.New()
	_, err := m.Create(s, "Ana", "", "")
	require.NoError(t, err)
	_, err = m.Create(s, "Bia", "", "")
	require.NoError(t, err)

	s.Profile("profile-1").UnlockedAvatars = append(s.Profile("profile-1").UnlockedAvatars, "fox")
	assert.NotContains(t, s.Profile("profile-2").UnlockedAvatars, "fox")
}

func TestUpdate(t *testing.T) {
	m := newManager()
	s := state.New()
	_, err := m.Create(s, "Ana", "", "")
	require.NoError(t, err)

	p, err := m.Update(s, "profile-1", Patch{Name: ptr(" Ana Clara "), ProgressIndicator: ptr(state.IndicatorPath)})
	require.NoError(t, err)
	assert.Equal(t, "Ana Clara", p.Name)
	assert.Equal(t, state.IndicatorPath, p.ProgressIndicator)
	assert.Equal(t, []state.Indicator{state.IndicatorPath}, p.TriedIndicators)

	_, err = m.Update(s, "profile-1", Patch{ProgressIndicator: ptr(state.IndicatorPath)})
	require.NoError(t, err)
	assert.Len(t, s.Profile("profile-1").TriedIndicators, 1, "tried indicators are a set")
}

func TestUpdateIsAtomic(t *testing.T) {
	m := newManager()
	s := state.New()
	_, err := m.Create(s, "Ana", "", "")
	require.NoError(t, err)

	_, err = m.Update(s, "profile-1", Patch{Name: ptr("Bia"), Avatar: ptr("owl")})
	assert.ErrorIs(t, err, apperr.ErrLocked)
	assert.Equal(t, "Ana", s.Profile("profile-1").Name)

	_, err = m.Update(s, "profile-1", Patch{Name: ptr("Bia"), ProgressIndicator: ptr(state.Indicator("spiral"))})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "Ana", s.Profile("profile-1").Name)
	assert.Empty(t, s.Profile("profile-1").TriedIndicators)

	_, err = m.Update(s, "profile-1", Patch{Name: ptr("   ")})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = m.Update(s, "ghost", Patch{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGetListReturnCopies(t *testing.T) {
	m := newManager()
	s := state.New()
	_, err := m.Create(s, "Ana", "", "")
	require.NoError(t, err)

	got, err := m.Get(s, "profile-1")
	require.NoError(t, err)
	got.Badges = append(got.Badges, "forged")
	assert.Empty(t, s.Profile("profile-1").Badges)

	list := m.List(s)
	require.Len(t, list, 1)
	list[0].Name = "Changed"
	assert.Equal(t, "Ana", s.Profiles[0].Name)

	_, err = m.Get(s, "ghost")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestLogout(t *testing.T) {
	m := newManager()
	s := state.New()
	_, err := m.Create(s, "Ana", "", "")
	require.NoError(t, err)

	m.Logout(s)
	assert.Nil(t, s.ActiveProfileID)
	_, ok := m.Active(s)
	assert.False(t, ok)
	assert.Len(t, s.Profiles, 1)
}

func TestDelete(t *testing.T) {
	m := newManager()
	s := state.New()
	for _, n := range []string{"Ana", "Bia", "Caio"} {
		_, err := m.Create(s, n, "", "")
		require.NoError(t, err)
	}
	s.SessionHistory = []state.SessionRecord{{ProfileID: "profile-3"}, {ProfileID: "profile-1"}}

	// Active is Caio; deleting it moves the pointer to the first profile.
	require.NoError(t, m.Delete(s, "profile-3"))
	assert.Len(t, s.Profiles, 2)
	assert.Equal(t, "profile-1", *s.ActiveProfileID)
	assert.Equal(t, []state.SessionRecord{{ProfileID: "profile-1"}}, s.SessionHistory)

	// Deleting an inactive profile leaves the pointer alone.
	require.NoError(t, m.Delete(s, "profile-2"))
	assert.Equal(t, "profile-1", *s.ActiveProfileID)

	require.NoError(t, m.Delete(s, "profile-1"))
	assert.Nil(t, s.ActiveProfileID)
	assert.Empty(t, s.Profiles)

	assert.ErrorIs(t, m.Delete(s, "profile-1"), apperr.ErrNotFound)
}
