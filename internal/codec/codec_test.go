package codec

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/sadopc/kidstimer/internal/apperr"
	"github.com/sadopc/kidstimer/internal/state"
	"github.com/sadopc/kidstimer/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

func newSlot(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// memSlot is a map-backed Slot with optional injected failures.
type memSlot struct {
	mu      sync.Mutex
	values  map[string]string
	writes  int
	failGet error
	failSet error
}

func newMemSlot() *memSlot {
	return &memSlot{values: make(map[string]string)}
}

func (m *memSlot) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return "", false, m.failGet
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memSlot) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet != nil {
		return m.failSet
	}
	m.writes++
	m.values[key] = value
	return nil
}

// v1Blob mirrors the layout the browser build wrote before schema version 2.
const v1Blob = `{
	"version": 1,
	"profiles": [{
		"id": "test-profile-001",
		"name": "Teste",
		"avatar": "rabbit",
		"theme": "divertido",
		"progressIndicator": "circular",
		"musicPreference": "none",
		"totalPomodoros": 3,
		"totalMinutes": 75,
		"currentStreak": 0,
		"longestStreak": 0,
		"lastActiveDate": null,
		"points": 100,
		"unlockedThemes": ["divertido", "minimalista"],
		"unlockedAvatars": ["rabbit"],
		"badges": ["primeiro-passo"]
	}],
	"activeProfileId": "test-profile-001",
	"globalSettings": {
		"masterVolume": 0.7,
		"soundEffectsEnabled": true,
		"defaultPreset": "25-5"
	},
	"sessionHistory": [],
	"timerState": null
}`

func TestLoadMissingReturnsDefault(t *testing.T) {
	c := New(newSlot(t), discardLogger())
	s := c.Load()
	assert.Equal(t, state.CurrentVersion, s.Version)
	assert.Empty(t, s.Profiles)
	assert.Nil(t, s.ActiveProfileID)
}

func TestLoadGarbageFallsBack(t *testing.T) {
	for name, raw := range map[string]string{
		"truncated":  `{"version": 2, "profiles": [`,
		"not json":   `hello`,
		"wrong type": `{"version": 2, "profiles": "nope"}`,
		"array":      `[1,2,3]`,
		"version 0":  `{"version": 0}`,
	} {
		t.Run(name, func(t *testing.T) {
			slot := newMemSlot()
			slot.values[store.KeyData] = raw
			s := New(slot, discardLogger()).Load()
			assert.Empty(t, s.Profiles)
			assert.Equal(t, state.DefaultSettings(), s.GlobalSettings)
		})
	}
}

func TestLoadFutureVersionIsTreatedAsMissing(t *testing.T) {
	slot := newMemSlot()
	slot.values[store.KeyData] = `{"version": 99, "profiles": [{"id": "x", "name": "X"}]}`
	s := New(slot, discardLogger()).Load()
	assert.Empty(t, s.Profiles)
}

func TestLoadReadErrorFallsBack(t *testing.T) {
	slot := newMemSlot()
	slot.failGet = errors.New("disk on fire")
	s := New(slot, discardLogger()).Load()
	assert.NotNil(t, s)
	assert.Empty(t, s.Profiles)
}

func TestMigrateErrorsCarryDecodeCode(t *testing.T) {
	_, err := Migrate([]byte(`{`))
	assert.ErrorIs(t, err, apperr.ErrDecode)
	_, err = Migrate([]byte(`{"version": 7}`))
	assert.ErrorIs(t, err, apperr.ErrDecode)
}

func TestMigrateV1FillsNewFields(t *testing.T) {
	s, err := Migrate([]byte(v1Blob))
	require.NoError(t, err)

	assert.Equal(t, state.CurrentVersion, s.Version)
	require.Len(t, s.Profiles, 1)
	p := s.Profiles[0]
	assert.Equal(t, 100, p.Points)
	assert.Equal(t, []string{"primeiro-passo"}, p.Badges)
	assert.Equal(t, state.DefaultSoundscapes, p.UnlockedSoundscapes)
	assert.Equal(t, state.DefaultEnergeticTracks, p.UnlockedEnergeticTracks)
	assert.Equal(t, state.DefaultAnimals, p.UnlockedAnimals)
	assert.Equal(t, "rabbit", p.PathAnimal)
	assert.NotNil(t, p.TriedIndicators)
	assert.Equal(t, "", p.LastActiveDate)

	// Settings keep explicit values and gain defaults for absent keys.
	assert.Equal(t, 0.7, s.GlobalSettings.MasterVolume)
	assert.True(t, s.GlobalSettings.HapticEnabled)
	assert.True(t, s.GlobalSettings.Alerts.OneMinute)

	require.NotNil(t, s.ActiveProfileID)
	assert.Equal(t, "test-profile-001", *s.ActiveProfileID)
}

func TestMigrateMissingVersionIsV1(t *testing.T) {
	s, err := Migrate([]byte(`{"profiles": [{"id": "a", "name": "Ana"}]}`))
	require.NoError(t, err)
	require.Len(t, s.Profiles, 1)
	assert.Equal(t, state.DefaultSoundscapes, s.Profiles[0].UnlockedSoundscapes)
}

func TestNormalizeEnforcesInvariants(t *testing.T) {
	raw := `{
		"version": 2,
		"profiles": [
			{"id": "a", "name": "  Ana  ", "points": -5, "currentStreak": 4, "longestStreak": 1,
			 "badges": ["x", "x", ""], "triedIndicators": ["bar", "bar", "spiral"], "progressIndicator": "spiral"},
			{"id": "a", "name": "Duplicate"},
			{"id": "", "name": "No id"},
			{"id": "b", "name": "   "}
		],
		"activeProfileId": "ghost",
		"globalSettings": {"masterVolume": 3, "defaultPreset": ""},
		"timerState": {"status": "idle", "targetEndTime": 1},
		"lastCompletedWorkEnd": -10
	}`
	s, err := Migrate([]byte(raw))
	require.NoError(t, err)

	require.Len(t, s.Profiles, 2)
	a := s.Profiles[0]
	assert.Equal(t, "Ana", a.Name)
	assert.Equal(t, 0, a.Points)
	assert.Equal(t, 4, a.LongestStreak)
	assert.Equal(t, []string{"x"}, a.Badges)
	assert.Equal(t, []state.Indicator{state.IndicatorBar}, a.TriedIndicators)
	assert.Equal(t, state.IndicatorCircular, a.ProgressIndicator)
	assert.Equal(t, state.DefaultThemes, a.UnlockedThemes)

	assert.Equal(t, "Perfil", s.Profiles[1].Name)
	assert.Nil(t, s.ActiveProfileID, "dangling active id is cleared")
	assert.Nil(t, s.TimerState, "idle timer state is dropped")
	assert.Equal(t, 1.0, s.GlobalSettings.MasterVolume)
	assert.Equal(t, "25-5", s.GlobalSettings.DefaultPreset)
	assert.Zero(t, s.LastCompletedWorkEnd)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	slot := newSlot(t)
	c := New(slot, discardLogger())

	s := state.New()
	p := state.NewProfile("profile-1", "Ana")
	p.Points = 42
	p.Badges = []string{"primeiro-passo"}
	s.Profiles = append(s.Profiles, p)
	s.ActiveProfileID = &p.ID
	working := state.StatusWorking
	s.TimerState = &state.TimerState{
		Status:        state.StatusPaused,
		TimeRemaining: 600,
		TotalTime:     1500,
		TargetEndTime: 1_700_000_600_000,
		WorkDuration:  25,
		BreakDuration: 5,
		PausedStatus:  &working,
		SavedAt:       1_700_000_000_000,
	}
	s.SessionHistory = append(s.SessionHistory, state.SessionRecord{
		ProfileID: "profile-1", Date: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Type: "pomodoro", WorkDuration: 25, BreakDuration: 5, Completed: true,
	})
	s.LastCompletedWorkEnd = 1_699_999_000_000

	require.NoError(t, c.Save(s))
	loaded := c.Load()
	if diff := cmp.Diff(s, loaded); diff != "" {
		t.Fatalf("round trip mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestSaveOfLoadIsIdempotent(t *testing.T) {
	slot := newMemSlot()
	slot.values[store.KeyData] = v1Blob
	c := New(slot, discardLogger())

	require.NoError(t, c.Save(c.Load()))
	first := slot.values[store.KeyData]
	require.NoError(t, c.Save(c.Load()))
	assert.Equal(t, first, slot.values[store.KeyData])
}

func TestSaveIsSingleWrite(t *testing.T) {
	slot := newMemSlot()
	c := New(slot, discardLogger())
	require.NoError(t, c.Save(state.New()))
	assert.Equal(t, 1, slot.writes)
}

func TestSavePropagatesSlotError(t *testing.T) {
	slot := newMemSlot()
	slot.failSet = errors.New("read-only")
	assert.Error(t, New(slot, discardLogger()).Save(state.New()))
}

func TestLastDate(t *testing.T) {
	slot := newMemSlot()
	c := New(slot, discardLogger())
	assert.Equal(t, "", c.LastDate())
	slot.values[store.KeyLastDate] = "2026-04-01"
	assert.Equal(t, "2026-04-01", c.LastDate())
}
