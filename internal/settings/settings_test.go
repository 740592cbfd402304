package settings

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/kidstimer/internal/apperr"
	"github.com/sadopc/kidstimer/internal/state"
)

func TestToggleEveryKey(t *testing.T) {
	s := state.DefaultSettings()
	for _, k := range Keys {
		before, err := Get(s, k)
		require.NoError(t, err)

		after, err := Toggle(&s, k)
		require.NoError(t, err)
		assert.Equal(t, !before, after, string(k))

		now, err := Get(s, k)
		require.NoError(t, err)
		assert.Equal(t, after, now)
		assert.NotEqual(t, string(k), k.Label())
	}
}

func TestToggleTargetsTheRightField(t *testing.T) {
	s := state.DefaultSettings()
	_, err := Toggle(&s, AlertFiftyPercent)
	require.NoError(t, err)
	assert.True(t, s.Alerts.FiftyPercent)
	assert.False(t, s.Alerts.TwentyFivePercent)

	_, err = Toggle(&s, SoundEffects)
	require.NoError(t, err)
	assert.False(t, s.SoundEffectsEnabled)
	assert.True(t, s.HapticEnabled)
}

func TestToggleUnknownKey(t *testing.T) {
	s := state.DefaultSettings()
	_, err := Toggle(&s, "dark_mode")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, state.DefaultSettings(), s)
}

func TestSetVolume(t *testing.T) {
	s := state.DefaultSettings()
	require.NoError(t, SetVolume(&s, 0))
	require.NoError(t, SetVolume(&s, 1))
	require.NoError(t, SetVolume(&s, 0.35))
	assert.Equal(t, 0.35, s.MasterVolume)

	for _, v := range []float64{-0.1, 1.01, math.NaN(), math.Inf(1)} {
		assert.ErrorIs(t, SetVolume(&s, v), apperr.ErrValidation)
	}
	assert.Equal(t, 0.35, s.MasterVolume)
}

func TestSetDefaultPreset(t *testing.T) {
	s := state.DefaultSettings()
	require.NoError(t, SetDefaultPreset(&s, "50-10"))
	assert.Equal(t, "50-10", s.DefaultPreset)
	assert.ErrorIs(t, SetDefaultPreset(&s, "custom"), apperr.ErrValidation)
	assert.ErrorIs(t, SetDefaultPreset(&s, ""), apperr.ErrValidation)
	assert.Equal(t, "50-10", s.DefaultPreset)
}
