// Package settings edits the global preferences shared by all profiles.
package settings

import (
	"math"

	"github.com/sadopc/kidstimer/internal/apperr"
	"github.com/sadopc/kidstimer/internal/state"
	"github.com/sadopc/kidstimer/internal/timer"
)

// Key names a boolean setting.
type Key string

const (
	SoundEffects           Key = "sound_effects"
	Haptics                Key = "haptics"
	AlertOneMinute         Key = "alert_one_minute"
	AlertFiveMinutes       Key = "alert_five_minutes"
	AlertFiftyPercent      Key = "alert_fifty_percent"
	AlertTwentyFivePercent Key = "alert_twenty_five_percent"
)

var Keys = []Key{SoundEffects, Haptics, AlertOneMinute, AlertFiveMinutes, AlertFiftyPercent, AlertTwentyFivePercent}

func (k Key) Label() string {
	switch k {
	case SoundEffects:
		return "Efeitos sonoros"
	case Haptics:
		return "Vibração"
	case AlertOneMinute:
		return "Aviso de 1 minuto"
	case AlertFiveMinutes:
		return "Aviso de 5 minutos"
	case AlertFiftyPercent:
		return "Aviso de metade"
	case AlertTwentyFivePercent:
		return "Aviso de 25%"
	}
	return string(k)
}

func field(s *state.Settings, k Key) *bool {
	switch k {
	case SoundEffects:
		return &s.SoundEffectsEnabled
	case Haptics:
		return &s.HapticEnabled
	case AlertOneMinute:
		return &s.Alerts.OneMinute
	case AlertFiveMinutes:
		return &s.Alerts.FiveMinutes
	case AlertFiftyPercent:
		return &s.Alerts.FiftyPercent
	case AlertTwentyFivePercent:
		return &s.Alerts.TwentyFivePercent
	}
	return nil
}

// Get reports the current value of a boolean setting.
func Get(s state.Settings, k Key) (bool, error) {
	f := field(&s, k)
	if f == nil {
		return false, apperr.Validation("unknown setting %q", k)
	}
	return *f, nil
}

// Toggle flips a boolean setting and returns its new value.
func Toggle(s *state.Settings, k Key) (bool, error) {
	f := field(s, k)
	if f == nil {
		return false, apperr.Validation("unknown setting %q", k)
	}
	*f = !*f
	return *f, nil
}

// SetVolume sets the master volume; v must be in [0, 1].
func SetVolume(s *state.Settings, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return apperr.Validation("volume must be between 0 and 1, got %v", v)
	}
	s.MasterVolume = v
	return nil
}

// SetDefaultPreset chooses the preset the start screen highlights.
func SetDefaultPreset(s *state.Settings, id string) error {
	if _, ok := timer.PresetByID(id); !ok {
		return apperr.Validation("unknown preset %q", id)
	}
	s.DefaultPreset = id
	return nil
}
