// Package state holds the persisted aggregate: profiles, the active pointer,
// global settings, the session log and the running timer. JSON keys match the
// layout stored under the kids-timer-data slot.
package state

import (
	"slices"
	"time"
)

// CurrentVersion is the schema version written by Save.
const CurrentVersion = 2

type Status string

const (
	StatusIdle    Status = "idle"
	StatusWorking Status = "working"
	StatusPaused  Status = "paused"
	StatusBreak   Status = "break"
)

// Indicator is the progress visual a profile prefers.
type Indicator string

const (
	IndicatorCircular  Indicator = "circular"
	IndicatorPath      Indicator = "path"
	IndicatorHourglass Indicator = "hourglass"
	IndicatorBar       Indicator = "bar"
)

var Indicators = []Indicator{IndicatorCircular, IndicatorPath, IndicatorHourglass, IndicatorBar}

func (i Indicator) Valid() bool {
	return slices.Contains(Indicators, i)
}

// ItemKind names the unlocked-set an item belongs to.
type ItemKind string

const (
	KindTheme          ItemKind = "theme"
	KindAvatar         ItemKind = "avatar"
	KindAnimal         ItemKind = "animal"
	KindSoundscape     ItemKind = "soundscape"
	KindEnergeticTrack ItemKind = "energetic_track"
)

type Store struct {
	Version         int             `json:"version"`
	Profiles        []Profile       `json:"profiles"`
	ActiveProfileID *string         `json:"activeProfileId"`
	GlobalSettings  Settings        `json:"globalSettings"`
	SessionHistory  []SessionRecord `json:"sessionHistory"`
	TimerState      *TimerState     `json:"timerState"`

	// LastCompletedWorkEnd is the targetEndTime (epoch ms) of the last work
	// phase that was awarded. A replay of that exact expiry is not re-awarded.
	LastCompletedWorkEnd int64 `json:"lastCompletedWorkEnd,omitempty"`
}

type Profile struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Avatar            string    `json:"avatar"`
	Theme             string    `json:"theme"`
	ProgressIndicator Indicator `json:"progressIndicator"`
	MusicPreference   string    `json:"musicPreference"`
	PathAnimal        string    `json:"pathAnimal"`

	TotalPomodoros int    `json:"totalPomodoros"`
	TotalMinutes   int    `json:"totalMinutes"`
	CurrentStreak  int    `json:"currentStreak"`
	LongestStreak  int    `json:"longestStreak"`
	LastActiveDate string `json:"lastActiveDate"` // YYYY-MM-DD, empty if never

	Points                  int         `json:"points"`
	UnlockedThemes          []string    `json:"unlockedThemes"`
	UnlockedAvatars         []string    `json:"unlockedAvatars"`
	UnlockedAnimals         []string    `json:"unlockedAnimals"`
	UnlockedSoundscapes     []string    `json:"unlockedSoundscapes"`
	UnlockedEnergeticTracks []string    `json:"unlockedEnergeticTracks"`
	Badges                  []string    `json:"badges"`
	TriedIndicators         []Indicator `json:"triedIndicators"`
}

// TimerState is present only while a timer is working, paused or on break.
// Timestamps are epoch milliseconds.
type TimerState struct {
	Status        Status  `json:"status"`
	TimeRemaining int     `json:"timeRemaining"` // seconds, display only
	TotalTime     int     `json:"totalTime"`     // seconds
	TargetEndTime int64   `json:"targetEndTime"`
	WorkDuration  int     `json:"workDuration"`  // minutes
	BreakDuration int     `json:"breakDuration"` // minutes
	PausedStatus  *Status `json:"pausedStatus"`
	SavedAt       int64   `json:"savedAt"`

	// PausedRemainingMs is the exact time left when paused; TimeRemaining
	// rounds it up for display.
	PausedRemainingMs int64 `json:"pausedRemainingMs,omitempty"`
}

type Settings struct {
	MasterVolume        float64 `json:"masterVolume"`
	SoundEffectsEnabled bool    `json:"soundEffectsEnabled"`
	HapticEnabled       bool    `json:"hapticEnabled"`
	DefaultPreset       string  `json:"defaultPreset"`
	Alerts              Alerts  `json:"alerts"`
}

type Alerts struct {
	OneMinute         bool `json:"oneMinute"`
	FiveMinutes       bool `json:"fiveMinutes"`
	FiftyPercent      bool `json:"fiftyPercent"`
	TwentyFivePercent bool `json:"twentyFivePercent"`
}

type SessionRecord struct {
	ProfileID     string    `json:"profileId"`
	Date          time.Time `json:"date"`
	Type          string    `json:"type"`
	WorkDuration  int       `json:"workDuration"`
	BreakDuration int       `json:"breakDuration"`
	Completed     bool      `json:"completed"`
}
