package state

import (
	"slices"
	"time"
)

// Default item ids every new profile owns.
var (
	DefaultThemes          = []string{"divertido", "minimalista"}
	DefaultAvatars         = []string{"rabbit"}
	DefaultAnimals         = []string{"rabbit"}
	DefaultSoundscapes     = []string{"piano-calmo", "anoitecer"}
	DefaultEnergeticTracks = []string{"happy-ukulele", "adventure-theme"}
)

const (
	DefaultAvatar = "rabbit"
	DefaultTheme  = "divertido"
	DefaultPreset = "25-5"
)

// DefaultSettings returns the global preferences of a fresh store.
func DefaultSettings() Settings {
	return Settings{
		MasterVolume:        0.8,
		SoundEffectsEnabled: true,
		HapticEnabled:       true,
		DefaultPreset:       DefaultPreset,
		Alerts:              Alerts{OneMinute: true},
	}
}

// New returns an empty store at the current schema version.
func New() *Store {
	return &Store{
		Version:        CurrentVersion,
		Profiles:       []Profile{},
		GlobalSettings: DefaultSettings(),
		SessionHistory: []SessionRecord{},
	}
}

// NewProfile returns a profile with zeroed counters and the default unlocked sets.
func NewProfile(id, name string) Profile {
	return Profile{
		ID:                      id,
		Name:                    name,
		Avatar:                  DefaultAvatar,
		Theme:                   DefaultTheme,
		ProgressIndicator:       IndicatorCircular,
		MusicPreference:         "none",
		PathAnimal:              DefaultAnimals[0],
		UnlockedThemes:          slices.Clone(DefaultThemes),
		UnlockedAvatars:         slices.Clone(DefaultAvatars),
		UnlockedAnimals:         slices.Clone(DefaultAnimals),
		UnlockedSoundscapes:     slices.Clone(DefaultSoundscapes),
		UnlockedEnergeticTracks: slices.Clone(DefaultEnergeticTracks),
		Badges:                  []string{},
		TriedIndicators:         []Indicator{},
	}
}

// Profile returns a pointer into s.Profiles, or nil.
func (s *Store) Profile(id string) *Profile {
	for i := range s.Profiles {
		if s.Profiles[i].ID == id {
			return &s.Profiles[i]
		}
	}
	return nil
}

// ActiveProfile returns the profile referenced by ActiveProfileID, or nil.
func (s *Store) ActiveProfile() *Profile {
	if s.ActiveProfileID == nil {
		return nil
	}
	return s.Profile(*s.ActiveProfileID)
}

// Status reports the timer status; idle when no timer state is stored.
func (s *Store) Status() Status {
	if s.TimerState == nil {
		return StatusIdle
	}
	return s.TimerState.Status
}

// Unlocked returns the unlocked-set of the given kind, or nil for an unknown kind.
func (p *Profile) Unlocked(kind ItemKind) *[]string {
	switch kind {
	case KindTheme:
		return &p.UnlockedThemes
	case KindAvatar:
		return &p.UnlockedAvatars
	case KindAnimal:
		return &p.UnlockedAnimals
	case KindSoundscape:
		return &p.UnlockedSoundscapes
	case KindEnergeticTrack:
		return &p.UnlockedEnergeticTracks
	}
	return nil
}

func (p *Profile) Owns(kind ItemKind, id string) bool {
	set := p.Unlocked(kind)
	return set != nil && slices.Contains(*set, id)
}

func (p *Profile) HasBadge(id string) bool {
	return slices.Contains(p.Badges, id)
}

// AddBadge appends id if absent and reports whether it was added.
func (p *Profile) AddBadge(id string) bool {
	if p.HasBadge(id) {
		return false
	}
	p.Badges = append(p.Badges, id)
	return true
}

// Clone returns a deep copy, safe to hand to the presentation layer.
func (s *Store) Clone() *Store {
	if s == nil {
		return nil
	}
	c := *s
	c.Profiles = make([]Profile, len(s.Profiles))
	for i, p := range s.Profiles {
		c.Profiles[i] = p.Clone()
	}
	if s.ActiveProfileID != nil {
		id := *s.ActiveProfileID
		c.ActiveProfileID = &id
	}
	c.SessionHistory = slices.Clone(s.SessionHistory)
	if s.TimerState != nil {
		ts := s.TimerState.Clone()
		c.TimerState = &ts
	}
	return &c
}

func (p Profile) Clone() Profile {
	p.UnlockedThemes = slices.Clone(p.UnlockedThemes)
	p.UnlockedAvatars = slices.Clone(p.UnlockedAvatars)
	p.UnlockedAnimals = slices.Clone(p.UnlockedAnimals)
	p.UnlockedSoundscapes = slices.Clone(p.UnlockedSoundscapes)
	p.UnlockedEnergeticTracks = slices.Clone(p.UnlockedEnergeticTracks)
	p.Badges = slices.Clone(p.Badges)
	p.TriedIndicators = slices.Clone(p.TriedIndicators)
	return p
}

func (t TimerState) Clone() TimerState {
	if t.PausedStatus != nil {
		ps := *t.PausedStatus
		t.PausedStatus = &ps
	}
	return t
}

// Millis converts t to epoch milliseconds, the unit of persisted timestamps.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis converts epoch milliseconds back to a time in the local zone.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// Day formats t as a local calendar day (YYYY-MM-DD).
func Day(t time.Time) string {
	return t.Local().Format(time.DateOnly)
}
