package codec

import (
	"slices"
	"strings"

	"github.com/sadopc/kidstimer/internal/state"
)

const fallbackName = "Perfil"

// normalize enforces the store invariants on decoded input. It is applied to
// every load, whatever the source version.
func normalize(s *state.Store) {
	s.Version = state.CurrentVersion
	if s.SessionHistory == nil {
		s.SessionHistory = []state.SessionRecord{}
	}

	seen := make(map[string]bool, len(s.Profiles))
	profiles := make([]state.Profile, 0, len(s.Profiles))
	for _, p := range s.Profiles {
		if strings.TrimSpace(p.ID) == "" || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		normalizeProfile(&p)
		profiles = append(profiles, p)
	}
	s.Profiles = profiles

	if s.ActiveProfileID != nil && !seen[*s.ActiveProfileID] {
		s.ActiveProfileID = nil
	}

	if ts := s.TimerState; ts != nil {
		switch ts.Status {
		case state.StatusWorking, state.StatusBreak, state.StatusPaused:
		default:
			s.TimerState = nil
		}
	}

	g := &s.GlobalSettings
	g.MasterVolume = min(max(g.MasterVolume, 0), 1)
	if g.DefaultPreset == "" {
		g.DefaultPreset = state.DefaultPreset
	}
	if s.LastCompletedWorkEnd < 0 {
		s.LastCompletedWorkEnd = 0
	}
}

func normalizeProfile(p *state.Profile) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		p.Name = fallbackName
	}
	if p.Avatar == "" {
		p.Avatar = state.DefaultAvatar
	}
	if p.Theme == "" {
		p.Theme = state.DefaultTheme
	}
	if !p.ProgressIndicator.Valid() {
		p.ProgressIndicator = state.IndicatorCircular
	}
	if p.MusicPreference == "" {
		p.MusicPreference = "none"
	}

	p.Points = max(p.Points, 0)
	p.TotalPomodoros = max(p.TotalPomodoros, 0)
	p.TotalMinutes = max(p.TotalMinutes, 0)
	p.CurrentStreak = max(p.CurrentStreak, 0)
	p.LongestStreak = max(p.LongestStreak, p.CurrentStreak)

	p.UnlockedThemes = uniqueOr(p.UnlockedThemes, state.DefaultThemes)
	p.UnlockedAvatars = uniqueOr(p.UnlockedAvatars, state.DefaultAvatars)
	p.UnlockedAnimals = uniqueOr(p.UnlockedAnimals, state.DefaultAnimals)
	p.UnlockedSoundscapes = uniqueOr(p.UnlockedSoundscapes, state.DefaultSoundscapes)
	p.UnlockedEnergeticTracks = uniqueOr(p.UnlockedEnergeticTracks, state.DefaultEnergeticTracks)
	p.Badges = uniqueOr(p.Badges, nil)

	tried := make([]state.Indicator, 0, len(p.TriedIndicators))
	for _, ind := range p.TriedIndicators {
		if ind.Valid() && !slices.Contains(tried, ind) {
			tried = append(tried, ind)
		}
	}
	p.TriedIndicators = tried
}

// uniqueOr drops blank and repeated ids, keeping first-seen order. A nil
// input becomes a copy of def.
func uniqueOr(ids, def []string) []string {
	if ids == nil {
		return append([]string{}, def...)
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
