// Package profile manages the named profiles in the store and which one is
// active.
package profile

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/sadopc/kidstimer/internal/apperr"
	"github.com/sadopc/kidstimer/internal/catalog"
	"github.com/sadopc/kidstimer/internal/state"
)

const MaxNameLength = 30

// Patch is a partial profile update. Nil fields are left alone.
type Patch struct {
	Name              *string
	Avatar            *string
	Theme             *string
	ProgressIndicator *state.Indicator
}

type Manager struct {
	catalog *catalog.Catalog
	newID   func() string
}

func New(c *catalog.Catalog) *Manager {
	return &Manager{
		catalog: c,
		newID:   func() string { return "profile-" + uuid.NewString() },
	}
}

// ValidateName trims name and rejects blank or overlong names.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.Validation("name must not be empty")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", apperr.Validation("name must be at most %d characters", MaxNameLength)
	}
	return name, nil
}

// Create adds a profile and makes it active. Empty avatar or theme picks the
// default; otherwise the item must be one a new profile owns.
func (m *Manager) Create(s *state.Store, name, avatar, theme string) (state.Profile, error) {
	name, err := ValidateName(name)
	if err != nil {
		return state.Profile{}, err
	}
	p := state.NewProfile(m.newID(), name)
	if avatar != "" {
		if err := m.catalog.CheckSelectable(&p, state.KindAvatar, avatar); err != nil {
			return state.Profile{}, err
		}
		p.Avatar = avatar
	}
	if theme != "" {
		if err := m.catalog.CheckSelectable(&p, state.KindTheme, theme); err != nil {
			return state.Profile{}, err
		}
		p.Theme = theme
	}

	s.Profiles = append(s.Profiles, p)
	s.ActiveProfileID = &p.ID
	return p.Clone(), nil
}

func (m *Manager) SwitchActive(s *state.Store, id string) error {
	if s.Profile(id) == nil {
		return apperr.NotFound("profile %q not found", id)
	}
	s.ActiveProfileID = &id
	return nil
}

// Update applies patch to the profile atomically: either every field is
// valid and applied, or nothing changes.
func (m *Manager) Update(s *state.Store, id string, patch Patch) (state.Profile, error) {
	p := s.Profile(id)
	if p == nil {
		return state.Profile{}, apperr.NotFound("profile %q not found", id)
	}
	next := p.Clone()

	if patch.Name != nil {
		name, err := ValidateName(*patch.Name)
		if err != nil {
			return state.Profile{}, err
		}
		next.Name = name
	}
	if patch.Avatar != nil {
		if err := m.catalog.CheckSelectable(&next, state.KindAvatar, *patch.Avatar); err != nil {
			return state.Profile{}, err
		}
		next.Avatar = *patch.Avatar
	}
	if patch.Theme != nil {
		if err := m.catalog.CheckSelectable(&next, state.KindTheme, *patch.Theme); err != nil {
			return state.Profile{}, err
		}
		next.Theme = *patch.Theme
	}
	if patch.ProgressIndicator != nil {
		ind := *patch.ProgressIndicator
		if !ind.Valid() {
			return state.Profile{}, apperr.Validation("unknown progress indicator %q", ind)
		}
		next.ProgressIndicator = ind
		if !slices.Contains(next.TriedIndicators, ind) {
			next.TriedIndicators = append(next.TriedIndicators, ind)
		}
	}

	*p = next
	return next.Clone(), nil
}

func (m *Manager) Get(s *state.Store, id string) (state.Profile, error) {
	p := s.Profile(id)
	if p == nil {
		return state.Profile{}, apperr.NotFound("profile %q not found", id)
	}
	return p.Clone(), nil
}

// Active returns a copy of the active profile.
func (m *Manager) Active(s *state.Store) (state.Profile, bool) {
	p := s.ActiveProfile()
	if p == nil {
		return state.Profile{}, false
	}
	return p.Clone(), true
}

func (m *Manager) List(s *state.Store) []state.Profile {
	out := make([]state.Profile, len(s.Profiles))
	for i, p := range s.Profiles {
		out[i] = p.Clone()
	}
	return out
}

func (m *Manager) Logout(s *state.Store) {
	s.ActiveProfileID = nil
}

// Delete removes a profile and its session history. Deleting the active
// profile moves the pointer to the first remaining profile, or clears it.
func (m *Manager) Delete(s *state.Store, id string) error {
	idx := slices.IndexFunc(s.Profiles, func(p state.Profile) bool { return p.ID == id })
	if idx < 0 {
		return apperr.NotFound("profile %q not found", id)
	}
	s.Profiles = slices.Delete(s.Profiles, idx, idx+1)
	s.SessionHistory = slices.DeleteFunc(s.SessionHistory, func(r state.SessionRecord) bool {
		return r.ProfileID == id
	})

	if s.ActiveProfileID != nil && *s.ActiveProfileID == id {
		s.ActiveProfileID = nil
		if len(s.Profiles) > 0 {
			next := s.Profiles[0].ID
			s.ActiveProfileID = &next
		}
	}
	return nil
}
