package rewards

import (
	"time"

	"github.com/sadopc/kidstimer/internal/apperr"
	"github.com/sadopc/kidstimer/internal/catalog"
	"github.com/sadopc/kidstimer/internal/state"
)

// MusicNone turns background music off.
const MusicNone = "none"

// Buy debits the item's cost from the active profile and unlocks it. On any
// error the profile is left unchanged.
func (e *Engine) Buy(s *state.Store, kind state.ItemKind, id string, now time.Time) (catalog.Item, []catalog.Badge, error) {
	p := s.ActiveProfile()
	if p == nil {
		return catalog.Item{}, nil, errNoActiveProfile()
	}
	item, ok := e.catalog.Item(kind, id)
	if !ok {
		return catalog.Item{}, nil, apperr.NotFound("unknown %s %q", kind, id)
	}
	if p.Owns(kind, id) {
		return item, nil, apperr.New(apperr.CodeAlreadyOwned, "%s %q already owned", kind, id)
	}
	if p.Points < item.Cost {
		return item, nil, apperr.New(apperr.CodeInsufficientFunds, "%s %q costs %d, have %d", kind, id, item.Cost, p.Points)
	}

	p.Points -= item.Cost
	set := p.Unlocked(kind)
	*set = append(*set, id)
	return item, e.Evaluate(s, p, now), nil
}

func (e *Engine) SelectAvatar(s *state.Store, id string) error {
	return e.selectItem(s, state.KindAvatar, id, func(p *state.Profile) { p.Avatar = id })
}

func (e *Engine) SelectTheme(s *state.Store, id string) error {
	return e.selectItem(s, state.KindTheme, id, func(p *state.Profile) { p.Theme = id })
}

func (e *Engine) SelectAnimal(s *state.Store, id string) error {
	return e.selectItem(s, state.KindAnimal, id, func(p *state.Profile) { p.PathAnimal = id })
}

// SelectMusic sets the background track. It accepts MusicNone or any owned
// soundscape or energetic track.
func (e *Engine) SelectMusic(s *state.Store, id string) error {
	p := s.ActiveProfile()
	if p == nil {
		return errNoActiveProfile()
	}
	if id == MusicNone {
		p.MusicPreference = id
		return nil
	}
	kind := state.KindSoundscape
	if _, ok := e.catalog.Item(kind, id); !ok {
		kind = state.KindEnergeticTrack
	}
	if err := e.catalog.CheckSelectable(p, kind, id); err != nil {
		return err
	}
	p.MusicPreference = id
	return nil
}

func (e *Engine) selectItem(s *state.Store, kind state.ItemKind, id string, apply func(*state.Profile)) error {
	p := s.ActiveProfile()
	if p == nil {
		return errNoActiveProfile()
	}
	if err := e.catalog.CheckSelectable(p, kind, id); err != nil {
		return err
	}
	apply(p)
	return nil
}
