package timer

import "github.com/sadopc/kidstimer/internal/apperr"

const CustomPresetID = "custom"

// Preset is a named (work, break) pair in minutes.
type Preset struct {
	ID    string
	Name  string
	Work  int
	Break int
}

var Presets = []Preset{
	{ID: "25-5", Name: "Curto", Work: 25, Break: 5},
	{ID: "50-10", Name: "Longo", Work: 50, Break: 10},
}

// PresetByID looks up a fixed preset.
func PresetByID(id string) (Preset, bool) {
	for _, p := range Presets {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

// Custom builds a user-specified preset. Both phases must be at least one
// minute; there is no upper bound.
func Custom(work, brk int) (Preset, error) {
	if work < 1 {
		return Preset{}, apperr.Validation("work duration must be at least 1 minute, got %d", work)
	}
	if brk < 1 {
		return Preset{}, apperr.Validation("break duration must be at least 1 minute, got %d", brk)
	}
	return Preset{ID: CustomPresetID, Name: "Personalizado", Work: work, Break: brk}, nil
}

func (p Preset) validate() error {
	if p.Work < 1 || p.Break < 1 {
		return apperr.Validation("preset %q has a phase shorter than 1 minute", p.ID)
	}
	return nil
}
