// Package codec moves the state.Store aggregate in and out of the durable
// key-value slot. The slot is user-editable storage, so decoding is fail-soft:
// anything that does not parse, or comes from a newer schema, loads as a
// fresh store.
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/sadopc/kidstimer/internal/apperr"
	"github.com/sadopc/kidstimer/internal/state"
	"github.com/sadopc/kidstimer/internal/store"
)

// Slot is the durable key-value storage. *store.Store implements it.
type Slot interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

type Codec struct {
	slot   Slot
	logger *log.Logger
}

func New(slot Slot, logger *log.Logger) *Codec {
	return &Codec{slot: slot, logger: logger}
}

// Load reads the data slot. It never fails: a missing, unreadable or
// undecodable slot yields state.New().
func (c *Codec) Load() *state.Store {
	raw, ok, err := c.slot.Get(store.KeyData)
	if err != nil {
		c.logger.Warn("read store slot, using defaults", "err", err)
		return state.New()
	}
	if !ok || raw == "" {
		return state.New()
	}
	s, err := Migrate([]byte(raw))
	if err != nil {
		c.logger.Warn("decode store slot, using defaults", "err", err)
		return state.New()
	}
	return s
}

// Save writes the whole store as one value.
func (c *Codec) Save(s *state.Store) error {
	b, err := Encode(s)
	if err != nil {
		return err
	}
	return c.slot.Set(store.KeyData, string(b))
}

// LastDate returns the kids-timer-last-date marker, or "" when unset.
func (c *Codec) LastDate() string {
	v, _, err := c.slot.Get(store.KeyLastDate)
	if err != nil {
		c.logger.Warn("read last-date slot", "err", err)
		return ""
	}
	return v
}

// Encode serializes s at the current schema version.
func Encode(s *state.Store) ([]byte, error) {
	out := *s
	out.Version = state.CurrentVersion
	b, err := json.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("encode store: %w", err)
	}
	return b, nil
}

// Migrate decodes raw at whatever schema version it carries and upgrades it
// to state.CurrentVersion. Errors carry apperr.CodeDecode.
func Migrate(raw []byte) (*state.Store, error) {
	var head struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, apperr.Wrap(apperr.CodeDecode, "decode store header", err)
	}
	version := 1
	if head.Version != nil {
		version = *head.Version
	}
	if version < 1 {
		return nil, apperr.New(apperr.CodeDecode, "invalid store version %d", version)
	}
	if version > state.CurrentVersion {
		return nil, apperr.New(apperr.CodeDecode, "store version %d is newer than %d", version, state.CurrentVersion)
	}

	// Decoding over a default store keeps defaults for keys the blob lacks.
	s := state.New()
	s.Profiles = nil
	if err := json.Unmarshal(raw, s); err != nil {
		return nil, apperr.Wrap(apperr.CodeDecode, "decode store", err)
	}

	if version < 2 {
		migrateV1(s)
	}
	normalize(s)
	return s, nil
}

// migrateV1 fills the fields version 2 introduced. Settings fields
// (hapticEnabled, alerts) already hold defaults from decoding over state.New.
func migrateV1(s *state.Store) {
	for i := range s.Profiles {
		p := &s.Profiles[i]
		if p.UnlockedAnimals == nil {
			p.UnlockedAnimals = append([]string{}, state.DefaultAnimals...)
		}
		if p.UnlockedSoundscapes == nil {
			p.UnlockedSoundscapes = append([]string{}, state.DefaultSoundscapes...)
		}
		if p.UnlockedEnergeticTracks == nil {
			p.UnlockedEnergeticTracks = append([]string{}, state.DefaultEnergeticTracks...)
		}
		if p.TriedIndicators == nil {
			p.TriedIndicators = []state.Indicator{}
		}
		if p.PathAnimal == "" {
			p.PathAnimal = state.DefaultAnimals[0]
		}
	}
	s.LastCompletedWorkEnd = 0
}
