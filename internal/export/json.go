package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/kidstimer/internal/codec"
	"github.com/sadopc/kidstimer/internal/state"
)

type jsonBackup struct {
	ExportedAt string          `json:"exported_at"`
	Profiles   int             `json:"profiles"`
	Data       json.RawMessage `json:"data"`
}

// ToJSON writes a backup of the whole store.
func ToJSON(s *state.Store, path string, now time.Time) error {
	blob, err := codec.Encode(s)
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	backup := jsonBackup{
		ExportedAt: now.UTC().Format(time.RFC3339),
		Profiles:   len(s.Profiles),
		Data:       blob,
	}

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// FromJSON reads a backup written by ToJSON, or a bare copy of the data
// slot, and migrates it to the current schema. Unlike loading the slot, a
// file that does not decode is an error.
func FromJSON(path string) (*state.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read json file: %w", err)
	}

	var backup jsonBackup
	if err := json.Unmarshal(data, &backup); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	blob := []byte(backup.Data)
	if len(backup.Data) == 0 {
		blob = data
	}

	var head struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(blob, &head); err != nil {
		return nil, fmt.Errorf("decode backup data: %w", err)
	}
	if head.Version == nil {
		return nil, fmt.Errorf("%s is not a kidstimer backup: no version", path)
	}

	s, err := codec.Migrate(blob)
	if err != nil {
		return nil, fmt.Errorf("migrate backup: %w", err)
	}
	return s, nil
}
