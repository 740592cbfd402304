// Package catalog is the closed set of purchasable items and badges. Item
// ids are only meaningful within their kind: "fox" is both an avatar and a
// path animal with different prices.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/kidstimer/internal/apperr"
	"github.com/sadopc/kidstimer/internal/state"
)

const SupportedSchemaVersion = 1

//go:embed catalog.yaml
var defaultYAML []byte

type Item struct {
	ID   string         `yaml:"id"`
	Name string         `yaml:"name"`
	Cost int            `yaml:"cost"`
	Kind state.ItemKind `yaml:"-"`
}

// Metric is a profile counter a badge rule compares against its threshold.
type Metric string

const (
	MetricTotalPomodoros  Metric = "total_pomodoros"
	MetricPomodorosToday  Metric = "pomodoros_today"
	MetricCurrentStreak   Metric = "current_streak"
	MetricIndicatorsTried Metric = "indicators_tried"
	MetricUnlockedThemes  Metric = "unlocked_themes"
)

type Rule struct {
	Metric    Metric `yaml:"metric"`
	Threshold int    `yaml:"threshold"`
}

type Badge struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	Rule        Rule   `yaml:"rule"`
}

type document struct {
	SchemaVersion   int     `yaml:"schema_version"`
	Themes          []Item  `yaml:"themes"`
	Avatars         []Item  `yaml:"avatars"`
	Animals         []Item  `yaml:"animals"`
	Soundscapes     []Item  `yaml:"soundscapes"`
	EnergeticTracks []Item  `yaml:"energetic_tracks"`
	Badges          []Badge `yaml:"badges"`
}

type itemKey struct {
	kind state.ItemKind
	id   string
}

type Catalog struct {
	items  map[itemKey]Item
	byKind map[state.ItemKind][]Item
	badges []Badge
}

// Kinds lists item kinds in display order.
var Kinds = []state.ItemKind{
	state.KindTheme,
	state.KindAvatar,
	state.KindAnimal,
	state.KindSoundscape,
	state.KindEnergeticTrack,
}

var defaultCatalog = MustParse(defaultYAML)

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	return defaultCatalog
}

func MustParse(b []byte) *Catalog {
	c, err := Parse(b)
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return c
}

// Parse decodes and validates a catalog document.
func Parse(b []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if doc.SchemaVersion != SupportedSchemaVersion {
		return nil, fmt.Errorf("unsupported catalog schema_version %d", doc.SchemaVersion)
	}

	c := &Catalog{
		items:  make(map[itemKey]Item),
		byKind: make(map[state.ItemKind][]Item),
	}
	groups := map[state.ItemKind][]Item{
		state.KindTheme:          doc.Themes,
		state.KindAvatar:         doc.Avatars,
		state.KindAnimal:         doc.Animals,
		state.KindSoundscape:     doc.Soundscapes,
		state.KindEnergeticTrack: doc.EnergeticTracks,
	}
	for _, kind := range Kinds {
		for _, it := range groups[kind] {
			if it.ID == "" {
				return nil, fmt.Errorf("%s item with empty id", kind)
			}
			if it.Cost < 0 {
				return nil, fmt.Errorf("%s %q: negative cost", kind, it.ID)
			}
			k := itemKey{kind, it.ID}
			if _, dup := c.items[k]; dup {
				return nil, fmt.Errorf("duplicate %s %q", kind, it.ID)
			}
			it.Kind = kind
			c.items[k] = it
			c.byKind[kind] = append(c.byKind[kind], it)
		}
	}

	seen := make(map[string]bool)
	for _, b := range doc.Badges {
		if b.ID == "" || seen[b.ID] {
			return nil, fmt.Errorf("badge id %q is empty or duplicated", b.ID)
		}
		seen[b.ID] = true
		switch b.Rule.Metric {
		case MetricTotalPomodoros, MetricPomodorosToday, MetricCurrentStreak,
			MetricIndicatorsTried, MetricUnlockedThemes:
		default:
			return nil, fmt.Errorf("badge %q: unknown metric %q", b.ID, b.Rule.Metric)
		}
		if b.Rule.Threshold <= 0 {
			return nil, fmt.Errorf("badge %q: threshold must be positive", b.ID)
		}
		c.badges = append(c.badges, b)
	}
	return c, nil
}

// Item looks up an item by kind and id.
func (c *Catalog) Item(kind state.ItemKind, id string) (Item, bool) {
	it, ok := c.items[itemKey{kind, id}]
	return it, ok
}

// Items returns the items of one kind in catalog order.
func (c *Catalog) Items(kind state.ItemKind) []Item {
	return c.byKind[kind]
}

func (c *Catalog) Badges() []Badge {
	return c.badges
}

func (c *Catalog) Badge(id string) (Badge, bool) {
	for _, b := range c.badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}

// ParseKind maps user input such as "avatar" or "energetic_track" to a kind.
func ParseKind(s string) (state.ItemKind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// CheckSelectable reports whether p may equip the item: it must exist in the
// catalog and be in the profile's unlocked set for its kind.
func (c *Catalog) CheckSelectable(p *state.Profile, kind state.ItemKind, id string) error {
	if _, ok := c.Item(kind, id); !ok {
		return apperr.NotFound("unknown %s %q", kind, id)
	}
	if !p.Owns(kind, id) {
		return apperr.New(apperr.CodeLocked, "%s %q is locked", kind, id)
	}
	return nil
}
