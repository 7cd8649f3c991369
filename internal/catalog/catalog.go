// Package catalog is the read-only move and species lookup used to build
// rosters. Data comes from a JSON or YAML file.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ericogr/duel-arena/internal/game"
)

var (
	ErrUnknownMove    = errors.New("unknown move")
	ErrUnknownSpecies = errors.New("unknown species")
	ErrInvalidData    = errors.New("invalid catalog data")
)

// Format selects the decoder used by Parse.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

type document struct {
	Moves   []game.Move    `json:"moves" yaml:"moves"`
	Species []game.Species `json:"species" yaml:"species"`
}

// Catalog holds moves and species keyed by their normalized id.
type Catalog struct {
	moves   map[string]game.Move
	species map[string]game.Species
}

// Load reads a catalog file. Files ending in .yaml or .yml are decoded as
// YAML, anything else as JSON.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	format := FormatJSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	}
	return Parse(data, format)
}

// Parse decodes catalog data in the given format.
func Parse(data []byte, format Format) (*Catalog, error) {
	var doc document
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidData, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return New(doc.Moves, doc.Species)
}

// New validates and indexes moves and species.
func New(moves []game.Move, species []game.Species) (*Catalog, error) {
	c := &Catalog{
		moves:   make(map[string]game.Move, len(moves)),
		species: make(map[string]game.Species, len(species)),
	}
	for _, m := range moves {
		if err := validateMove(&m); err != nil {
			return nil, err
		}
		id := ID(m.Name)
		if _, dup := c.moves[id]; dup {
			return nil, fmt.Errorf("%w: duplicate move %q", ErrInvalidData, m.Name)
		}
		c.moves[id] = m
	}
	for _, s := range species {
		if s.Name == "" || len(s.Types) == 0 || len(s.Types) > 2 {
			return nil, fmt.Errorf("%w: species %q needs a name and one or two types", ErrInvalidData, s.Name)
		}
		id := ID(s.Name)
		if _, dup := c.species[id]; dup {
			return nil, fmt.Errorf("%w: duplicate species %q", ErrInvalidData, s.Name)
		}
		c.species[id] = s
	}
	return c, nil
}

func validateMove(m *game.Move) error {
	if m.Name == "" {
		return fmt.Errorf("%w: move without name", ErrInvalidData)
	}
	switch m.Category {
	case game.CategoryPhysical, game.CategorySpecial, game.CategoryStatus:
	default:
		return fmt.Errorf("%w: move %q has category %q", ErrInvalidData, m.Name, m.Category)
	}
	if m.Target == "" {
		m.Target = game.TargetFoe
		if m.Effect.Weather != game.WeatherNone || m.Effect.TrickRoom {
			m.Target = game.TargetField
		}
	}
	if m.PP <= 0 {
		return fmt.Errorf("%w: move %q needs positive pp", ErrInvalidData, m.Name)
	}
	if m.Accuracy < 0 || m.Accuracy > 100 {
		return fmt.Errorf("%w: move %q accuracy %d out of range", ErrInvalidData, m.Name, m.Accuracy)
	}
	if m.Priority < -7 || m.Priority > 5 {
		return fmt.Errorf("%w: move %q priority %d out of range", ErrInvalidData, m.Name, m.Priority)
	}
	if m.Category != game.CategoryStatus && m.Power <= 0 {
		return fmt.Errorf("%w: damaging move %q needs power", ErrInvalidData, m.Name)
	}
	if m.Effect.MaxHits < m.Effect.MinHits {
		return fmt.Errorf("%w: move %q hit range", ErrInvalidData, m.Name)
	}
	return nil
}

// ID normalizes a display name into a lookup key: "Thunder Punch",
// "thunder-punch" and "thunderpunch" all map to "thunderpunch".
func ID(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Move returns the move named name.
func (c *Catalog) Move(name string) (game.Move, error) {
	m, ok := c.moves[ID(name)]
	if !ok {
		return game.Move{}, fmt.Errorf("%w: %s", ErrUnknownMove, name)
	}
	return m, nil
}

// Species returns the species named name.
func (c *Catalog) Species(name string) (game.Species, error) {
	s, ok := c.species[ID(name)]
	if !ok {
		return game.Species{}, fmt.Errorf("%w: %s", ErrUnknownSpecies, name)
	}
	return s, nil
}

// Len returns the number of moves and species loaded.
func (c *Catalog) Len() (moves, species int) { return len(c.moves), len(c.species) }
