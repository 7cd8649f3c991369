package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ericogr/duel-arena/internal/catalog"
	"github.com/ericogr/duel-arena/internal/game"
)

// MoveCatalog is the lookup BuildRoster needs. *catalog.Catalog
// implements it.
type MoveCatalog interface {
	Move(name string) (game.Move, error)
	Species(name string) (game.Species, error)
}

// CombatantSpec describes one roster member by catalog names.
type CombatantSpec struct {
	Species  string   `json:"species"`
	Nickname string   `json:"nickname,omitempty"`
	Level    int      `json:"level,omitempty"`
	Moves    []string `json:"moves"`
	HeldItem string   `json:"held_item,omitempty"`
	Shiny    bool     `json:"shiny,omitempty"`
}

var (
	ErrInvalidRoster = errors.New("invalid roster")
	ErrInvalidLevel  = errors.New("level must be between 1 and 100")
)

// ComputeStats derives battle stats from base stats at level.
func ComputeStats(base game.Stats, level int) game.Stats {
	stat := func(b int) int { return 2*b*level/100 + 5 }
	return game.Stats{
		HP:        2*base.HP*level/100 + level + 10,
		Attack:    stat(base.Attack),
		Defense:   stat(base.Defense),
		SpAttack:  stat(base.SpAttack),
		SpDefense: stat(base.SpDefense),
		Speed:     stat(base.Speed),
	}
}

// BuildRoster resolves specs through the catalog into fresh combatants.
// defaultLevel applies to specs without a level.
func BuildRoster(cat MoveCatalog, specs []CombatantSpec, defaultLevel int) ([]*game.Combatant, error) {
	if len(specs) == 0 || len(specs) > game.MaxRosterSize {
		return nil, fmt.Errorf("%w: roster needs 1 to %d members, got %d", ErrInvalidRoster, game.MaxRosterSize, len(specs))
	}
	out := make([]*game.Combatant, 0, len(specs))
	for i, spec := range specs {
		c, err := buildCombatant(cat, spec, defaultLevel)
		if err != nil {
			return nil, fmt.Errorf("roster slot %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func buildCombatant(cat MoveCatalog, spec CombatantSpec, defaultLevel int) (*game.Combatant, error) {
	level := spec.Level
	if level == 0 {
		level = defaultLevel
	}
	if level < 1 || level > 100 {
		return nil, ErrInvalidLevel
	}
	if len(spec.Moves) == 0 || len(spec.Moves) > game.MaxMoves {
		return nil, fmt.Errorf("%w: 1 to %d moves required", ErrInvalidRoster, game.MaxMoves)
	}

	species, err := cat.Species(spec.Species)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(spec.Moves))
	moves := make([]game.Move, 0, len(spec.Moves))
	for _, name := range spec.Moves {
		id := catalog.ID(name)
		if seen[id] {
			return nil, fmt.Errorf("%w: move %q listed twice", ErrInvalidRoster, name)
		}
		seen[id] = true
		m, err := cat.Move(name)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}

	// The catalog mega block carries base stats; the combatant needs
	// them at its level.
	if species.Mega != nil {
		mega := *species.Mega
		mega.Stats = ComputeStats(mega.Stats, level)
		species.Mega = &mega
	}
	c := game.NewCombatant(species, strings.TrimSpace(spec.Nickname), level, ComputeStats(species.Base, level), moves)
	c.HeldItem = spec.HeldItem
	c.Shiny = spec.Shiny
	return c, nil
}
