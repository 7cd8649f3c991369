// Package engine resolves battle turns: action ordering, move execution,
// end-of-turn effects and the legal decision set of each side. It never
// blocks; the battle package owns waiting for decisions.
package engine

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/ericogr/duel-arena/internal/game"
)

var (
	// ErrInvariant marks a corrupt battle state. Sessions end as errored
	// when they see it.
	ErrInvariant = errors.New("battle invariant violated")
	ErrNotReady  = errors.New("battle is not ready to resolve a turn")
)

// TurnResult is what a resolved turn leaves behind.
type TurnResult struct {
	Log []string
	// Ended is set when a side ran out of living combatants.
	Ended  bool
	Winner int
	// NeedSwitch marks sides whose active fainted and who still have
	// somebody to send out. Each gets exactly one forced switch.
	NeedSwitch [2]bool
}

// ResolveTurn executes the pending actions of both sides in order, then
// the end-of-turn effects. Pending actions are cleared afterwards. It does
// not touch the turn counter; the caller advances it once the turn, forced
// switches included, is closed.
func ResolveTurn(b *game.Battle, rng *rand.Rand) (TurnResult, error) {
	if err := checkReady(b); err != nil {
		return TurnResult{}, err
	}
	tc := newTurnContext(b, rng)
	defer func() {
		for _, p := range b.Sides {
			p.Pending = nil
		}
	}()

	tc.megaEvolve()
	plans := tc.buildPlans()
	sortPlans(plans, b.Field.TrickRoom)
	tc.executePlans(plans)
	if !tc.ended {
		tc.residual()
	}
	if err := CheckInvariants(b); err != nil {
		return tc.result(), err
	}
	return tc.result(), nil
}

func (tc *turnContext) result() TurnResult {
	r := TurnResult{Log: tc.log, Ended: tc.ended, Winner: tc.winner}
	if tc.ended {
		return r
	}
	for side := range tc.b.Sides {
		c := tc.b.Active(side)
		r.NeedSwitch[side] = c != nil && c.Fainted() && tc.b.Living(side) > 0
	}
	return r
}

// ApplySwitch sends out roster index idx for side outside of a turn: the
// lead at turn 0 or the replacement after a faint.
func ApplySwitch(b *game.Battle, side, idx int, rng *rand.Rand) ([]string, error) {
	if !containsInt(LegalSwitches(b, side), idx) {
		return nil, fmt.Errorf("%w: roster index %d", ErrIllegalSwitch, idx)
	}
	p := b.Sides[side]
	if p.Active < 0 {
		p.Lead = idx
	}
	tc := newTurnContext(b, rng)
	tc.switchIn(side, idx)
	return tc.log, nil
}

func checkReady(b *game.Battle) error {
	for side, p := range b.Sides {
		if p == nil {
			return fmt.Errorf("%w: side %d missing", ErrNotReady, side)
		}
		c := p.ActiveCombatant()
		if c == nil {
			return fmt.Errorf("%w: side %d has no active combatant", ErrNotReady, side)
		}
		if c.Fainted() {
			return fmt.Errorf("%w: side %d active combatant is fainted", ErrInvariant, side)
		}
	}
	return nil
}

// CheckInvariants verifies HP, stage and PP bounds of every combatant.
func CheckInvariants(b *game.Battle) error {
	for side, p := range b.Sides {
		if p.Active >= len(p.Roster) {
			return fmt.Errorf("%w: side %d active index %d", ErrInvariant, side, p.Active)
		}
		for i, c := range p.Roster {
			if c.HP < 0 || c.HP > c.MaxHP {
				return fmt.Errorf("%w: side %d slot %d hp %d/%d", ErrInvariant, side, i, c.HP, c.MaxHP)
			}
			for _, st := range []game.Stat{game.StatAttack, game.StatDefense, game.StatSpAttack, game.StatSpDefense, game.StatSpeed, game.StatAccuracy, game.StatEvasion} {
				if v := c.Stages.Get(st); v < game.MinStage || v > game.MaxStage {
					return fmt.Errorf("%w: side %d slot %d stage %s=%d", ErrInvariant, side, i, st, v)
				}
			}
			for j, m := range c.Moves {
				if m.PP < 0 || m.PP > m.MaxPP {
					return fmt.Errorf("%w: side %d slot %d move %d pp %d", ErrInvariant, side, i, j, m.PP)
				}
			}
		}
	}
	return nil
}
