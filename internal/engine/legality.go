package engine

import (
	"errors"
	"fmt"

	"github.com/ericogr/duel-arena/internal/game"
)

var (
	ErrIllegalMove     = errors.New("move is not legal")
	ErrIllegalSwitch   = errors.New("switch is not legal")
	ErrMegaUnavailable = errors.New("mega evolution is not available")
	ErrSwitchRequired  = errors.New("a switch is required")
	ErrUnknownAction   = errors.New("unknown action")
)

// Choices is the legal decision set offered to a side.
type Choices struct {
	// Moves are the legal move slots. It holds game.StruggleSlot alone when
	// no move has PP left.
	Moves    []int `json:"moves"`
	Struggle bool  `json:"struggle"`
	// ForcedMove is set when a volatile pins the combatant to one move; a
	// client may commit it without asking.
	ForcedMove bool  `json:"forced_move"`
	Switches   []int `json:"switches"`
	CanMega    bool  `json:"can_mega"`
	SwitchOnly bool  `json:"switch_only"`
}

// LegalMoves returns the move slots c may use. A pinned move is the only
// choice and reports forced; with no PP left anywhere the only choice is
// Struggle.
func LegalMoves(c *game.Combatant) (slots []int, forced bool) {
	if c == nil || c.Fainted() {
		return nil, false
	}
	if c.Locked() {
		return []int{c.Volatile.LockedSlot}, true
	}
	for i, s := range c.Moves {
		if s.PP > 0 {
			slots = append(slots, i)
		}
	}
	if len(slots) == 0 {
		return []int{game.StruggleSlot}, false
	}
	return slots, false
}

// LegalSwitches returns the roster indices side may switch to: in play,
// not fainted, not already active. A living active combatant that is
// trapped or pinned to a move cannot switch out.
func LegalSwitches(b *game.Battle, side int) []int {
	p := b.Sides[side]
	if active := p.ActiveCombatant(); active != nil && !active.Fainted() {
		if active.Volatile.Trapped || active.Locked() {
			return nil
		}
	}
	var out []int
	for i, c := range p.Roster {
		if i == p.Active || c.Fainted() || !b.InPlay(side, i) {
			continue
		}
		out = append(out, i)
	}
	return out
}

// CanMega reports whether side may still mega evolve its active combatant.
func CanMega(b *game.Battle, side int) bool {
	p := b.Sides[side]
	c := p.ActiveCombatant()
	return !p.MegaUsed && c != nil && c.CanMegaEvolve()
}

// ChoicesFor builds the decision set of side. switchOnly restricts it to
// switches, as used for leads and replacements after a faint.
func ChoicesFor(b *game.Battle, side int, switchOnly bool) Choices {
	ch := Choices{Switches: LegalSwitches(b, side), SwitchOnly: switchOnly}
	if switchOnly {
		return ch
	}
	ch.Moves, ch.ForcedMove = LegalMoves(b.Active(side))
	ch.Struggle = len(ch.Moves) == 1 && ch.Moves[0] == game.StruggleSlot
	ch.CanMega = CanMega(b, side)
	return ch
}

// ValidateAction checks a against the current legal set of side.
func ValidateAction(b *game.Battle, side int, a game.Action, switchOnly bool) error {
	switch v := a.(type) {
	case game.ForfeitAction:
		return nil
	case game.SwitchAction:
		if !containsInt(LegalSwitches(b, side), v.Index) {
			return fmt.Errorf("%w: roster index %d", ErrIllegalSwitch, v.Index)
		}
		return nil
	case game.MoveAction:
		if switchOnly {
			return ErrSwitchRequired
		}
		slots, _ := LegalMoves(b.Active(side))
		if !containsInt(slots, v.Slot) {
			return fmt.Errorf("%w: slot %d", ErrIllegalMove, v.Slot)
		}
		if v.Mega && !CanMega(b, side) {
			return ErrMegaUnavailable
		}
		return nil
	}
	return ErrUnknownAction
}
