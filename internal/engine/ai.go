package engine

import (
	"math/rand"

	"github.com/ericogr/duel-arena/internal/game"
)

// ChooseAction is the automated policy. With a fainted or missing active
// (or when only switches are allowed) it sends out the first living roster
// member. Otherwise it picks the legal move with the highest expected
// power against the foe, breaking ties at random, and mega evolves as soon
// as it can.
func ChooseAction(b *game.Battle, side int, switchOnly bool, rng *rand.Rand) game.Action {
	active := b.Active(side)
	if switchOnly || active == nil || active.Fainted() {
		if switches := LegalSwitches(b, side); len(switches) > 0 {
			return game.SwitchAction{Index: switches[0]}
		}
		return game.ForfeitAction{}
	}

	slots, forced := LegalMoves(active)
	if forced || len(slots) == 1 {
		return game.MoveAction{Slot: slots[0], Mega: CanMega(b, side)}
	}

	foe := b.Active(game.Opponent(side))
	var best []int
	bestScore := -1.0
	for _, slot := range slots {
		score := scoreMove(b, active, foe, slot)
		switch {
		case score > bestScore:
			best, bestScore = []int{slot}, score
		case score == bestScore:
			best = append(best, slot)
		}
	}
	return game.MoveAction{Slot: best[rng.Intn(len(best))], Mega: CanMega(b, side)}
}

// scoreMove estimates the damage potential of a move slot: power times
// type effectiveness, with STAB. Status moves score zero.
func scoreMove(b *game.Battle, actor, foe *game.Combatant, slot int) float64 {
	move := game.Struggle
	if slot >= 0 {
		move = actor.Moves[slot].Move
	}
	if move.Category == game.CategoryStatus || move.Power <= 0 {
		return 0
	}
	score := float64(move.Power)
	if foe != nil {
		score *= Effectiveness(move.Type, foe.Types, b.Inverse())
	}
	if move.Type != game.TypeNone && actor.HasType(move.Type) {
		score *= stabMultiplier
	}
	return score
}
