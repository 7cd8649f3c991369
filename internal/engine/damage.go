package engine

import "github.com/ericogr/duel-arena/internal/game"

const (
	critChance     = 24
	critMultiplier = 1.5
	stabMultiplier = 1.5
)

// damage computes the HP loss of one hit:
//
//	base = ((2*L/5+2) * power * A/D) / 50 + 2
//
// scaled by weather, critical hit, a random 85..100% roll, STAB, type
// effectiveness and burn (physical only). A hit that connects deals at
// least 1.
func (tc *turnContext) damage(attacker, defender *game.Combatant, move game.Move, crit bool, eff float64) int {
	if eff == 0 || move.Power <= 0 {
		return 0
	}
	level := attacker.Level
	if level < 1 {
		level = 1
	}
	atk := attackStat(attacker, move, crit)
	def := defenseStat(defender, move, crit)
	base := (2*level/5+2)*move.Power*atk/def/50 + 2

	mod := weatherModifier(tc.b.Field.Weather, move.Type)
	if crit {
		mod *= critMultiplier
	}
	mod *= float64(85+tc.rng.Intn(16)) / 100
	if move.Type != game.TypeNone && attacker.HasType(move.Type) {
		mod *= stabMultiplier
	}
	mod *= eff
	if attacker.Status == game.StatusBurn && move.Category == game.CategoryPhysical {
		mod *= 0.5
	}

	dmg := int(float64(base) * mod)
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// rollCrit decides a critical hit with the 1/24 base rate.
func (tc *turnContext) rollCrit() bool { return tc.rng.Intn(critChance) == 0 }

// accuracyCheck rolls move accuracy against the actor's accuracy and the
// target's evasion stages. Accuracy 0 never misses.
func (tc *turnContext) accuracyCheck(actor, target *game.Combatant, move game.Move) bool {
	if move.Accuracy <= 0 {
		return true
	}
	acc := float64(move.Accuracy) * accuracyMultiplier(actor.Stages.Accuracy-target.Stages.Evasion)
	return float64(tc.rng.Intn(100)) < acc
}

// hitCount returns how many times a multi-hit move strikes. The common 2-5
// range uses the 35/35/15/15 distribution.
func (tc *turnContext) hitCount(move game.Move) int {
	lo, hi := move.Effect.MinHits, move.Effect.MaxHits
	if hi <= 1 {
		return 1
	}
	if lo < 1 {
		lo = 1
	}
	if lo == hi {
		return lo
	}
	if lo == 2 && hi == 5 {
		switch r := tc.rng.Intn(100); {
		case r < 35:
			return 2
		case r < 70:
			return 3
		case r < 85:
			return 4
		default:
			return 5
		}
	}
	return lo + tc.rng.Intn(hi-lo+1)
}

// confusionDamage is the self hit of a confused combatant: a typeless
// 40-power physical hit with no critical chance.
func (tc *turnContext) confusionDamage(c *game.Combatant) int {
	move := game.Move{Name: "confusion", Type: game.TypeNone, Category: game.CategoryPhysical, Power: 40}
	return tc.damage(c, c, move, false, 1)
}
