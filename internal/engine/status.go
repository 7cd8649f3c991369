package engine

import "github.com/ericogr/duel-arena/internal/game"

// canAct runs the checks that may stop a combatant from using its move:
// sleep, freeze, flinch, confusion, then paralysis.
func (tc *turnContext) canAct(side int, c *game.Combatant) bool {
	name := tc.label(side)
	switch c.Status {
	case game.StatusSleep:
		c.StatusTurns--
		if c.StatusTurns > 0 {
			tc.addf("%s is fast asleep.", name)
			return false
		}
		c.Status, c.StatusTurns = game.StatusNone, 0
		tc.addf("%s woke up!", name)
	case game.StatusFreeze:
		if tc.rng.Intn(100) >= 20 {
			tc.addf("%s is frozen solid!", name)
			return false
		}
		c.Status = game.StatusNone
		tc.addf("%s thawed out!", name)
	}
	if c.Volatile.Flinched {
		tc.addf("%s flinched and couldn't move!", name)
		return false
	}
	if c.Volatile.ConfusionTurns > 0 {
		c.Volatile.ConfusionTurns--
		if c.Volatile.ConfusionTurns == 0 {
			tc.addf("%s snapped out of its confusion!", name)
		} else {
			tc.addf("%s is confused!", name)
			if tc.rng.Intn(3) == 0 {
				c.Damage(tc.confusionDamage(c))
				tc.add("It hurt itself in its confusion!")
				tc.faintCheck(side)
				return false
			}
		}
	}
	if c.Status == game.StatusParalysis && tc.rng.Intn(100) < 25 {
		tc.addf("%s is paralyzed! It can't move!", name)
		return false
	}
	return true
}

// statusImmune reports type-based immunity to a non-volatile status.
func statusImmune(c *game.Combatant, s game.Status) bool {
	switch s {
	case game.StatusBurn:
		return c.HasType(game.TypeFire)
	case game.StatusFreeze:
		return c.HasType(game.TypeIce)
	case game.StatusParalysis:
		return c.HasType(game.TypeElectric)
	case game.StatusPoison:
		return c.HasType(game.TypePoison) || c.HasType(game.TypeSteel)
	}
	return false
}

var statusVerbs = map[game.Status]string{
	game.StatusBurn:      "was burned!",
	game.StatusFreeze:    "was frozen solid!",
	game.StatusParalysis: "is paralyzed! It may be unable to move!",
	game.StatusPoison:    "was poisoned!",
	game.StatusSleep:     "fell asleep!",
}

// inflictStatus applies s to the active combatant of side. Failures are
// only announced for status moves (loud); secondary effects fail quietly.
func (tc *turnContext) inflictStatus(side int, c *game.Combatant, s game.Status, loud bool) bool {
	if c.Fainted() || c.Status != game.StatusNone || statusImmune(c, s) ||
		(s == game.StatusFreeze && tc.b.Field.Weather == game.WeatherSun) {
		if loud {
			tc.add("But it failed!")
		}
		return false
	}
	c.Status = s
	c.StatusTurns = 0
	if s == game.StatusSleep {
		// 1 to 3 turns asleep; the counter is decremented before each attempt.
		c.StatusTurns = 2 + tc.rng.Intn(3)
	}
	tc.addf("%s %s", tc.labelOf(side, c), statusVerbs[s])
	return true
}

// confuse applies confusion for 1 to 4 turns.
func (tc *turnContext) confuse(side int, c *game.Combatant, loud bool) {
	if c.Fainted() || c.Volatile.ConfusionTurns > 0 {
		if loud {
			tc.add("But it failed!")
		}
		return
	}
	c.Volatile.ConfusionTurns = 2 + tc.rng.Intn(4)
	tc.addf("%s became confused!", tc.labelOf(side, c))
}

// applyStage shifts one stat stage and logs the result.
func (tc *turnContext) applyStage(side int, c *game.Combatant, sc game.StageChange) {
	if c.Fainted() || sc.Delta == 0 {
		return
	}
	name := tc.labelOf(side, c)
	stat := statNames[sc.Stat]
	applied := c.Stages.Apply(sc.Stat, sc.Delta)
	switch {
	case applied == 0 && sc.Delta > 0:
		tc.addf("%s's %s won't go any higher!", name, stat)
	case applied == 0:
		tc.addf("%s's %s won't go any lower!", name, stat)
	case applied >= 2:
		tc.addf("%s's %s rose sharply!", name, stat)
	case applied > 0:
		tc.addf("%s's %s rose!", name, stat)
	case applied <= -2:
		tc.addf("%s's %s harshly fell!", name, stat)
	default:
		tc.addf("%s's %s fell!", name, stat)
	}
}
