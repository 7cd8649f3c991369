package engine

import "github.com/ericogr/duel-arena/internal/game"

// weatherImmune reports whether c ignores the chip damage of w.
func weatherImmune(c *game.Combatant, w game.Weather) bool {
	switch w {
	case game.WeatherSand:
		return c.HasType(game.TypeRock) || c.HasType(game.TypeGround) || c.HasType(game.TypeSteel)
	case game.WeatherHail:
		return c.HasType(game.TypeIce)
	}
	return true
}

// residual applies end-of-turn effects side by side: weather chip, then
// burn or poison, each followed by a faint check. Field counters tick
// last.
func (tc *turnContext) residual() {
	w := tc.b.Field.Weather
	for side := 0; side < 2; side++ {
		if tc.ended {
			return
		}
		c := tc.b.Active(side)
		if c == nil || c.Fainted() {
			continue
		}
		if (w == game.WeatherSand || w == game.WeatherHail) && !weatherImmune(c, w) {
			c.Damage(c.Fraction(16))
			if w == game.WeatherSand {
				tc.addf("%s is buffeted by the sandstorm!", tc.label(side))
			} else {
				tc.addf("%s is buffeted by the hail!", tc.label(side))
			}
			tc.faintCheck(side)
			if c.Fainted() {
				continue
			}
		}
		switch c.Status {
		case game.StatusBurn:
			c.Damage(c.Fraction(16))
			tc.addf("%s was hurt by its burn!", tc.label(side))
			tc.faintCheck(side)
		case game.StatusPoison:
			c.Damage(c.Fraction(8))
			tc.addf("%s was hurt by poison!", tc.label(side))
			tc.faintCheck(side)
		}
	}
	if tc.ended {
		return
	}

	for _, p := range tc.b.Sides {
		if c := p.ActiveCombatant(); c != nil {
			c.Volatile.Flinched = false
		}
	}

	tick := tc.b.Field.Tick()
	if tick.WeatherEnded != game.WeatherNone {
		tc.add(weatherEnd[tick.WeatherEnded])
	}
	if tick.TrickRoomEnded {
		tc.add("The twisted dimensions returned to normal!")
	}
}
