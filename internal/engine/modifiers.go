package engine

import "github.com/ericogr/duel-arena/internal/game"

// --- Modifier helpers --------------------------------------------------

// stageMultiplier converts a -6..+6 stat stage into its multiplier:
// +1 is 3/2, -1 is 2/3, up to 4x and 1/4.
func stageMultiplier(stage int) float64 {
	stage = clampStage(stage)
	if stage >= 0 {
		return float64(2+stage) / 2
	}
	return 2 / float64(2-stage)
}

// accuracyMultiplier is the thirds-based table used for accuracy and
// evasion.
func accuracyMultiplier(stage int) float64 {
	stage = clampStage(stage)
	if stage >= 0 {
		return float64(3+stage) / 3
	}
	return 3 / float64(3-stage)
}

func clampStage(stage int) int {
	if stage > game.MaxStage {
		return game.MaxStage
	}
	if stage < game.MinStage {
		return game.MinStage
	}
	return stage
}

// EffectiveSpeed is the speed used for ordering: stat stages applied, then
// halved by paralysis.
func EffectiveSpeed(c *game.Combatant) int {
	if c == nil {
		return 0
	}
	spe := int(float64(c.Stats.Speed) * stageMultiplier(c.Stages.Speed))
	if c.Status == game.StatusParalysis {
		spe /= 2
	}
	if spe < 0 {
		spe = 0
	}
	return spe
}

// attackStat returns the offensive stat for move. Critical hits ignore the
// attacker's negative stages.
func attackStat(c *game.Combatant, move game.Move, crit bool) int {
	stat, stage := c.Stats.Attack, c.Stages.Attack
	if move.Category == game.CategorySpecial {
		stat, stage = c.Stats.SpAttack, c.Stages.SpAttack
	}
	if crit && stage < 0 {
		stage = 0
	}
	v := int(float64(stat) * stageMultiplier(stage))
	if v < 1 {
		v = 1
	}
	return v
}

// defenseStat returns the defensive stat against move. Critical hits ignore
// the defender's positive stages.
func defenseStat(c *game.Combatant, move game.Move, crit bool) int {
	stat, stage := c.Stats.Defense, c.Stages.Defense
	if move.Category == game.CategorySpecial {
		stat, stage = c.Stats.SpDefense, c.Stages.SpDefense
	}
	if crit && stage > 0 {
		stage = 0
	}
	v := int(float64(stat) * stageMultiplier(stage))
	if v < 1 {
		v = 1
	}
	return v
}

// weatherModifier boosts or weakens fire and water moves under sun or rain.
func weatherModifier(w game.Weather, t game.Type) float64 {
	switch {
	case w == game.WeatherSun && t == game.TypeFire, w == game.WeatherRain && t == game.TypeWater:
		return 1.5
	case w == game.WeatherSun && t == game.TypeWater, w == game.WeatherRain && t == game.TypeFire:
		return 0.5
	}
	return 1
}

var statNames = map[game.Stat]string{
	game.StatAttack:    "Attack",
	game.StatDefense:   "Defense",
	game.StatSpAttack:  "Sp. Atk",
	game.StatSpDefense: "Sp. Def",
	game.StatSpeed:     "Speed",
	game.StatAccuracy:  "accuracy",
	game.StatEvasion:   "evasiveness",
}
