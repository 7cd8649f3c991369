package engine

import "github.com/ericogr/duel-arena/internal/game"

// typeChart lists attacking type -> defending type multipliers that differ
// from 1.
var typeChart = map[game.Type]map[game.Type]float64{
	game.TypeNormal: {game.TypeRock: 0.5, game.TypeGhost: 0, game.TypeSteel: 0.5},
	game.TypeFire: {
		game.TypeFire: 0.5, game.TypeWater: 0.5, game.TypeGrass: 2, game.TypeIce: 2,
		game.TypeBug: 2, game.TypeRock: 0.5, game.TypeDragon: 0.5, game.TypeSteel: 2,
	},
	game.TypeWater: {
		game.TypeFire: 2, game.TypeWater: 0.5, game.TypeGrass: 0.5, game.TypeGround: 2,
		game.TypeRock: 2, game.TypeDragon: 0.5,
	},
	game.TypeElectric: {
		game.TypeWater: 2, game.TypeElectric: 0.5, game.TypeGrass: 0.5, game.TypeGround: 0,
		game.TypeFlying: 2, game.TypeDragon: 0.5,
	},
	game.TypeGrass: {
		game.TypeFire: 0.5, game.TypeWater: 2, game.TypeGrass: 0.5, game.TypePoison: 0.5,
		game.TypeGround: 2, game.TypeFlying: 0.5, game.TypeBug: 0.5, game.TypeRock: 2,
		game.TypeDragon: 0.5, game.TypeSteel: 0.5,
	},
	game.TypeIce: {
		game.TypeFire: 0.5, game.TypeWater: 0.5, game.TypeGrass: 2, game.TypeIce: 0.5,
		game.TypeGround: 2, game.TypeFlying: 2, game.TypeDragon: 2, game.TypeSteel: 0.5,
	},
	game.TypeFighting: {
		game.TypeNormal: 2, game.TypeIce: 2, game.TypePoison: 0.5, game.TypeFlying: 0.5,
		game.TypePsychic: 0.5, game.TypeBug: 0.5, game.TypeRock: 2, game.TypeGhost: 0,
		game.TypeDark: 2, game.TypeSteel: 2, game.TypeFairy: 0.5,
	},
	game.TypePoison: {
		game.TypeGrass: 2, game.TypePoison: 0.5, game.TypeGround: 0.5, game.TypeRock: 0.5,
		game.TypeGhost: 0.5, game.TypeSteel: 0, game.TypeFairy: 2,
	},
	game.TypeGround: {
		game.TypeFire: 2, game.TypeElectric: 2, game.TypeGrass: 0.5, game.TypePoison: 2,
		game.TypeFlying: 0, game.TypeBug: 0.5, game.TypeRock: 2, game.TypeSteel: 2,
	},
	game.TypeFlying: {
		game.TypeElectric: 0.5, game.TypeGrass: 2, game.TypeFighting: 2, game.TypeBug: 2,
		game.TypeRock: 0.5, game.TypeSteel: 0.5,
	},
	game.TypePsychic: {
		game.TypeFighting: 2, game.TypePoison: 2, game.TypePsychic: 0.5, game.TypeDark: 0,
		game.TypeSteel: 0.5,
	},
	game.TypeBug: {
		game.TypeFire: 0.5, game.TypeGrass: 2, game.TypeFighting: 0.5, game.TypePoison: 0.5,
		game.TypeFlying: 0.5, game.TypePsychic: 2, game.TypeGhost: 0.5, game.TypeDark: 2,
		game.TypeSteel: 0.5, game.TypeFairy: 0.5,
	},
	game.TypeRock: {
		game.TypeFire: 2, game.TypeIce: 2, game.TypeFighting: 0.5, game.TypeGround: 0.5,
		game.TypeFlying: 2, game.TypeBug: 2, game.TypeSteel: 0.5,
	},
	game.TypeGhost: {game.TypeNormal: 0, game.TypePsychic: 2, game.TypeGhost: 2, game.TypeDark: 0.5},
	game.TypeDragon: {game.TypeDragon: 2, game.TypeSteel: 0.5, game.TypeFairy: 0},
	game.TypeDark: {
		game.TypeFighting: 0.5, game.TypePsychic: 2, game.TypeGhost: 2, game.TypeDark: 0.5,
		game.TypeFairy: 0.5,
	},
	game.TypeSteel: {
		game.TypeFire: 0.5, game.TypeWater: 0.5, game.TypeElectric: 0.5, game.TypeIce: 2,
		game.TypeRock: 2, game.TypeSteel: 0.5, game.TypeFairy: 2,
	},
	game.TypeFairy: {
		game.TypeFire: 0.5, game.TypeFighting: 2, game.TypePoison: 0.5, game.TypeDragon: 2,
		game.TypeDark: 2, game.TypeSteel: 0.5,
	},
}

// Effectiveness returns the combined multiplier of an attacking type
// against the defender's types. In inverse battles weaknesses become
// resistances and resistances or immunities become weaknesses. Typeless
// damage is always neutral.
func Effectiveness(attack game.Type, defender []game.Type, inverse bool) float64 {
	if attack == game.TypeNone {
		return 1
	}
	m := 1.0
	for _, t := range defender {
		e, ok := typeChart[attack][t]
		if !ok {
			e = 1
		}
		if inverse {
			switch {
			case e > 1:
				e = 0.5
			case e < 1:
				e = 2
			}
		}
		m *= e
	}
	return m
}
