package engine

import (
	"math/rand"
	"reflect"
	"testing"

	"pgregory.net/rapid"

	"github.com/ericogr/duel-arena/internal/game"
)

var allTypes = []game.Type{
	game.TypeNormal, game.TypeFire, game.TypeWater, game.TypeElectric, game.TypeGrass, game.TypeIce,
	game.TypeFighting, game.TypePoison, game.TypeGround, game.TypeFlying, game.TypePsychic, game.TypeBug,
	game.TypeRock, game.TypeGhost, game.TypeDragon, game.TypeDark, game.TypeSteel, game.TypeFairy,
}

func drawMove(t *rapid.T, label string) game.Move {
	m := game.Move{
		Name:     label,
		Type:     rapid.SampledFrom(allTypes).Draw(t, label+"-type"),
		Category: rapid.SampledFrom([]game.MoveCategory{game.CategoryPhysical, game.CategorySpecial}).Draw(t, label+"-cat"),
		Target:   game.TargetFoe,
		Power:    rapid.IntRange(10, 250).Draw(t, label+"-power"),
		Accuracy: rapid.IntRange(0, 100).Draw(t, label+"-acc"),
		Priority: rapid.IntRange(-1, 2).Draw(t, label+"-prio"),
		PP:       rapid.IntRange(1, 5).Draw(t, label+"-pp"),
	}
	m.Effect.RecoilPercent = rapid.SampledFrom([]int{0, 0, 25, 33}).Draw(t, label+"-recoil")
	m.Effect.DrainPercent = rapid.SampledFrom([]int{0, 0, 50}).Draw(t, label+"-drain")
	if rapid.Bool().Draw(t, label+"-multi") {
		m.Effect.MinHits, m.Effect.MaxHits = 2, 5
	}
	m.Effect.Status = rapid.SampledFrom([]game.Status{game.StatusNone, game.StatusBurn, game.StatusPoison, game.StatusParalysis, game.StatusSleep}).Draw(t, label+"-status")
	m.Effect.StatusChance = 30
	return m
}

func drawCombatant(t *rapid.T, label string) *game.Combatant {
	stats := game.Stats{
		HP:        rapid.IntRange(1, 400).Draw(t, label+"-hp"),
		Attack:    rapid.IntRange(1, 300).Draw(t, label+"-atk"),
		Defense:   rapid.IntRange(1, 300).Draw(t, label+"-def"),
		SpAttack:  rapid.IntRange(1, 300).Draw(t, label+"-spa"),
		SpDefense: rapid.IntRange(1, 300).Draw(t, label+"-spd"),
		Speed:     rapid.IntRange(1, 300).Draw(t, label+"-spe"),
	}
	types := []game.Type{rapid.SampledFrom(allTypes).Draw(t, label+"-t1")}
	moves := []game.Move{drawMove(t, label+"-m1"), drawMove(t, label+"-m2")}
	return game.NewCombatant(game.Species{Name: label, Types: types}, "", rapid.IntRange(1, 100).Draw(t, label+"-lvl"), stats, moves)
}

// HP stays within [0, MaxHP] and no invariant breaks over random battles.
func TestProperty_HPBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		red := []*game.Combatant{drawCombatant(t, "r0"), drawCombatant(t, "r1")}
		blue := []*game.Combatant{drawCombatant(t, "b0"), drawCombatant(t, "b1")}
		bt := rapid.SampledFrom([]game.BattleType{game.BattleFull, game.BattleInverse}).Draw(t, "type")
		b := newBattle(bt, red, blue)
		b.Field.SetWeather(rapid.SampledFrom([]game.Weather{game.WeatherNone, game.WeatherSand, game.WeatherHail, game.WeatherSun, game.WeatherRain}).Draw(t, "weather"), 3)
		rng := rand.New(rand.NewSource(rapid.Int64().Draw(t, "seed")))

		for turn := 0; turn < 12; turn++ {
			for side := 0; side < 2; side++ {
				b.Sides[side].Pending = ChooseAction(b, side, false, rng)
			}
			res, err := ResolveTurn(b, rng)
			if err != nil {
				t.Fatalf("turn %d: %v", turn, err)
			}
			for _, p := range b.Sides {
				for _, c := range p.Roster {
					if c.HP < 0 || c.HP > c.MaxHP {
						t.Fatalf("hp out of bounds: %d/%d", c.HP, c.MaxHP)
					}
				}
			}
			if res.Ended {
				if b.Living(game.Opponent(res.Winner)) != 0 {
					t.Fatalf("loser still has living combatants")
				}
				return
			}
			for side, need := range res.NeedSwitch {
				if !need {
					if b.Active(side).Fainted() {
						t.Fatalf("fainted active without a switch request")
					}
					continue
				}
				idx := LegalSwitches(b, side)[0]
				if _, err := ApplySwitch(b, side, idx, rng); err != nil {
					t.Fatalf("forced switch: %v", err)
				}
			}
		}
	})
}

// A higher priority move always goes first; at equal priority speed decides,
// inverted under trick room; remaining ties go to side 0.
func TestProperty_Ordering(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		trickRoom := rapid.Bool().Draw(t, "trick_room")
		plans := []plannedAction{
			{side: 0, action: game.MoveAction{}, priority: rapid.IntRange(-2, 2).Draw(t, "p0"), speed: rapid.IntRange(0, 500).Draw(t, "s0")},
			{side: 1, action: game.MoveAction{}, priority: rapid.IntRange(-2, 2).Draw(t, "p1"), speed: rapid.IntRange(0, 500).Draw(t, "s1")},
		}
		if rapid.Bool().Draw(t, "reverse") {
			plans[0], plans[1] = plans[1], plans[0]
		}
		sortPlans(plans, trickRoom)
		first, second := plans[0], plans[1]

		switch {
		case first.priority != second.priority:
			if first.priority < second.priority {
				t.Fatalf("priority %d ran before %d", first.priority, second.priority)
			}
		case first.speed != second.speed:
			if trickRoom && first.speed > second.speed {
				t.Fatalf("trick room: speed %d ran before %d", first.speed, second.speed)
			}
			if !trickRoom && first.speed < second.speed {
				t.Fatalf("speed %d ran before %d", first.speed, second.speed)
			}
		default:
			if first.side != 0 {
				t.Fatalf("full tie must favor side 0")
			}
		}
	})
}

func TestProperty_SwitchesBeforeMoves(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		plans := []plannedAction{
			{side: 0, action: game.MoveAction{}, priority: rapid.IntRange(-7, 5).Draw(t, "prio"), speed: rapid.IntRange(0, 999).Draw(t, "speed")},
			{side: 1, action: game.SwitchAction{Index: 1}},
		}
		sortPlans(plans, rapid.Bool().Draw(t, "trick_room"))
		if !plans[0].isSwitch() {
			t.Fatalf("switch must run first")
		}
	})
}

// The legality predicates are pure: asking twice gives the same answer and
// leaves the battle untouched.
func TestProperty_LegalityIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		red := []*game.Combatant{drawCombatant(t, "r0"), drawCombatant(t, "r1"), drawCombatant(t, "r2")}
		blue := []*game.Combatant{drawCombatant(t, "b0")}
		b := newBattle(game.BattleFull, red, blue)
		c := b.Active(0)
		for i := range c.Moves {
			c.Moves[i].PP = rapid.IntRange(0, c.Moves[i].MaxPP).Draw(t, "pp")
		}
		c.Volatile.Trapped = rapid.Bool().Draw(t, "trapped")
		if rapid.Bool().Draw(t, "faint_bench") {
			red[1].HP = 0
		}
		snap := b.Snapshot()

		m1, f1 := LegalMoves(c)
		m2, f2 := LegalMoves(c)
		s1 := LegalSwitches(b, 0)
		s2 := LegalSwitches(b, 0)
		if !reflect.DeepEqual(m1, m2) || f1 != f2 || !reflect.DeepEqual(s1, s2) {
			t.Fatalf("legality changed between calls")
		}
		if !reflect.DeepEqual(snap, b.Snapshot()) {
			t.Fatalf("legality checks mutated the battle")
		}
		if len(m1) == 0 {
			t.Fatalf("a living combatant always has a legal move")
		}
	})
}
