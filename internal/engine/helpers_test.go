package engine

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/ericogr/duel-arena/internal/game"
)

var testStats = game.Stats{HP: 150, Attack: 100, Defense: 100, SpAttack: 100, SpDefense: 100, Speed: 100}

func physical(name string, t game.Type, power, priority int) game.Move {
	return game.Move{Name: name, Type: t, Category: game.CategoryPhysical, Target: game.TargetFoe, Power: power, Priority: priority, PP: 10}
}

func selfStatus(name string) game.Move {
	return game.Move{Name: name, Type: game.TypeNormal, Category: game.CategoryStatus, Target: game.TargetSelf, PP: 10}
}

func newCombatant(name string, types []game.Type, stats game.Stats, moves ...game.Move) *game.Combatant {
	return game.NewCombatant(game.Species{Name: name, Types: types}, "", 50, stats, moves)
}

// newBattle builds a battle with the first roster member of each side
// already on the field.
func newBattle(t game.BattleType, red, blue []*game.Combatant) *game.Battle {
	a := game.NewParticipant("red", "Red", game.KindHuman, red)
	b := game.NewParticipant("blue", "Blue", game.KindHuman, blue)
	for _, p := range []*game.Participant{a, b} {
		p.Active, p.Lead = 0, 0
		p.Roster[0].SentOut = true
	}
	return game.NewBattle(t, a, b)
}

func setPending(b *game.Battle, red, blue game.Action) {
	b.Sides[0].Pending = red
	b.Sides[1].Pending = blue
}

func mustResolve(t *testing.T, b *game.Battle, seed int64) TurnResult {
	t.Helper()
	res, err := ResolveTurn(b, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("resolve turn: %v", err)
	}
	return res
}

// lineIndex returns the index of the first log line containing substr.
func lineIndex(log []string, substr string) int {
	for i, l := range log {
		if strings.Contains(l, substr) {
			return i
		}
	}
	return -1
}
