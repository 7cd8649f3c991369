package battle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ericogr/duel-arena/internal/game"
	"github.com/ericogr/duel-arena/internal/logging"
)

func init() {
	logging.SetLogger(zap.NewNop())
}

var sureHit = game.Move{Name: "tackle", Type: game.TypeNormal, Category: game.CategoryPhysical, Target: game.TargetFoe, Power: 90, PP: 20}

func fighter(name string, speed int) *game.Combatant {
	stats := game.Stats{HP: 150, Attack: 100, Defense: 100, SpAttack: 100, SpDefense: 100, Speed: speed}
	return game.NewCombatant(game.Species{Name: name, Types: []game.Type{game.TypeNormal}}, "", 50, stats, []game.Move{sureHit})
}

func newTestBattle(t game.BattleType, red, blue []*game.Combatant) *game.Battle {
	return game.NewBattle(t,
		game.NewParticipant("red", "Red", game.KindHuman, red),
		game.NewParticipant("blue", "Blue", game.KindHuman, blue),
	)
}

func newTestSession(t *testing.T, b *game.Battle, red, blue Driver, timeouts Timeouts) *Session {
	t.Helper()
	s, err := NewSession(Config{PairKey: "blue:red", Battle: b, Drivers: [2]Driver{red, blue}, Seed: 7, Timeouts: timeouts})
	require.NoError(t, err)
	return s
}

// waitPrompt blocks until side has an open decision for turn.
func waitPrompt(t *testing.T, s *Session, side, turn int) Prompt {
	t.Helper()
	var p Prompt
	require.Eventually(t, func() bool {
		var err error
		p, err = s.Prompt(side)
		return err == nil && p.Waiting && p.Turn == turn
	}, 2*time.Second, 2*time.Millisecond, "side %d never asked for turn %d", side, turn)
	return p
}

func waitDone(t *testing.T, s *Session) game.Outcome {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(3 * time.Second):
		t.Fatalf("session %s did not finish", s.ID())
	}
	return s.Outcome()
}
