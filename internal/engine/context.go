package engine

import (
	"fmt"
	"math/rand"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ericogr/duel-arena/internal/game"
)

// --- Turn context and helpers -----------------------------------------
type turnContext struct {
	b     *game.Battle
	rng   *rand.Rand
	title cases.Caser
	log   []string

	// acted marks sides whose move already started this turn; flinch only
	// lands on a side that has not acted yet.
	acted [2]bool
	// fainted marks sides whose active faint was already announced.
	fainted [2]bool
	ended   bool
	winner  int
}

func newTurnContext(b *game.Battle, rng *rand.Rand) *turnContext {
	return &turnContext{
		b:      b,
		rng:    rng,
		title:  cases.Title(language.English),
		log:    make([]string, 0, 16),
		winner: game.NoSide,
	}
}

func (tc *turnContext) add(msg string) { tc.log = append(tc.log, msg) }

func (tc *turnContext) addf(format string, args ...any) {
	tc.add(fmt.Sprintf(format, args...))
}

// label names the active combatant of side the way log lines show it,
// e.g. "Red's Pikachu".
func (tc *turnContext) label(side int) string {
	return tc.labelOf(side, tc.b.Active(side))
}

func (tc *turnContext) labelOf(side int, c *game.Combatant) string {
	owner := tc.b.Sides[side].Name
	if c == nil {
		return owner
	}
	return owner + "'s " + tc.display(c.Name())
}

// display turns catalog ids such as "thunder-punch" into "Thunder Punch".
func (tc *turnContext) display(name string) string {
	return tc.title.String(strings.ReplaceAll(name, "-", " "))
}

// roll returns true with the given percent chance. Zero or anything at or
// above 100 always succeeds, matching how move data leaves the chance out
// for guaranteed effects.
func (tc *turnContext) roll(percent int) bool {
	if percent <= 0 || percent >= 100 {
		return true
	}
	return tc.rng.Intn(100) < percent
}

// faintCheck announces newly fainted actives in the order given and ends
// the battle as soon as one side has nobody left. Callers pass the target
// side before the actor side.
func (tc *turnContext) faintCheck(sides ...int) {
	for _, side := range sides {
		c := tc.b.Active(side)
		if c == nil || !c.Fainted() || tc.fainted[side] {
			continue
		}
		tc.fainted[side] = true
		tc.addf("%s fainted!", tc.label(side))
		if c.Volatile.TrappingFoe {
			tc.release(game.Opponent(side))
		}
		if !tc.ended && tc.b.Living(side) == 0 {
			tc.ended = true
			tc.winner = game.Opponent(side)
		}
	}
}

// release frees the active combatant of side from a trap.
func (tc *turnContext) release(side int) {
	c := tc.b.Active(side)
	if c == nil || !c.Volatile.Trapped {
		return
	}
	c.Volatile.Trapped = false
	if !c.Fainted() {
		tc.addf("%s is no longer trapped.", tc.label(side))
	}
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
