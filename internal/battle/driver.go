package battle

import (
	"math/rand"

	"github.com/ericogr/duel-arena/internal/engine"
	"github.com/ericogr/duel-arena/internal/game"
)

// Driver decides for one side. The set is closed: Human or Automated.
type Driver interface {
	Kind() game.ParticipantKind
	driver()
}

// Human decisions arrive asynchronously through Session.Submit.
type Human struct{}

// Policy picks an action for side. switchOnly restricts it to switches.
type Policy func(b *game.Battle, side int, switchOnly bool, rng *rand.Rand) game.Action

// Automated decisions are computed in-process and committed before the
// session waits, so they never make it block.
type Automated struct {
	// Policy defaults to engine.ChooseAction.
	Policy Policy
}

func (Human) Kind() game.ParticipantKind     { return game.KindHuman }
func (Automated) Kind() game.ParticipantKind { return game.KindAutomated }

func (Human) driver()     {}
func (Automated) driver() {}

func (a Automated) decide(b *game.Battle, side int, switchOnly bool, rng *rand.Rand) game.Action {
	if a.Policy != nil {
		return a.Policy(b, side, switchOnly, rng)
	}
	return engine.ChooseAction(b, side, switchOnly, rng)
}
