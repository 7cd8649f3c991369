package game

// Battle is the state the resolver mutates: two sides, the field and the
// turn counter. Turn 0 is lead selection; the first real turn is 1.
type Battle struct {
	Sides [2]*Participant `json:"sides"`
	Field FieldState      `json:"field"`
	Turn  int             `json:"turn"`
	Type  BattleType      `json:"type"`
}

// NewBattle pairs two participants.
func NewBattle(t BattleType, a, b *Participant) *Battle {
	return &Battle{Sides: [2]*Participant{a, b}, Type: t}
}

// Opponent returns the index of the other side.
func Opponent(side int) int { return 1 - side }

// Inverse reports whether the inverted type chart applies.
func (b *Battle) Inverse() bool { return b.Type == BattleInverse }

// Active returns the active combatant of side, or nil.
func (b *Battle) Active(side int) *Combatant {
	return b.Sides[side].ActiveCombatant()
}

// InPlay reports whether roster index idx of side can take part. Single
// battles only field the chosen lead.
func (b *Battle) InPlay(side, idx int) bool {
	p := b.Sides[side]
	if idx < 0 || idx >= len(p.Roster) {
		return false
	}
	if b.Type == BattleSingle && p.Lead >= 0 {
		return idx == p.Lead
	}
	return true
}

// Living counts the non-fainted combatants of side that are in play.
func (b *Battle) Living(side int) int {
	n := 0
	for i, c := range b.Sides[side].Roster {
		if b.InPlay(side, i) && !c.Fainted() {
			n++
		}
	}
	return n
}

// FirstLiving returns the first in-play, non-fainted, non-active roster
// index of side, or -1.
func (b *Battle) FirstLiving(side int) int {
	p := b.Sides[side]
	for i, c := range p.Roster {
		if i != p.Active && b.InPlay(side, i) && !c.Fainted() {
			return i
		}
	}
	return -1
}

// OutcomeKind is the termination state of a battle.
type OutcomeKind string

const (
	OutcomeInProgress OutcomeKind = "in_progress"
	OutcomeCompleted  OutcomeKind = "completed"
	OutcomeForfeited  OutcomeKind = "forfeited"
	OutcomeErrored    OutcomeKind = "errored"
)

// NoSide marks the absence of a winner or forfeiting side.
const NoSide = -1

// Outcome describes how a battle ended.
type Outcome struct {
	Kind OutcomeKind `json:"kind"`
	// Winner is the winning side, NoSide when there is none.
	Winner int `json:"winner"`
	// By is the forfeiting side for OutcomeForfeited.
	By     int    `json:"by"`
	Reason string `json:"reason,omitempty"`
}

func InProgress() Outcome {
	return Outcome{Kind: OutcomeInProgress, Winner: NoSide, By: NoSide}
}

func Completed(winner int) Outcome {
	return Outcome{Kind: OutcomeCompleted, Winner: winner, By: NoSide}
}

func Forfeited(by int, reason string) Outcome {
	return Outcome{Kind: OutcomeForfeited, Winner: Opponent(by), By: by, Reason: reason}
}

func Errored(reason string) Outcome {
	return Outcome{Kind: OutcomeErrored, Winner: NoSide, By: NoSide, Reason: reason}
}

// Terminal reports whether the battle is over.
func (o Outcome) Terminal() bool { return o.Kind != OutcomeInProgress && o.Kind != "" }
