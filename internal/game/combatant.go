package game

// MoveSlot is one entry of a combatant's moveset.
type MoveSlot struct {
	Move  Move `json:"move"`
	PP    int  `json:"pp"`
	MaxPP int  `json:"max_pp"`
}

// Volatiles are the conditions cleared when a combatant leaves the field.
type Volatiles struct {
	ConfusionTurns int  `json:"confusion_turns"`
	SubstituteHP   int  `json:"substitute_hp"`
	Trapped        bool `json:"trapped"`
	TrappingFoe    bool `json:"trapping_foe"`
	Flinched       bool `json:"flinched"`
	// LockedSlot is the move slot the combatant is pinned to while
	// LockedTurns > 0.
	LockedSlot  int `json:"locked_slot"`
	LockedTurns int `json:"locked_turns"`
}

// Combatant is the runtime state of one roster entry.
type Combatant struct {
	Species  string `json:"species"`
	Nickname string `json:"nickname"`
	Level    int    `json:"level"`
	Types    []Type `json:"types"`
	HP       int    `json:"hp"`
	MaxHP    int    `json:"max_hp"`
	Stats    Stats  `json:"stats"`
	Stages   Stages `json:"stages"`
	Status   Status `json:"status"`
	// StatusTurns counts down the remaining sleep turns.
	StatusTurns int        `json:"status_turns"`
	Volatile    Volatiles  `json:"volatile"`
	Moves       []MoveSlot `json:"moves"`
	HeldItem    string     `json:"held_item,omitempty"`
	Shiny       bool       `json:"shiny,omitempty"`
	SentOut     bool       `json:"sent_out"`
	Mega        *MegaForm  `json:"mega,omitempty"`
	MegaActive  bool       `json:"mega_active"`
}

// NewCombatant builds a full-health combatant with full PP.
func NewCombatant(species Species, nickname string, level int, stats Stats, moves []Move) *Combatant {
	c := &Combatant{
		Species:  species.Name,
		Nickname: nickname,
		Level:    level,
		Types:    append([]Type(nil), species.Types...),
		HP:       stats.HP,
		MaxHP:    stats.HP,
		Stats:    stats,
		Mega:     species.Mega,
		Volatile: Volatiles{LockedSlot: -1},
	}
	for _, m := range moves {
		c.Moves = append(c.Moves, MoveSlot{Move: m, PP: m.PP, MaxPP: m.PP})
	}
	return c
}

// Name returns the nickname, falling back to the species.
func (c *Combatant) Name() string {
	if c.Nickname != "" {
		return c.Nickname
	}
	return c.Species
}

func (c *Combatant) Fainted() bool { return c.HP <= 0 }

// HasType reports whether t is one of the combatant's current types.
func (c *Combatant) HasType(t Type) bool {
	for _, own := range c.Types {
		if own == t {
			return true
		}
	}
	return false
}

// Damage lowers HP by n, never below zero, and returns the HP actually lost.
func (c *Combatant) Damage(n int) int {
	if n <= 0 || c.HP <= 0 {
		return 0
	}
	if n > c.HP {
		n = c.HP
	}
	c.HP -= n
	return n
}

// Heal raises HP by n, never above MaxHP, and returns the HP restored.
// Fainted combatants cannot be healed.
func (c *Combatant) Heal(n int) int {
	if n <= 0 || c.HP <= 0 {
		return 0
	}
	if c.HP+n > c.MaxHP {
		n = c.MaxHP - c.HP
	}
	c.HP += n
	return n
}

// Fraction returns max(1, MaxHP/div), the usual size of chip damage.
func (c *Combatant) Fraction(div int) int {
	n := c.MaxHP / div
	if n < 1 {
		n = 1
	}
	return n
}

// HasUsableMove reports whether at least one move still has PP.
func (c *Combatant) HasUsableMove() bool {
	for _, s := range c.Moves {
		if s.PP > 0 {
			return true
		}
	}
	return false
}

// Locked reports whether a forced-move volatile pins the combatant.
func (c *Combatant) Locked() bool {
	return c.Volatile.LockedTurns > 0 && c.Volatile.LockedSlot >= 0 && c.Volatile.LockedSlot < len(c.Moves)
}

// Withdraw clears stages and volatile conditions when leaving the field.
func (c *Combatant) Withdraw() {
	c.Stages = Stages{}
	c.Volatile = Volatiles{LockedSlot: -1}
}

// CanMegaEvolve reports whether the combatant has a mega form it has not
// used yet.
func (c *Combatant) CanMegaEvolve() bool {
	return c.Mega != nil && !c.MegaActive && !c.Fainted()
}

// MegaEvolve swaps in the mega form. HP keeps its current value since the
// HP stat does not change.
func (c *Combatant) MegaEvolve() {
	if !c.CanMegaEvolve() {
		return
	}
	hp := c.Stats.HP
	c.Stats = c.Mega.Stats
	c.Stats.HP = hp
	if len(c.Mega.Types) > 0 {
		c.Types = append([]Type(nil), c.Mega.Types...)
	}
	c.MegaActive = true
}
