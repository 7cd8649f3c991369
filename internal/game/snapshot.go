package game

// MoveSnapshot is the public view of a move slot.
type MoveSnapshot struct {
	Name     string       `json:"name"`
	Type     Type         `json:"type"`
	Category MoveCategory `json:"category"`
	PP       int          `json:"pp"`
	MaxPP    int          `json:"max_pp"`
}

// CombatantSnapshot is a copy of a combatant safe to hand outside the
// session goroutine.
type CombatantSnapshot struct {
	Species    string         `json:"species"`
	Name       string         `json:"name"`
	Level      int            `json:"level"`
	Types      []Type         `json:"types"`
	HP         int            `json:"hp"`
	MaxHP      int            `json:"max_hp"`
	Status     Status         `json:"status"`
	Stages     Stages         `json:"stages"`
	Fainted    bool           `json:"fainted"`
	SentOut    bool           `json:"sent_out"`
	MegaActive bool           `json:"mega_active"`
	Moves      []MoveSnapshot `json:"moves"`
}

// SideSnapshot is a copy of one participant.
type SideSnapshot struct {
	ParticipantID string              `json:"participant_id"`
	Name          string              `json:"name"`
	Kind          ParticipantKind     `json:"kind"`
	Active        int                 `json:"active"`
	MegaUsed      bool                `json:"mega_used"`
	Roster        []CombatantSnapshot `json:"roster"`
}

// BattleSnapshot is a point-in-time copy of a battle.
type BattleSnapshot struct {
	Type  BattleType      `json:"type"`
	Turn  int             `json:"turn"`
	Field FieldState      `json:"field"`
	Sides [2]SideSnapshot `json:"sides"`
}

// Snapshot copies the battle state.
func (b *Battle) Snapshot() BattleSnapshot {
	s := BattleSnapshot{Type: b.Type, Turn: b.Turn, Field: b.Field}
	for i, p := range b.Sides {
		if p == nil {
			continue
		}
		side := SideSnapshot{
			ParticipantID: p.ID,
			Name:          p.Name,
			Kind:          p.Kind,
			Active:        p.Active,
			MegaUsed:      p.MegaUsed,
		}
		for _, c := range p.Roster {
			cs := CombatantSnapshot{
				Species:    c.Species,
				Name:       c.Name(),
				Level:      c.Level,
				Types:      append([]Type(nil), c.Types...),
				HP:         c.HP,
				MaxHP:      c.MaxHP,
				Status:     c.Status,
				Stages:     c.Stages,
				Fainted:    c.Fainted(),
				SentOut:    c.SentOut,
				MegaActive: c.MegaActive,
			}
			for _, m := range c.Moves {
				cs.Moves = append(cs.Moves, MoveSnapshot{
					Name: m.Move.Name, Type: m.Move.Type, Category: m.Move.Category, PP: m.PP, MaxPP: m.MaxPP,
				})
			}
			side.Roster = append(side.Roster, cs)
		}
		s.Sides[i] = side
	}
	return s
}
