package game

// ParticipantKind tells whether a side is driven by a person or by the
// in-process policy.
type ParticipantKind string

const (
	KindHuman     ParticipantKind = "human"
	KindAutomated ParticipantKind = "automated"
)

// AIParticipantID is the identity used for automated sides.
const AIParticipantID = "ai"

// Participant is one side of a battle.
type Participant struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Kind   ParticipantKind `json:"kind"`
	Roster []*Combatant    `json:"roster"`
	// Active is the roster index on the field, -1 before lead selection.
	Active int `json:"active"`
	// Lead is the roster index picked at lead selection.
	Lead     int    `json:"lead"`
	Pending  Action `json:"-"`
	MegaUsed bool   `json:"mega_used"`
}

// NewParticipant returns a side with no active combatant yet.
func NewParticipant(id, name string, kind ParticipantKind, roster []*Combatant) *Participant {
	return &Participant{ID: id, Name: name, Kind: kind, Roster: roster, Active: -1, Lead: -1}
}

// ActiveCombatant returns the combatant on the field, or nil.
func (p *Participant) ActiveCombatant() *Combatant {
	if p.Active < 0 || p.Active >= len(p.Roster) {
		return nil
	}
	return p.Roster[p.Active]
}
