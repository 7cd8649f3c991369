package game

// ActionKind names the variant of an Action.
type ActionKind string

const (
	ActionMove    ActionKind = "move"
	ActionSwitch  ActionKind = "switch"
	ActionForfeit ActionKind = "forfeit"
)

// Action is the closed set of decisions a participant can commit for a turn:
// MoveAction, SwitchAction or ForfeitAction.
type Action interface {
	Kind() ActionKind
	action()
}

// MoveAction uses the move in Slot. Slot is StruggleSlot for Struggle.
// Mega requests mega evolution before the move.
type MoveAction struct {
	Slot int  `json:"slot"`
	Mega bool `json:"mega"`
}

// SwitchAction brings in the roster member at Index.
type SwitchAction struct {
	Index int `json:"index"`
}

// ForfeitAction concedes the battle.
type ForfeitAction struct{}

func (MoveAction) Kind() ActionKind    { return ActionMove }
func (SwitchAction) Kind() ActionKind  { return ActionSwitch }
func (ForfeitAction) Kind() ActionKind { return ActionForfeit }

func (MoveAction) action()    {}
func (SwitchAction) action()  {}
func (ForfeitAction) action() {}
