package battle

import "errors"

var (
	ErrAlreadyCommitted = errors.New("decision already committed for this turn")
	ErrStaleDecision    = errors.New("decision is not for the open turn")
	ErrActionNotAllowed = errors.New("only a switch is accepted right now")
	ErrNilAction        = errors.New("nil action")
	ErrDecisionTimeout  = errors.New("decision timed out")
	ErrGateClosed       = errors.New("decision gate closed")
	ErrTransport        = errors.New("decision transport failed")

	ErrEmptyRoster      = errors.New("roster is empty")
	ErrRosterTooLarge   = errors.New("roster is too large")
	ErrInvalidBattle    = errors.New("invalid battle setup")
	ErrBattleOver       = errors.New("battle is over")
	ErrNotParticipant   = errors.New("player is not part of this battle")
	ErrSessionNotFound  = errors.New("battle session not found")
	ErrBattleInProgress = errors.New("a battle for this pair is already running")
)
