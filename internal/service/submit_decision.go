package service

import (
	"errors"
	"fmt"

	"github.com/ericogr/duel-arena/internal/battle"
	"github.com/ericogr/duel-arena/internal/constants"
	"github.com/ericogr/duel-arena/internal/game"
	"github.com/ericogr/duel-arena/internal/logging"
)

var ErrInvalidDecision = errors.New("invalid decision")

// DecisionRequest is a decision as sent by a client. Slot is used by
// moves (game.StruggleSlot for Struggle) and Index by switches.
type DecisionRequest struct {
	Turn  int             `json:"turn"`
	Kind  game.ActionKind `json:"kind"`
	Slot  *int            `json:"slot,omitempty"`
	Mega  bool            `json:"mega,omitempty"`
	Index *int            `json:"index,omitempty"`
}

// Action converts the request into an engine action.
func (r DecisionRequest) Action() (game.Action, error) {
	switch r.Kind {
	case game.ActionMove:
		if r.Slot == nil {
			return nil, fmt.Errorf("%w: move needs a slot", ErrInvalidDecision)
		}
		return game.MoveAction{Slot: *r.Slot, Mega: r.Mega}, nil
	case game.ActionSwitch:
		if r.Index == nil {
			return nil, fmt.Errorf("%w: switch needs a roster index", ErrInvalidDecision)
		}
		return game.SwitchAction{Index: *r.Index}, nil
	case game.ActionForfeit:
		return game.ForfeitAction{}, nil
	}
	return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidDecision, r.Kind)
}

// lookup returns the session and the side of playerID in it.
func (s *Service) lookup(battleID, playerID string) (*battle.Session, int, error) {
	sess, err := s.registry.Get(battleID)
	if err != nil {
		return nil, game.NoSide, ErrBattleNotFound
	}
	side, err := sess.SideOf(playerID)
	if err != nil {
		return nil, game.NoSide, err
	}
	return sess, side, nil
}

// SubmitDecision routes a player's decision to their gate for the
// requested turn.
func (s *Service) SubmitDecision(battleID, playerID string, req DecisionRequest) error {
	sess, side, err := s.lookup(battleID, playerID)
	if err != nil {
		return err
	}
	a, err := req.Action()
	if err != nil {
		return err
	}
	if err := sess.Submit(side, req.Turn, a); err != nil {
		logging.Warn("decision rejected", logging.Fields{
			constants.LogFieldBattleID: battleID,
			constants.LogFieldPlayerID: playerID,
			constants.LogFieldTurn:     req.Turn,
			constants.LogFieldReason:   err.Error(),
		})
		return err
	}
	return nil
}

// Forfeit ends the battle with playerID conceding.
func (s *Service) Forfeit(battleID, playerID string) error {
	sess, side, err := s.lookup(battleID, playerID)
	if err != nil {
		return err
	}
	return sess.Forfeit(side, "forfeit")
}

// AbortBattle ends a battle without a winner. It is an operator action.
func (s *Service) AbortBattle(battleID, reason string) error {
	sess, err := s.registry.Get(battleID)
	if err != nil {
		return ErrBattleNotFound
	}
	if reason == "" {
		reason = "stopped by an operator"
	}
	sess.Abort(reason)
	return nil
}

// ReportTransportFailure tells the session that playerID's connection is
// gone.
func (s *Service) ReportTransportFailure(battleID, playerID string, cause error) {
	sess, side, err := s.lookup(battleID, playerID)
	if err != nil {
		return
	}
	logging.Warn("decision transport lost", logging.Fields{
		constants.LogFieldBattleID: battleID,
		constants.LogFieldPlayerID: playerID,
		constants.LogFieldReason:   cause.Error(),
	})
	sess.ReportTransportFailure(side, cause)
}
