package service

import (
	"github.com/ericogr/duel-arena/internal/battle"
	"github.com/ericogr/duel-arena/internal/game"
)

// Snapshot returns the state of a live battle to one of its players.
func (s *Service) Snapshot(battleID, playerID string) (battle.Snapshot, error) {
	sess, _, err := s.lookup(battleID, playerID)
	if err != nil {
		return battle.Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

// DrainLog returns the log lines produced since the last drain.
func (s *Service) DrainLog(battleID, playerID string) ([]string, error) {
	sess, _, err := s.lookup(battleID, playerID)
	if err != nil {
		return nil, err
	}
	return sess.DrainLog(), nil
}

// Choices returns the open decision of playerID with its legal set.
func (s *Service) Choices(battleID, playerID string) (battle.Prompt, error) {
	sess, side, err := s.lookup(battleID, playerID)
	if err != nil {
		return battle.Prompt{}, err
	}
	return sess.Prompt(side)
}

// Subscribe opens an event stream of a battle for playerID and returns
// the player's side with it.
func (s *Service) Subscribe(battleID, playerID string, buffer int) (int, <-chan battle.Event, func(), error) {
	sess, side, err := s.lookup(battleID, playerID)
	if err != nil {
		return game.NoSide, nil, nil, err
	}
	ch, cancel := sess.Subscribe(buffer)
	return side, ch, cancel, nil
}

// Result returns the stored record of a finished battle.
func (s *Service) Result(battleID string) (*game.BattleRecord, error) {
	rec, err := s.repo.GetBattleByToken(battleID)
	if err != nil {
		return nil, ErrBattleNotFound
	}
	return rec, nil
}

// PlayerStats returns the profile of playerID and their latest battles.
func (s *Service) PlayerStats(playerID string, limit int) (*game.PlayerProfile, []game.BattleRecord, error) {
	p, err := s.repo.GetStats(playerID)
	if err != nil {
		return nil, nil, err
	}
	recent, err := s.repo.ListBattlesByPlayer(playerID, limit)
	if err != nil {
		return nil, nil, err
	}
	return p, recent, nil
}

func (s *Service) Leaderboard(limit int) ([]game.PlayerProfile, error) {
	return s.repo.GetTopPlayers(limit)
}
