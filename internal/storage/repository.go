package storage

import (
	"errors"

	"github.com/ericogr/duel-arena/internal/game"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

type Repository interface {
	// SaveBattleResult inserts the record or updates the one with the
	// same token.
	SaveBattleResult(rec *game.BattleRecord) error
	// UpdateStatsOnBattleEnd adds the battle to the profiles of its human
	// players. A record is counted at most once.
	UpdateStatsOnBattleEnd(rec *game.BattleRecord) error
	GetBattleByToken(token string) (*game.BattleRecord, error)
	// ListBattlesByPlayer returns the latest battles of a player, newest
	// first.
	ListBattlesByPlayer(playerID string, limit int) ([]game.BattleRecord, error)
	// GetStats returns the profile of playerID; unknown players get an
	// empty profile.
	GetStats(playerID string) (*game.PlayerProfile, error)
	// Leaderboard
	GetTopPlayers(limit int) ([]game.PlayerProfile, error)
}
