package storage

import (
	"errors"

	"github.com/ericogr/duel-arena/internal/game"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) SaveBattleResult(rec *game.BattleRecord) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"outcome", "winner_id", "forfeit_by_id", "reason", "turns", "final_state", "updated_at",
		}),
	}).Create(rec).Error
}

func (r *sqliteRepository) UpdateStatsOnBattleEnd(rec *game.BattleRecord) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var stored game.BattleRecord
		if err := tx.Where("token = ?", rec.Token).First(&stored).Error; err != nil {
			return notFound(err)
		}
		if stored.StatsCounted {
			return nil
		}

		// Helper to upsert and add deltas
		upsert := func(id, name string, wins, forfeits int) error {
			if id == "" || id == game.AIParticipantID {
				return nil
			}
			var p game.PlayerProfile
			if err := tx.Where("player_id = ?", id).First(&p).Error; err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				p = game.PlayerProfile{PlayerID: id}
			}
			p.PlayerName = name
			p.BattlesPlayed++
			p.Wins += wins
			p.Forfeits += forfeits
			return tx.Save(&p).Error
		}

		players := []struct{ id, name string }{
			{stored.Player1ID, stored.Player1Name},
			{stored.Player2ID, stored.Player2Name},
		}
		for _, p := range players {
			wins, forfeits := 0, 0
			if stored.WinnerID != "" && stored.WinnerID == p.id {
				wins = 1
			}
			if stored.ForfeitByID != "" && stored.ForfeitByID == p.id {
				forfeits = 1
			}
			if err := upsert(p.id, p.name, wins, forfeits); err != nil {
				return err
			}
		}

		rec.StatsCounted = true
		return tx.Model(&game.BattleRecord{}).Where("id = ?", stored.ID).Update("stats_counted", true).Error
	})
}

func (r *sqliteRepository) GetBattleByToken(token string) (*game.BattleRecord, error) {
	var rec game.BattleRecord
	if err := r.db.Where("token = ?", token).First(&rec).Error; err != nil {
		return nil, notFound(err)
	}
	return &rec, nil
}

func (r *sqliteRepository) ListBattlesByPlayer(playerID string, limit int) ([]game.BattleRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var recs []game.BattleRecord
	if err := r.db.Where("player1_id = ? OR player2_id = ?", playerID, playerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *sqliteRepository) GetStats(playerID string) (*game.PlayerProfile, error) {
	var p game.PlayerProfile
	if err := r.db.Where("player_id = ?", playerID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &game.PlayerProfile{PlayerID: playerID}, nil
		}
		return nil, err
	}
	return &p, nil
}

// GetTopPlayers returns top N players ordered by Wins desc, then BattlesPlayed desc
func (r *sqliteRepository) GetTopPlayers(limit int) ([]game.PlayerProfile, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []game.PlayerProfile
	if err := r.db.Model(&game.PlayerProfile{}).
		Order("wins DESC").
		Order("battles_played DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
