package storage

import (
	"github.com/ericogr/duel-arena/internal/constants"
	"github.com/ericogr/duel-arena/internal/game"
	"github.com/ericogr/duel-arena/internal/logging"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenAndMigrate opens the SQLite database at dataSourceName and keeps the
// schema of battle records and player profiles up to date.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&game.BattleRecord{}, &game.PlayerProfile{}); err != nil {
		return nil, err
	}

	// Leaderboard reads sort on these two columns.
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_player_profiles_rank ON player_profiles(wins DESC, battles_played DESC);").Error; err != nil {
		return nil, err
	}

	var n int64
	db.Model(&game.BattleRecord{}).Count(&n)
	logging.Info("database ready", logging.Fields{
		constants.LogFieldSource: dataSourceName,
		constants.LogFieldCount:  n,
	})
	return db, nil
}
