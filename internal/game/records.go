package game

import "gorm.io/gorm"

// BattleRecord is the persisted result of a finished battle.
type BattleRecord struct {
	gorm.Model
	Token       string      `json:"token" gorm:"uniqueIndex;size:64"`
	PairKey     string      `json:"pair_key" gorm:"index"`
	BattleType  BattleType  `json:"battle_type"`
	Player1ID   string      `json:"player1_id" gorm:"index"`
	Player1Name string      `json:"player1_name"`
	Player2ID   string      `json:"player2_id" gorm:"index"`
	Player2Name string      `json:"player2_name"`
	Outcome     OutcomeKind `json:"outcome"`
	// WinnerID is empty when the battle has no winner.
	WinnerID    string `json:"winner_id"`
	ForfeitByID string `json:"forfeit_by_id"`
	Reason      string `json:"reason"`
	Turns       int    `json:"turns"`
	// FinalState is the JSON snapshot of both sides when the battle ended.
	FinalState   string `json:"final_state" gorm:"type:text"`
	StatsCounted bool   `json:"-"`
}

func (BattleRecord) TableName() string { return "battle_records" }

// PlayerProfile stores aggregate stats of a human player.
type PlayerProfile struct {
	gorm.Model
	PlayerID      string `json:"player_id" gorm:"uniqueIndex"`
	PlayerName    string `json:"player_name"`
	BattlesPlayed int    `json:"battles_played"`
	Wins          int    `json:"wins"`
	Forfeits      int    `json:"forfeits"`
}

func (PlayerProfile) TableName() string { return "player_profiles" }
