package api

import (
	"net/http"

	"github.com/ericogr/duel-arena/internal/constants"
	"github.com/ericogr/duel-arena/internal/game"
	"github.com/ericogr/duel-arena/internal/service"
	"github.com/gin-gonic/gin"
)

type OpponentPayload struct {
	// Automated selects the built-in policy; PlayerID and PlayerName are
	// ignored then.
	Automated  bool                    `json:"automated"`
	PlayerID   string                  `json:"player_id"`
	PlayerName string                  `json:"player_name"`
	Roster     []service.CombatantSpec `json:"roster"`
}

type CreateBattlePayload struct {
	Type     game.BattleType         `json:"type"`
	Roster   []service.CombatantSpec `json:"roster"`
	Opponent OpponentPayload         `json:"opponent"`
}

// CreateBattle starts a battle between the caller (side 0) and an
// opponent.
func (h *BattleHandler) CreateBattle(c *gin.Context) {
	var req CreateBattlePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	id, name := playerFromContext(c)

	sess, err := h.svc.StartBattle(service.StartBattleRequest{
		Type: req.Type,
		Sides: [2]service.SideRequest{
			{PlayerID: id, PlayerName: name, Roster: req.Roster},
			{
				Automated:  req.Opponent.Automated,
				PlayerID:   req.Opponent.PlayerID,
				PlayerName: req.Opponent.PlayerName,
				Roster:     req.Opponent.Roster,
			},
		},
	})
	if err != nil {
		writeError(c, err, constants.ErrFailedCreateBattle)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"battle_id": sess.ID(),
		"pair_key":  sess.PairKey(),
		"side":      0,
	})
}

// ForfeitBattle concedes the battle for the caller.
func (h *BattleHandler) ForfeitBattle(c *gin.Context) {
	id, _ := playerFromContext(c)
	if err := h.svc.Forfeit(c.Param(constants.ParamBattleID), id); err != nil {
		writeError(c, err, constants.ErrInternal)
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: "forfeited"})
}

type AbortPayload struct {
	Reason string `json:"reason"`
}

// AbortBattle stops a battle without a winner. Operator only.
func (h *BattleHandler) AbortBattle(c *gin.Context) {
	var req AbortPayload
	// The body is optional.
	_ = c.ShouldBindJSON(&req)
	if err := h.svc.AbortBattle(c.Param(constants.ParamBattleID), req.Reason); err != nil {
		writeError(c, err, constants.ErrInternal)
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: "aborted"})
}
