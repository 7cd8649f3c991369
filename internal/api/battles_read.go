package api

import (
	"net/http"

	"github.com/ericogr/duel-arena/internal/constants"
	"github.com/gin-gonic/gin"
)

// GetBattle returns the live state of a battle to one of its players.
func (h *BattleHandler) GetBattle(c *gin.Context) {
	id, _ := playerFromContext(c)
	snap, err := h.svc.Snapshot(c.Param(constants.ParamBattleID), id)
	if err != nil {
		writeError(c, err, constants.ErrInternal)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// GetBattleLog drains the battle log gathered since the previous call.
func (h *BattleHandler) GetBattleLog(c *gin.Context) {
	id, _ := playerFromContext(c)
	lines, err := h.svc.DrainLog(c.Param(constants.ParamBattleID), id)
	if err != nil {
		writeError(c, err, constants.ErrInternal)
		return
	}
	if lines == nil {
		lines = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"lines": lines})
}

// GetChoices returns the caller's open decision and its legal options.
func (h *BattleHandler) GetChoices(c *gin.Context) {
	id, _ := playerFromContext(c)
	p, err := h.svc.Choices(c.Param(constants.ParamBattleID), id)
	if err != nil {
		writeError(c, err, constants.ErrInternal)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GetResult returns the stored record of a finished battle.
func (h *BattleHandler) GetResult(c *gin.Context) {
	rec, err := h.svc.Result(c.Param(constants.ParamBattleID))
	if err != nil {
		writeError(c, err, constants.ErrFailedFetchResult)
		return
	}
	out, err := MarshalIntoSnakeTimestamps(rec)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchResult})
		return
	}
	c.JSON(http.StatusOK, out)
}

// ListLeaderboard returns the top players by wins (desc), limited to top 10 by default.
func (h *BattleHandler) ListLeaderboard(c *gin.Context) {
	players, err := h.svc.Leaderboard(queryLimit(c, 10, 100))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLeaderboard})
		return
	}
	out, err := MarshalIntoSnakeTimestamps(players)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLeaderboard})
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetPlayerStats returns the caller's profile, or the one named by
// ?player_id, with their latest battles.
func (h *BattleHandler) GetPlayerStats(c *gin.Context) {
	id := c.Query("player_id")
	if id == "" {
		id, _ = playerFromContext(c)
	}
	profile, recent, err := h.svc.PlayerStats(id, queryLimit(c, 20, 100))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchStats})
		return
	}
	out, err := MarshalIntoSnakeTimestamps(gin.H{"profile": profile, "recent": recent})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchStats})
		return
	}
	c.JSON(http.StatusOK, out)
}
