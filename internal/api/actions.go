package api

import (
	"net/http"

	"github.com/ericogr/duel-arena/internal/constants"
	"github.com/ericogr/duel-arena/internal/service"

	"github.com/gin-gonic/gin"
)

// SubmitDecision commits the caller's decision for the open turn.
func (h *BattleHandler) SubmitDecision(c *gin.Context) {
	var req service.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	id, _ := playerFromContext(c)
	if err := h.svc.SubmitDecision(c.Param(constants.ParamBattleID), id, req); err != nil {
		writeError(c, err, constants.ErrInternal)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{constants.JSONKeyMessage: "Decision stored. Waiting for opponent."})
}
