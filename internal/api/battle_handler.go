package api

import (
	"net/http"

	"github.com/ericogr/duel-arena/internal/constants"
	"github.com/ericogr/duel-arena/internal/service"
	"github.com/gin-gonic/gin"
)

// BattleHandler groups all battle-related HTTP handlers.
type BattleHandler struct {
	svc *service.Service
}

func NewBattleHandler(svc *service.Service) *BattleHandler {
	return &BattleHandler{svc: svc}
}

// Health reports liveness and the number of running battles.
func (h *BattleHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		constants.JSONKeyStatus: "ok",
		"battles":               h.svc.Registry().Len(),
	})
}
