package api

import (
	"github.com/ericogr/duel-arena/internal/constants"
	"github.com/ericogr/duel-arena/internal/service"

	"github.com/gin-gonic/gin"
)

// RouterConfig carries what the HTTP layer needs from main.
type RouterConfig struct {
	Service    *service.Service
	Tokens     *TokenIssuer
	AdminToken string
}

// NewRouter wires every endpoint onto a gin engine.
func NewRouter(rc RouterConfig) *gin.Engine {
	handler := NewBattleHandler(rc.Service)
	authHandler := NewAuthHandler(rc.Tokens)

	router := gin.New()
	router.Use(gin.Recovery())

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.GET(constants.RouteHealth, handler.Health)
		apiRoutes.GET(constants.RouteVersion, Version)
		apiRoutes.POST(constants.RouteAuthGuest, authHandler.GuestLogin)
		apiRoutes.GET(constants.RouteLeaderboard, handler.ListLeaderboard)
		apiRoutes.GET(constants.RouteBattleResult, handler.GetResult)

		protected := apiRoutes.Group("")
		protected.Use(AuthRequired(rc.Tokens), noCache())

		protected.GET(constants.RoutePlayerStats, handler.GetPlayerStats)
		protected.POST(constants.RouteBattles, handler.CreateBattle)
		protected.GET(constants.RouteBattleByID, handler.GetBattle)
		protected.GET(constants.RouteBattleLog, handler.GetBattleLog)
		protected.GET(constants.RouteBattleChoices, handler.GetChoices)
		protected.POST(constants.RouteBattleDecision, handler.SubmitDecision)
		protected.POST(constants.RouteBattleForfeit, handler.ForfeitBattle)
		protected.GET(constants.RouteBattleStream, handler.Stream)

		admin := apiRoutes.Group("")
		admin.Use(AdminRequired(rc.AdminToken))
		admin.POST(constants.RouteAdminBattleStop, handler.AbortBattle)
	}
	return router
}
