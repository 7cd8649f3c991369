package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/ericogr/duel-arena/internal/constants"
	"github.com/gin-gonic/gin"
)

// bearerToken reads the session token from the Authorization header, or
// from the query string for websocket upgrades.
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader(constants.HeaderAuthorization); strings.HasPrefix(h, constants.BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(h, constants.BearerPrefix))
	}
	return c.Query(constants.QueryToken)
}

// AuthRequired validates the session token and injects identity into context.
func AuthRequired(tokens *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
			return
		}
		claims, err := tokens.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrInvalidSession})
			return
		}
		c.Set(constants.ContextPlayerID, claims.Subject)
		c.Set(constants.ContextPlayerName, claims.Name)
		c.Next()
	}
}

// AdminRequired guards operator endpoints with a static token. An empty
// token disables them.
func AdminRequired(adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(constants.HeaderAdminToken)
		if adminToken == "" || subtle.ConstantTimeCompare([]byte(got), []byte(adminToken)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrForbidden})
			return
		}
		c.Next()
	}
}

func playerFromContext(c *gin.Context) (id, name string) {
	id = c.GetString(constants.ContextPlayerID)
	name = c.GetString(constants.ContextPlayerName)
	return id, name
}
