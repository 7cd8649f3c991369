package api

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/ericogr/duel-arena/internal/constants"
	"github.com/ericogr/duel-arena/internal/logging"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	tokens *TokenIssuer
}

func NewAuthHandler(tokens *TokenIssuer) *AuthHandler {
	return &AuthHandler{tokens: tokens}
}

type GuestLoginRequest struct {
	Name string `json:"name"`
}

// Letters, marks, numbers, apostrophe, dot, hyphen and spaces, length 3-40.
var playerNameRegex = regexp.MustCompile(`^[\p{L}\p{M}\p{N}.'\- ]{3,40}$`)

// GuestLogin mints a session for a new guest identity.
func (h *AuthHandler) GuestLogin(c *gin.Context) {
	var req GuestLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	name := strings.TrimSpace(req.Name)
	if !playerNameRegex.MatchString(name) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidPlayerName})
		return
	}

	playerID := uuid.NewString()
	token, exp, err := h.tokens.Issue(playerID, name)
	if err != nil {
		logging.Error("failed to issue session token", err, logging.Fields{constants.LogFieldPlayerID: playerID})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateSession})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		constants.JSONKeyToken: token,
		"player_id":            playerID,
		"name":                 name,
		"expires_at":           exp,
	})
}
