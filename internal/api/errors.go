package api

import (
	"errors"
	"net/http"

	"github.com/ericogr/duel-arena/internal/battle"
	"github.com/ericogr/duel-arena/internal/catalog"
	"github.com/ericogr/duel-arena/internal/constants"
	"github.com/ericogr/duel-arena/internal/engine"
	"github.com/ericogr/duel-arena/internal/logging"
	"github.com/ericogr/duel-arena/internal/service"
	"github.com/gin-gonic/gin"
)

// statusFor maps a domain error to its HTTP status and user message.
// Unknown errors map to fallback with status 500.
func statusFor(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, service.ErrBattleNotFound), errors.Is(err, battle.ErrSessionNotFound):
		return http.StatusNotFound, constants.ErrBattleNotFound
	case errors.Is(err, battle.ErrNotParticipant):
		return http.StatusForbidden, constants.ErrPlayerNotInBattle
	case errors.Is(err, battle.ErrBattleInProgress):
		return http.StatusConflict, constants.ErrBattleAlreadyRunning
	case errors.Is(err, battle.ErrBattleOver):
		return http.StatusConflict, constants.ErrBattleOver
	case errors.Is(err, battle.ErrStaleDecision):
		return http.StatusConflict, constants.ErrStaleDecision
	case errors.Is(err, battle.ErrAlreadyCommitted):
		return http.StatusConflict, constants.ErrDecisionAlreadySent
	case errors.Is(err, engine.ErrIllegalMove), errors.Is(err, engine.ErrIllegalSwitch),
		errors.Is(err, engine.ErrMegaUnavailable), errors.Is(err, engine.ErrSwitchRequired),
		errors.Is(err, engine.ErrUnknownAction), errors.Is(err, battle.ErrActionNotAllowed),
		errors.Is(err, battle.ErrNilAction), errors.Is(err, service.ErrInvalidDecision):
		return http.StatusUnprocessableEntity, constants.ErrIllegalAction
	case errors.Is(err, catalog.ErrUnknownMove), errors.Is(err, catalog.ErrUnknownSpecies):
		return http.StatusBadRequest, constants.ErrUnknownCatalogEntry
	case errors.Is(err, service.ErrInvalidRoster), errors.Is(err, service.ErrInvalidLevel),
		errors.Is(err, service.ErrSamePlayer), errors.Is(err, service.ErrMissingPlayer),
		errors.Is(err, service.ErrUnknownType), errors.Is(err, battle.ErrEmptyRoster),
		errors.Is(err, battle.ErrRosterTooLarge), errors.Is(err, battle.ErrInvalidBattle):
		return http.StatusBadRequest, constants.ErrInvalidRoster
	}
	return http.StatusInternalServerError, fallback
}

// writeError responds with the mapped status. Client errors carry the
// underlying reason in details; server errors are logged instead.
func writeError(c *gin.Context, err error, fallback string) {
	status, msg := statusFor(err, fallback)
	if status >= http.StatusInternalServerError {
		logging.Error(fallback, err, logging.Fields{constants.LogFieldBattleID: c.Param(constants.ParamBattleID)})
		c.JSON(status, gin.H{constants.JSONKeyError: msg})
		return
	}
	c.JSON(status, gin.H{constants.JSONKeyError: msg, constants.JSONKeyDetails: err.Error()})
}
