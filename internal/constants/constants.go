package constants

// Centralized constants for headers, env keys, routes and log fields.
const (
	// Environment variable keys
	EnvConfigPath = "DUEL_CONFIG"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderAdminToken    = "X-Admin-Token"

	CacheControlHeader  = "Cache-Control"
	CacheControlNoCache = "no-cache, no-store, must-revalidate"

	// Authorization prefix
	BearerPrefix = "Bearer "

	// Query parameter carrying the token on websocket upgrades, where
	// browsers cannot set headers.
	QueryToken = "token"

	// Gin context keys
	ContextPlayerID   = "player_id"
	ContextPlayerName = "player_name"
)

// Routes used by the backend router
const (
	RouteAPIPrefix       = "/api"
	RouteHealth          = "/health"
	RouteVersion         = "/version"
	RouteAuthGuest       = "/auth/guest"
	RouteLeaderboard     = "/leaderboard"
	RoutePlayerStats     = "/player-stats"
	RouteBattles         = "/battles"
	RouteBattleByID      = "/battles/:battleID"
	RouteBattleLog       = "/battles/:battleID/log"
	RouteBattleChoices   = "/battles/:battleID/choices"
	RouteBattleDecision  = "/battles/:battleID/decision"
	RouteBattleForfeit   = "/battles/:battleID/forfeit"
	RouteBattleStream    = "/battles/:battleID/stream"
	RouteBattleResult    = "/battles/:battleID/result"
	RouteAdminBattleStop = "/admin/battles/:battleID/abort"

	ParamBattleID = "battleID"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyDetails = "details"
	JSONKeyStatus  = "status"
	JSONKeyToken   = "token"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest         = "Invalid request"
	ErrBattleNotFound         = "Battle not found"
	ErrBattleAlreadyRunning   = "A battle between these players is already running"
	ErrBattleOver             = "Battle is over"
	ErrFailedCreateBattle     = "Failed to create battle"
	ErrFailedFetchLeaderboard = "Failed to fetch leaderboard"
	ErrFailedFetchStats       = "Failed to fetch stats"
	ErrFailedFetchResult      = "Failed to fetch battle result"
	ErrPlayerNotInBattle      = "Player not in this battle"
	ErrStaleDecision          = "Decision is not for the current turn"
	ErrDecisionAlreadySent    = "Decision already committed for this turn"
	ErrIllegalAction          = "Action is not legal right now"
	ErrUnknownCatalogEntry    = "Unknown move or species"
	ErrInvalidRoster          = "Invalid roster"
	ErrFailedCreateSession    = "Failed to create session"
	ErrInvalidPlayerName      = "Invalid player name"
	ErrInternal               = "Internal error"

	ErrAuthRequired   = "Authentication required"
	ErrInvalidSession = "Invalid session"
	ErrForbidden      = "Forbidden"
)

// Logging field names
const (
	LogFieldBattleID  = "battle_id"
	LogFieldPairKey   = "pair_key"
	LogFieldTurn      = "turn"
	LogFieldSide      = "side"
	LogFieldPlayerID  = "player_id"
	LogFieldState     = "state"
	LogFieldOutcome   = "outcome"
	LogFieldWinner    = "winner"
	LogFieldReason    = "reason"
	LogFieldSource    = "source"
	LogFieldKey       = "key"
	LogFieldAddr      = "addr"
	LogFieldCount     = "count"
	LogFieldStack     = "stack"
	LogFieldSnapshot  = "snapshot"
	LogFieldEventKind = "event"
)
