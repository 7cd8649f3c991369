package service

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ericogr/duel-arena/internal/battle"
	"github.com/ericogr/duel-arena/internal/constants"
	"github.com/ericogr/duel-arena/internal/game"
	"github.com/ericogr/duel-arena/internal/keys"
	"github.com/ericogr/duel-arena/internal/logging"
)

// BattleRepo is the persistence the service needs. Using a small interface
// simplifies testing; storage.Repository implements it.
type BattleRepo interface {
	SaveBattleResult(rec *game.BattleRecord) error
	UpdateStatsOnBattleEnd(rec *game.BattleRecord) error
	GetBattleByToken(token string) (*game.BattleRecord, error)
	ListBattlesByPlayer(playerID string, limit int) ([]game.BattleRecord, error)
	GetStats(playerID string) (*game.PlayerProfile, error)
	GetTopPlayers(limit int) ([]game.PlayerProfile, error)
}

var (
	ErrBattleNotFound = errors.New("battle not found")
	ErrSamePlayer     = errors.New("a player cannot battle themselves")
	ErrMissingPlayer  = errors.New("human sides need a player id and name")
	ErrUnknownType    = errors.New("unknown battle type")
)

// SideRequest describes one side of a new battle.
type SideRequest struct {
	PlayerID   string          `json:"player_id"`
	PlayerName string          `json:"player_name"`
	Automated  bool            `json:"automated"`
	Roster     []CombatantSpec `json:"roster"`
}

type StartBattleRequest struct {
	Type  game.BattleType `json:"type"`
	Sides [2]SideRequest  `json:"sides"`
}

// Options tune a Service. Zero values fall back to defaults.
type Options struct {
	Timeouts     battle.Timeouts
	DefaultLevel int
	AIName       string
	// Seed returns the RNG seed of a new battle. Defaults to a seed read
	// from crypto/rand.
	Seed func() int64
}

// Service runs battles: it builds sessions from catalog names, keeps them
// in the registry and stores their results.
type Service struct {
	ctx      context.Context
	repo     BattleRepo
	catalog  MoveCatalog
	registry *battle.Registry
	opts     Options
}

// New returns a Service whose sessions live until ctx is cancelled.
func New(ctx context.Context, repo BattleRepo, cat MoveCatalog, opts Options) *Service {
	if opts.DefaultLevel == 0 {
		opts.DefaultLevel = 50
	}
	if opts.AIName == "" {
		opts.AIName = "Arena AI"
	}
	if opts.Seed == nil {
		opts.Seed = cryptoSeed
	}
	return &Service{ctx: ctx, repo: repo, catalog: cat, registry: battle.NewRegistry(), opts: opts}
}

// Registry exposes the live sessions.
func (s *Service) Registry() *battle.Registry { return s.registry }

// StartBattle validates the request, registers a session for the pair of
// players and starts it. Only one battle per pair runs at a time.
func (s *Service) StartBattle(req StartBattleRequest) (*battle.Session, error) {
	if req.Type == "" {
		req.Type = game.BattleFull
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, req.Type)
	}

	var participants [2]*game.Participant
	var drivers [2]battle.Driver
	var ids [2]string
	for i, side := range req.Sides {
		roster, err := BuildRoster(s.catalog, side.Roster, s.opts.DefaultLevel)
		if err != nil {
			return nil, fmt.Errorf("side %d: %w", i, err)
		}
		if side.Automated {
			ids[i] = game.AIParticipantID
			participants[i] = game.NewParticipant(ids[i], s.opts.AIName, game.KindAutomated, roster)
			drivers[i] = battle.Automated{}
			continue
		}
		id, name := strings.TrimSpace(side.PlayerID), strings.TrimSpace(side.PlayerName)
		if id == "" || name == "" || id == game.AIParticipantID {
			return nil, fmt.Errorf("side %d: %w", i, ErrMissingPlayer)
		}
		ids[i] = id
		participants[i] = game.NewParticipant(id, name, game.KindHuman, roster)
		drivers[i] = battle.Human{}
	}
	if !req.Sides[0].Automated && !req.Sides[1].Automated && keys.PairKey(ids[0]) == keys.PairKey(ids[1]) {
		return nil, ErrSamePlayer
	}

	pairKey := ""
	if !req.Sides[0].Automated || !req.Sides[1].Automated {
		pairKey = keys.PairKey(ids[0], ids[1])
	}
	sess, err := s.registry.Create(pairKey, func() (*battle.Session, error) {
		return battle.NewSession(battle.Config{
			PairKey:  pairKey,
			Battle:   game.NewBattle(req.Type, participants[0], participants[1]),
			Drivers:  drivers,
			Seed:     s.opts.Seed(),
			Timeouts: s.opts.Timeouts,
		})
	})
	if err != nil {
		return nil, err
	}
	sess.OnFinish(s.recordResult)
	sess.Start(s.ctx)

	logging.Info("battle started", logging.Fields{
		constants.LogFieldBattleID: sess.ID(),
		constants.LogFieldPairKey:  pairKey,
		constants.LogFieldState:    string(req.Type),
	})
	return sess, nil
}

// recordResult persists the outcome of a finished session. Errored battles
// are stored but do not count towards player stats.
func (s *Service) recordResult(sess *battle.Session) {
	rec := buildRecord(sess)
	fields := logging.Fields{
		constants.LogFieldBattleID: rec.Token,
		constants.LogFieldOutcome:  string(rec.Outcome),
	}
	if err := s.repo.SaveBattleResult(rec); err != nil {
		logging.Error("failed to save battle result", err, fields)
		return
	}
	if rec.Outcome == game.OutcomeErrored {
		return
	}
	if err := s.repo.UpdateStatsOnBattleEnd(rec); err != nil {
		logging.Error("failed to update player stats", err, fields)
	}
}

func buildRecord(sess *battle.Session) *game.BattleRecord {
	snap := sess.Snapshot()
	out := snap.Outcome
	rec := &game.BattleRecord{
		Token:      sess.ID(),
		PairKey:    sess.PairKey(),
		BattleType: snap.Battle.Type,
		Outcome:    out.Kind,
		Reason:     out.Reason,
		Turns:      snap.Battle.Turn,
	}
	var ids [2]string
	for side := range ids {
		id, name, _ := sess.Participant(side)
		ids[side] = id
		if side == 0 {
			rec.Player1ID, rec.Player1Name = id, name
		} else {
			rec.Player2ID, rec.Player2Name = id, name
		}
	}
	if out.Winner != game.NoSide {
		rec.WinnerID = ids[out.Winner]
	}
	if out.By != game.NoSide {
		rec.ForfeitByID = ids[out.By]
	}
	if b, err := json.Marshal(snap.Battle); err == nil {
		rec.FinalState = string(b)
	}
	return rec
}

// ReapStale aborts sessions older than maxAge. It returns how many were
// aborted.
func (s *Service) ReapStale(now time.Time, maxAge time.Duration) int {
	n := 0
	for _, sess := range s.registry.List() {
		if now.Sub(sess.CreatedAt()) <= maxAge {
			continue
		}
		logging.Warn("aborting stale battle", logging.Fields{
			constants.LogFieldBattleID: sess.ID(),
			constants.LogFieldTurn:     sess.Turn(),
		})
		sess.Abort("exceeded maximum battle age")
		n++
	}
	return n
}

func cryptoSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}
