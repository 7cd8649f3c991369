// Package battle runs battle sessions: lead selection, the turn loop and
// termination, waiting on both sides' decisions concurrently.
package battle

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"golang.org/x/sync/errgroup"

	"github.com/ericogr/duel-arena/internal/constants"
	"github.com/ericogr/duel-arena/internal/engine"
	"github.com/ericogr/duel-arena/internal/game"
	"github.com/ericogr/duel-arena/internal/logging"
)

// State is the lifecycle state of a session.
type State string

const (
	StatePreBattle     State = "pre_battle"
	StateLeadSelection State = "lead_selection"
	StateTurnLoop      State = "turn_loop"
	StateCompleted     State = "completed"
	StateForfeited     State = "forfeited"
	StateErrored       State = "errored"
)

const (
	eventSelectLeads = "select_leads"
	eventBegin       = "begin"
	eventComplete    = "complete"
	eventForfeit     = "forfeit"
	eventFail        = "fail"
)

func newMachine() *fsm.FSM {
	live := []string{string(StatePreBattle), string(StateLeadSelection), string(StateTurnLoop)}
	return fsm.NewFSM(
		string(StatePreBattle),
		fsm.Events{
			{Name: eventSelectLeads, Src: []string{string(StatePreBattle)}, Dst: string(StateLeadSelection)},
			{Name: eventBegin, Src: []string{string(StateLeadSelection)}, Dst: string(StateTurnLoop)},
			{Name: eventComplete, Src: []string{string(StateTurnLoop)}, Dst: string(StateCompleted)},
			{Name: eventForfeit, Src: live, Dst: string(StateForfeited)},
			{Name: eventFail, Src: live, Dst: string(StateErrored)},
		},
		fsm.Callbacks{},
	)
}

// Timeouts bound each decision wait. Zero waits forever.
type Timeouts struct {
	Lead time.Duration
	Turn time.Duration
}

// Config describes a session to build.
type Config struct {
	// ID defaults to a random UUID.
	ID       string
	PairKey  string
	Battle   *game.Battle
	Drivers  [2]Driver
	Seed     int64
	Timeouts Timeouts
}

// Session owns one battle and the goroutine that drives it.
type Session struct {
	id       string
	pairKey  string
	created  time.Time
	timeouts Timeouts
	drivers  [2]Driver
	gates    [2]*Gate
	machine  *fsm.FSM
	events   *broadcaster

	mu             sync.Mutex
	battle         *game.Battle
	rng            *rand.Rand
	outcome        game.Outcome
	log            []string
	awaitingSwitch [2]bool
	cancel         context.CancelFunc
	hooks          []func(*Session)

	started    atomic.Bool
	finishOnce sync.Once
	done       chan struct{}
}

// NewSession validates the rosters and builds a session in PreBattle.
// Roster composition is frozen from here on.
func NewSession(cfg Config) (*Session, error) {
	b := cfg.Battle
	if b == nil || !b.Type.Valid() {
		return nil, fmt.Errorf("%w: missing battle or unknown type", ErrInvalidBattle)
	}
	for side, p := range b.Sides {
		if p == nil {
			return nil, fmt.Errorf("%w: side %d missing", ErrInvalidBattle, side)
		}
		if len(p.Roster) == 0 {
			return nil, fmt.Errorf("%w: side %d", ErrEmptyRoster, side)
		}
		if len(p.Roster) > game.MaxRosterSize {
			return nil, fmt.Errorf("%w: side %d has %d", ErrRosterTooLarge, side, len(p.Roster))
		}
		for i, c := range p.Roster {
			if c == nil || c.MaxHP <= 0 || c.HP <= 0 || c.HP > c.MaxHP {
				return nil, fmt.Errorf("%w: side %d slot %d has no valid HP", ErrInvalidBattle, side, i)
			}
			if len(c.Moves) == 0 || len(c.Moves) > game.MaxMoves {
				return nil, fmt.Errorf("%w: side %d slot %d needs 1 to %d moves", ErrInvalidBattle, side, i, game.MaxMoves)
			}
		}
		if cfg.Drivers[side] == nil {
			return nil, fmt.Errorf("%w: side %d has no driver", ErrInvalidBattle, side)
		}
		p.Kind = cfg.Drivers[side].Kind()
		p.Active, p.Lead, p.Pending, p.MegaUsed = -1, -1, nil, false
	}
	b.Turn = 0

	id := cfg.ID
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{
		id:       id,
		pairKey:  cfg.PairKey,
		created:  time.Now(),
		timeouts: cfg.Timeouts,
		drivers:  cfg.Drivers,
		gates:    [2]*Gate{NewGate(), NewGate()},
		machine:  newMachine(),
		events:   newBroadcaster(),
		battle:   b,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		outcome:  game.InProgress(),
		done:     make(chan struct{}),
	}, nil
}

func (s *Session) ID() string           { return s.id }
func (s *Session) PairKey() string      { return s.pairKey }
func (s *Session) CreatedAt() time.Time { return s.created }

// Done is closed once the session reached a terminal state.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) State() State { return State(s.machine.Current()) }

func (s *Session) Outcome() game.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

func (s *Session) finished() bool { return s.Outcome().Terminal() }

// Turn returns the number of the last fully resolved turn.
func (s *Session) Turn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.battle.Turn
}

// SideOf maps a participant identity to its side.
func (s *Session) SideOf(participantID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for side, p := range s.battle.Sides {
		if p.ID == participantID && p.Kind == game.KindHuman {
			return side, nil
		}
	}
	return game.NoSide, ErrNotParticipant
}

// Participant returns identity and display name of side.
func (s *Session) Participant(side int) (id, name string, kind game.ParticipantKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.battle.Sides[side]
	return p.ID, p.Name, p.Kind
}

// OnFinish registers fn to run once the session ends. Registering on a
// finished session runs fn right away. fn must not call OnFinish.
func (s *Session) OnFinish(fn func(*Session)) {
	s.mu.Lock()
	if !s.outcome.Terminal() {
		s.hooks = append(s.hooks, fn)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	<-s.done
	fn(s)
}

// Subscribe returns a channel of session events and a cancel func. The
// channel is closed after the battle_ended event.
func (s *Session) Subscribe(buffer int) (<-chan Event, func()) {
	return s.events.subscribe(buffer)
}

// DrainLog returns the log lines gathered since the previous call.
func (s *Session) DrainLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.log
	s.log = nil
	return out
}

// Snapshot is a copy of the session state.
type Snapshot struct {
	ID             string              `json:"id"`
	PairKey        string              `json:"pair_key,omitempty"`
	State          State               `json:"state"`
	Outcome        game.Outcome        `json:"outcome"`
	AwaitingSwitch [2]bool             `json:"awaiting_switch"`
	CreatedAt      time.Time           `json:"created_at"`
	Battle         game.BattleSnapshot `json:"battle"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:             s.id,
		PairKey:        s.pairKey,
		State:          s.State(),
		Outcome:        s.outcome,
		AwaitingSwitch: s.awaitingSwitch,
		CreatedAt:      s.created,
		Battle:         s.battle.Snapshot(),
	}
}

// Prompt describes the decision a side is asked for.
type Prompt struct {
	Turn    int            `json:"turn"`
	Waiting bool           `json:"waiting"`
	Choices engine.Choices `json:"choices"`
}

// Prompt returns the open decision of side, if any, with its legal set.
func (s *Session) Prompt(side int) (Prompt, error) {
	if side != 0 && side != 1 {
		return Prompt{}, ErrNotParticipant
	}
	turn, restrict, open := s.gates[side].Status()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome.Terminal() {
		return Prompt{}, ErrBattleOver
	}
	waiting := open && !s.gates[side].Committed()
	return Prompt{
		Turn:    turn,
		Waiting: waiting,
		Choices: engine.ChoicesFor(s.battle, side, restrict == SwitchOnly),
	}, nil
}

// Submit routes a decision of side for turn to its gate after checking it
// against the legal set. A forfeit ends the battle at once.
func (s *Session) Submit(side, turn int, a game.Action) error {
	if side != 0 && side != 1 {
		return ErrNotParticipant
	}
	if a == nil {
		return ErrNilAction
	}
	if _, ok := a.(game.ForfeitAction); ok {
		return s.Forfeit(side, "forfeit")
	}
	gate := s.gates[side]
	gturn, restrict, open := gate.Status()

	err := s.guarded("validate", func() error {
		if s.outcome.Terminal() {
			return ErrBattleOver
		}
		if !open || gturn != turn {
			return fmt.Errorf("%w: turn %d", ErrStaleDecision, turn)
		}
		return engine.ValidateAction(s.battle, side, a, restrict == SwitchOnly)
	})
	if err != nil {
		return err
	}
	return gate.Commit(turn, a)
}

// Forfeit ends the battle with side conceding.
func (s *Session) Forfeit(side int, reason string) error {
	if side != 0 && side != 1 {
		return ErrNotParticipant
	}
	if s.finished() {
		return ErrBattleOver
	}
	s.finish(game.Forfeited(side, reason))
	return nil
}

// Abort ends the battle with no winner and releases both gates. Decisions
// already committed for the open turn are not executed.
func (s *Session) Abort(reason string) {
	s.finish(game.Errored("aborted: " + reason))
}

// ReportTransportFailure marks the decision source of side as gone. The
// session ends as errored the next time it waits on that side.
func (s *Session) ReportTransportFailure(side int, err error) {
	if side != 0 && side != 1 {
		return
	}
	s.gates[side].Fail(err)
}

// Start runs the session in its own goroutine.
func (s *Session) Start(ctx context.Context) {
	go s.Run(ctx)
}

// Run drives the session to a terminal state and returns the outcome. A
// second call waits for the first to finish.
func (s *Session) Run(ctx context.Context) (out game.Outcome) {
	if !s.started.CompareAndSwap(false, true) {
		<-s.done
		return s.Outcome()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	if s.finished() {
		return s.Outcome()
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: session panic: %v", engine.ErrInvariant, r)
			fields := s.fields()
			fields[constants.LogFieldStack] = string(debug.Stack())
			logging.Error("battle session panicked", err, fields)
			s.finish(game.Errored(err.Error()))
			out = s.Outcome()
		}
	}()

	logging.Info("battle session started", s.fields())
	if !s.transition(eventSelectLeads) || !s.selectLeads(ctx) || !s.transition(eventBegin) {
		return s.Outcome()
	}
	for s.playTurn(ctx) {
	}
	return s.Outcome()
}

func (s *Session) transition(event string) bool {
	if s.finished() {
		return false
	}
	if err := s.machine.Event(context.Background(), event); err != nil {
		if !s.finished() {
			s.fail(fmt.Errorf("%w: %s from %s: %v", engine.ErrInvariant, event, s.machine.Current(), err))
		}
		return false
	}
	s.events.publish(Event{Kind: EventStateChanged, BattleID: s.id, Side: game.NoSide, State: s.State()})
	return true
}

func (s *Session) selectLeads(ctx context.Context) bool {
	both := []int{0, 1}
	if err := s.openGates(0, both, SwitchOnly); err != nil {
		s.fail(err)
		return false
	}
	actions, ok := s.awaitDecisions(ctx, both, s.timeouts.Lead)
	if !ok || s.handleForfeits(actions) {
		return false
	}
	return s.applySwitches(0, both, actions)
}

// playTurn runs one turn. It returns false once the session is over.
func (s *Session) playTurn(ctx context.Context) bool {
	if s.finished() {
		return false
	}
	both := []int{0, 1}
	turn := s.Turn() + 1
	if err := s.openGates(turn, both, AnyAction); err != nil {
		s.fail(err)
		return false
	}
	actions, ok := s.awaitDecisions(ctx, both, s.timeouts.Turn)
	if !ok || s.handleForfeits(actions) {
		return false
	}

	s.mu.Lock()
	if s.outcome.Terminal() {
		s.mu.Unlock()
		return false
	}
	for side, a := range actions {
		s.battle.Sides[side].Pending = a
	}
	res, err := s.resolve()
	lines := append([]string{fmt.Sprintf("Turn %d", turn)}, res.Log...)
	s.log = append(s.log, lines...)
	if err == nil && res.Ended {
		s.battle.Turn = turn
	}
	s.mu.Unlock()
	s.events.publish(Event{Kind: EventLog, BattleID: s.id, Turn: turn, Side: game.NoSide, Lines: lines})

	if err != nil {
		s.fail(err)
		return false
	}
	if res.Ended {
		s.finish(game.Completed(res.Winner))
		return false
	}

	var need []int
	for side, n := range res.NeedSwitch {
		if n {
			need = append(need, side)
		}
	}
	if len(need) > 0 && !s.forcedSwitches(ctx, turn, need) {
		return false
	}

	s.mu.Lock()
	if s.outcome.Terminal() {
		s.mu.Unlock()
		return false
	}
	s.battle.Turn = turn
	s.mu.Unlock()
	s.events.publish(Event{Kind: EventTurnResolved, BattleID: s.id, Turn: turn, Side: game.NoSide})
	return true
}

// resolveTurn is swapped in tests.
var resolveTurn = engine.ResolveTurn

// resolve runs the resolver, turning a panic into an invariant error.
// Callers hold s.mu.
func (s *Session) resolve() (res engine.TurnResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			fields := s.fieldsLocked()
			fields[constants.LogFieldStack] = string(debug.Stack())
			err = fmt.Errorf("%w: resolver panic: %v", engine.ErrInvariant, r)
			logging.Error("turn resolver panicked", err, fields)
		}
	}()
	return resolveTurn(s.battle, s.rng)
}

// guarded runs fn under s.mu, turning a panic into an invariant error. The
// lock is released either way.
func (s *Session) guarded(what string, fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			fields := s.fieldsLocked()
			fields[constants.LogFieldStack] = string(debug.Stack())
			err = fmt.Errorf("%w: %s panic: %v", engine.ErrInvariant, what, r)
			logging.Error("battle session recovered a panic", err, fields)
		}
	}()
	return fn()
}

// forcedSwitches asks each side in sides for its replacement after a faint.
func (s *Session) forcedSwitches(ctx context.Context, turn int, sides []int) bool {
	s.mu.Lock()
	for _, side := range sides {
		s.awaitingSwitch[side] = true
	}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.awaitingSwitch = [2]bool{}
		s.mu.Unlock()
	}()

	if err := s.openGates(turn, sides, SwitchOnly); err != nil {
		s.fail(err)
		return false
	}
	actions, ok := s.awaitDecisions(ctx, sides, s.timeouts.Turn)
	if !ok || s.handleForfeits(actions) {
		return false
	}
	return s.applySwitches(turn, sides, actions)
}

// applySwitches sends out the committed switch targets of sides.
func (s *Session) applySwitches(turn int, sides []int, actions [2]game.Action) bool {
	var lines []string
	over := false
	err := s.guarded("switch", func() error {
		if s.outcome.Terminal() {
			over = true
			return nil
		}
		for _, side := range sides {
			sw, ok := actions[side].(game.SwitchAction)
			if !ok {
				return fmt.Errorf("%w: side %d committed %T where a switch was required", engine.ErrInvariant, side, actions[side])
			}
			l, err := engine.ApplySwitch(s.battle, side, sw.Index, s.rng)
			if err != nil {
				return err
			}
			lines = append(lines, l...)
		}
		s.log = append(s.log, lines...)
		return nil
	})
	if err != nil {
		s.fail(err)
		return false
	}
	if over {
		return false
	}
	s.events.publish(Event{Kind: EventLog, BattleID: s.id, Turn: turn, Side: game.NoSide, Lines: lines})
	return true
}

// openGates opens the gates of sides for turn and prompts their drivers.
// Automated drivers commit right here, before anyone waits.
func (s *Session) openGates(turn int, sides []int, r Restriction) error {
	for _, side := range sides {
		s.gates[side].Open(turn, r)
	}
	for _, side := range sides {
		switch d := s.drivers[side].(type) {
		case Automated:
			var a game.Action
			if err := s.guarded("automated policy", func() error {
				a = d.decide(s.battle, side, r == SwitchOnly, s.rng)
				return nil
			}); err != nil {
				return err
			}
			if err := s.gates[side].Commit(turn, a); err != nil {
				return fmt.Errorf("%w: automated side %d: %v", engine.ErrInvariant, side, err)
			}
		case Human:
			var ch engine.Choices
			if err := s.guarded("choices", func() error {
				ch = engine.ChoicesFor(s.battle, side, r == SwitchOnly)
				return nil
			}); err != nil {
				return err
			}
			s.events.publish(Event{Kind: EventDecisionRequested, BattleID: s.id, Turn: turn, Side: side, Choices: &ch})
		default:
			return fmt.Errorf("%w: side %d has driver %T", engine.ErrInvariant, side, d)
		}
	}
	return nil
}

type decisionError struct {
	side int
	err  error
}

func (e *decisionError) Error() string { return fmt.Sprintf("side %d: %v", e.side, e.err) }
func (e *decisionError) Unwrap() error { return e.err }

// awaitDecisions waits on the gates of sides concurrently. Commit order
// never matters; the result is indexed by side. On failure the session is
// finished and ok is false.
func (s *Session) awaitDecisions(ctx context.Context, sides []int, timeout time.Duration) (actions [2]game.Action, ok bool) {
	g, gctx := errgroup.WithContext(ctx)
	for _, side := range sides {
		side := side
		g.Go(func() error {
			a, err := s.gates[side].Await(gctx, timeout)
			if err != nil {
				return &decisionError{side: side, err: err}
			}
			actions[side] = a
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		return actions, true
	}
	if s.finished() {
		return actions, false
	}

	de := &decisionError{side: game.NoSide}
	errors.As(err, &de)
	switch {
	case errors.Is(err, ErrDecisionTimeout):
		var missing []int
		for _, side := range sides {
			if !s.gates[side].Committed() {
				missing = append(missing, side)
			}
		}
		switch len(missing) {
		case 1:
			s.finish(game.Forfeited(missing[0], "decision timeout"))
		case 2:
			s.finish(game.Errored("both participants timed out"))
		default:
			s.finish(game.Errored("decision timed out"))
		}
	case errors.Is(err, ErrTransport):
		fields := s.fields()
		fields[constants.LogFieldSide] = de.side
		logging.Error("decision transport failed", err, fields)
		s.finish(game.Errored(err.Error()))
	default:
		s.finish(game.Errored("session cancelled: " + err.Error()))
	}
	return actions, false
}

// handleForfeits finishes the session when a committed action is a
// forfeit.
func (s *Session) handleForfeits(actions [2]game.Action) bool {
	var by []int
	for side, a := range actions {
		if _, ok := a.(game.ForfeitAction); ok {
			by = append(by, side)
		}
	}
	switch len(by) {
	case 0:
		return false
	case 1:
		s.finish(game.Forfeited(by[0], "forfeit"))
	default:
		s.finish(game.Errored("both participants forfeited"))
	}
	return true
}

// fail logs err with the session context and ends the battle as errored.
func (s *Session) fail(err error) {
	fields := s.fields()
	_ = s.guarded("snapshot", func() error {
		fields[constants.LogFieldSnapshot] = s.battle.Snapshot()
		return nil
	})
	logging.Error("battle session failed", err, fields)
	s.finish(game.Errored(err.Error()))
}

var outcomeEvents = map[game.OutcomeKind]string{
	game.OutcomeCompleted: eventComplete,
	game.OutcomeForfeited: eventForfeit,
	game.OutcomeErrored:   eventFail,
}

// finish moves the session to its terminal state exactly once. Done is
// closed after the OnFinish hooks returned.
func (s *Session) finish(o game.Outcome) {
	s.finishOnce.Do(func() {
		s.mu.Lock()
		s.outcome = o
		cancel := s.cancel
		hooks := s.hooks
		s.hooks = nil
		s.mu.Unlock()

		if err := s.machine.Event(context.Background(), outcomeEvents[o.Kind]); err != nil {
			logging.Error("illegal terminal transition", err, s.fields())
			o = game.Errored(fmt.Sprintf("%s: %v", engine.ErrInvariant, err))
			_ = s.machine.Event(context.Background(), eventFail)
		}

		s.mu.Lock()
		s.outcome = o
		s.log = append(s.log, s.terminalLine(o))
		s.mu.Unlock()

		for _, g := range s.gates {
			g.Close()
		}
		if cancel != nil {
			cancel()
		}

		fields := s.fields()
		fields[constants.LogFieldOutcome] = string(o.Kind)
		fields[constants.LogFieldWinner] = o.Winner
		fields[constants.LogFieldReason] = o.Reason
		logging.Info("battle session finished", fields)

		s.events.publishFinal(Event{Kind: EventBattleEnded, BattleID: s.id, Turn: s.Turn(), Side: game.NoSide, State: s.State(), Outcome: &o})
		s.events.close()

		for _, fn := range hooks {
			fn(s)
		}
		close(s.done)
	})
}

// terminalLine is the last log line of a battle. Callers hold s.mu.
func (s *Session) terminalLine(o game.Outcome) string {
	switch o.Kind {
	case game.OutcomeCompleted:
		return s.battle.Sides[o.Winner].Name + " won the battle!"
	case game.OutcomeForfeited:
		return fmt.Sprintf("%s forfeited. %s won the battle!", s.battle.Sides[o.By].Name, s.battle.Sides[o.Winner].Name)
	}
	return "The battle ended without a winner: " + o.Reason
}

func (s *Session) fields() logging.Fields {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fieldsLocked()
}

func (s *Session) fieldsLocked() logging.Fields {
	return logging.Fields{
		constants.LogFieldBattleID: s.id,
		constants.LogFieldPairKey:  s.pairKey,
		constants.LogFieldState:    s.machine.Current(),
		constants.LogFieldTurn:     s.battle.Turn,
	}
}
