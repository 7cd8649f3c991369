package battle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ericogr/duel-arena/internal/game"
)

func TestGateCommitThenAwait(t *testing.T) {
	g := NewGate()
	g.Open(3, AnyAction)
	require.NoError(t, g.Commit(3, game.MoveAction{Slot: 1}))
	require.True(t, g.Committed())

	a, err := g.Await(context.Background(), time.Second)
	require.NoError(t, err)
	require.Equal(t, game.MoveAction{Slot: 1}, a)

	turn, _, open := g.Status()
	require.Equal(t, 3, turn)
	require.True(t, open)
	require.ErrorIs(t, g.Commit(3, game.MoveAction{}), ErrAlreadyCommitted)
}

func TestGateRejectsSecondCommit(t *testing.T) {
	g := NewGate()
	g.Open(1, AnyAction)
	require.NoError(t, g.Commit(1, game.MoveAction{}))
	require.ErrorIs(t, g.Commit(1, game.MoveAction{Slot: 2}), ErrAlreadyCommitted)
}

func TestGateRejectsStaleAndDisallowed(t *testing.T) {
	g := NewGate()
	require.ErrorIs(t, g.Commit(0, game.SwitchAction{}), ErrStaleDecision, "nothing open yet")

	g.Open(2, SwitchOnly)
	require.ErrorIs(t, g.Commit(1, game.SwitchAction{}), ErrStaleDecision)
	require.ErrorIs(t, g.Commit(2, game.MoveAction{}), ErrActionNotAllowed)
	require.ErrorIs(t, g.Commit(2, nil), ErrNilAction)
	require.NoError(t, g.Commit(2, game.ForfeitAction{}))
}

func TestGateTimeout(t *testing.T) {
	g := NewGate()
	g.Open(1, AnyAction)
	start := time.Now()
	_, err := g.Await(context.Background(), 20*time.Millisecond)
	require.ErrorIs(t, err, ErrDecisionTimeout)
	require.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	require.ErrorIs(t, g.Commit(1, game.MoveAction{}), ErrStaleDecision, "late commit")
}

func TestGateWaiterWakesOnCommit(t *testing.T) {
	g := NewGate()
	g.Open(5, AnyAction)
	got := make(chan game.Action, 1)
	go func() {
		a, _ := g.Await(context.Background(), 0)
		got <- a
	}()
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, g.Commit(5, game.SwitchAction{Index: 2}))
	select {
	case a := <-got:
		require.Equal(t, game.SwitchAction{Index: 2}, a)
	case <-time.After(time.Second):
		t.Fatal("waiter was not released")
	}
}

func TestGateFailureIsSticky(t *testing.T) {
	g := NewGate()
	g.Fail(errors.New("socket closed"))
	g.Open(1, AnyAction)
	_, err := g.Await(context.Background(), time.Second)
	require.ErrorIs(t, err, ErrTransport)

	g.Open(2, AnyAction)
	_, err = g.Await(context.Background(), time.Second)
	require.ErrorIs(t, err, ErrTransport)
}

func TestGateClose(t *testing.T) {
	g := NewGate()
	g.Open(1, AnyAction)
	done := make(chan error, 1)
	go func() {
		_, err := g.Await(context.Background(), 0)
		done <- err
	}()
	g.Close()
	select {
	case err := <-done:
		require.ErrorIs(t, err, ErrGateClosed)
	case <-time.After(time.Second):
		t.Fatal("close did not release the waiter")
	}
	require.NoError(t, g.Commit(1, game.MoveAction{}), "commits after close are ignored")
	require.False(t, g.Committed())
}

func TestGateContextCancel(t *testing.T) {
	g := NewGate()
	g.Open(1, AnyAction)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Await(ctx, time.Second)
	require.ErrorIs(t, err, context.Canceled)
}
