package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBareSession(t *testing.T) *Session {
	t.Helper()
	return &Session{
		ID:           "test-session",
		CreatedAt:    time.Now(),
		state:        StateInitializing,
		lastActivity: time.Now(),
	}
}

func TestSession_StateTransitions(t *testing.T) {
	s := newBareSession(t)

	assert.Equal(t, StateInitializing, s.State())

	s.SetState(StateAwaitingMFA)
	assert.Equal(t, StateAwaitingMFA, s.State())

	s.SetState(StateActive)
	assert.Equal(t, StateActive, s.State())
}

func TestSession_ClosedIsTerminal(t *testing.T) {
	s := newBareSession(t)

	s.SetState(StateClosed)
	s.SetState(StateActive)

	assert.Equal(t, StateClosed, s.State())
}

func TestSession_SetStateTouchesActivity(t *testing.T) {
	s := newBareSession(t)
	before := s.LastActivity()

	time.Sleep(5 * time.Millisecond)
	s.SetState(StateActive)

	assert.True(t, s.LastActivity().After(before))
}

func TestManager_CloseIsIdempotent(t *testing.T) {
	m := NewManager(Options{})
	s := newBareSession(t)

	// Close on a partially constructed session (no browser acquired yet)
	// must not panic, and a second close must not re-release.
	require.NoError(t, m.Close(s))
	require.NoError(t, m.Close(s))

	assert.Equal(t, StateClosed, s.State())
}

func TestManager_CloseKeepsFailedState(t *testing.T) {
	m := NewManager(Options{})
	s := newBareSession(t)
	s.SetState(StateFailed)

	require.NoError(t, m.Close(s))

	assert.Equal(t, StateFailed, s.State())
}
