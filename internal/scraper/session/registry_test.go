package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxfetch/maxfetch/internal/scraper/portal"
)

func TestRegistry_PutRejectsDuplicate(t *testing.T) {
	r := NewRegistry(time.Minute)

	first := newBareSession(t)
	require.NoError(t, r.Put("user-1", first))

	second := newBareSession(t)
	err := r.Put("user-1", second)

	require.Error(t, err)
	assert.ErrorIs(t, err, portal.ErrSessionExists)

	// The original registration is untouched.
	got, ok := r.Get("user-1")
	require.True(t, ok)
	assert.Same(t, first, got)
}

func TestRegistry_RemoveFreesIdentifier(t *testing.T) {
	r := NewRegistry(time.Minute)

	require.NoError(t, r.Put("user-1", newBareSession(t)))
	r.Remove("user-1")

	_, ok := r.Get("user-1")
	assert.False(t, ok)

	require.NoError(t, r.Put("user-1", newBareSession(t)))
}

func TestRegistry_IndependentIdentifiers(t *testing.T) {
	r := NewRegistry(time.Minute)

	require.NoError(t, r.Put("user-1", newBareSession(t)))
	require.NoError(t, r.Put("user-2", newBareSession(t)))
}

func TestRegistry_ConcurrentPutSingleWinner(t *testing.T) {
	r := NewRegistry(time.Minute)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = r.Put("user-1", newBareSession(t))
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, portal.ErrSessionExists)
		}
	}
	assert.Equal(t, 1, won)
}
