package session

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/maxfetch/maxfetch/internal/scraper/portal"
)

// Registry maps an external requester identifier (chat user, API caller) to
// its live Session. One live session per identifier: a second Put for an
// identifier that is still active is rejected, not queued. Entries expire so
// an abandoned run cannot block its identifier forever.
type Registry struct {
	store *cache.Cache
}

// NewRegistry creates a registry whose entries expire after ttl.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		store: cache.New(ttl, ttl),
	}
}

// Put registers sess under id. Returns ErrSessionExists when a live session
// is already registered for id.
func (r *Registry) Put(id string, sess *Session) error {
	if err := r.store.Add(id, sess, cache.DefaultExpiration); err != nil {
		return portal.ErrSessionExists
	}
	return nil
}

// Get returns the live session for id, if any.
func (r *Registry) Get(id string) (*Session, bool) {
	v, ok := r.store.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

// Remove frees the identifier for a new session. Removing an unknown id is
// a no-op.
func (r *Registry) Remove(id string) {
	r.store.Delete(id)
}
