package api

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"pos_sales/internal/sales"
)

const defaultSessionIdleTTL = 30 * time.Minute

var errSessionNotFound = errors.New("sale session not found")

type session struct {
	builder *sales.Builder
	touched time.Time
}

// sessionRegistry keeps in-progress sale builders between requests.
// A session untouched for longer than idleTTL counts as abandoned and is
// dropped on the next add or get.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*session
	idleTTL  time.Duration
	now      func() time.Time
}

func newSessionRegistry(idleTTL time.Duration) *sessionRegistry {
	if idleTTL <= 0 {
		idleTTL = defaultSessionIdleTTL
	}

	return &sessionRegistry{
		sessions: map[string]*session{},
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

func (r *sessionRegistry) add(b *sales.Builder) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.evictIdle(now)

	id := uuid.NewString()
	r.sessions[id] = &session{builder: b, touched: now}
	return id
}

func (r *sessionRegistry) get(id string) (*sales.Builder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.evictIdle(now)

	s, ok := r.sessions[id]
	if !ok {
		return nil, errSessionNotFound
	}
	s.touched = now
	return s.builder, nil
}

func (r *sessionRegistry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *sessionRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// evictIdle abandons and drops sessions idle for longer than idleTTL.
func (r *sessionRegistry) evictIdle(now time.Time) {
	for id, s := range r.sessions {
		if now.Sub(s.touched) > r.idleTTL {
			s.builder.Abandon()
			delete(r.sessions, id)
		}
	}
}
