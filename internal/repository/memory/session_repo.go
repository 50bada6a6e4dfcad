// Package memory holds process-local repositories. Nothing here survives a restart.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"lexmerge/internal/domain"
	"lexmerge/internal/port"
)

type sessionRepo struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*domain.Session
	now      func() time.Time
}

// NewSessionRepo creates an in-memory SessionStore.
func NewSessionRepo() port.SessionStore {
	return newSessionRepo(time.Now)
}

// NewSessionRepoWithClock creates an in-memory SessionStore using now for timestamps (for testing).
func NewSessionRepoWithClock(now func() time.Time) port.SessionStore {
	return newSessionRepo(now)
}

func newSessionRepo(now func() time.Time) *sessionRepo {
	return &sessionRepo{
		sessions: make(map[uuid.UUID]*domain.Session),
		now:      now,
	}
}

func (r *sessionRepo) Create(ctx context.Context, session *domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[session.ID]; exists {
		return fmt.Errorf("sessionRepo.Create: session %s already exists", session.ID)
	}
	now := r.now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now
	r.sessions[session.ID] = session.Clone()
	return nil
}

func (r *sessionRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s.Clone(), nil
}

func (r *sessionRepo) Update(ctx context.Context, id uuid.UUID, fn func(*domain.Session) error) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	working := current.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	working.ID = id
	working.CreatedAt = current.CreatedAt
	working.UpdatedAt = r.now().UTC()
	r.sessions[id] = working
	return working.Clone(), nil
}

func (r *sessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *sessionRepo) DeleteIdleSince(ctx context.Context, cutoff time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		// Sessions with an extraction in flight are kept until it settles.
		if s.Extracting {
			continue
		}
		if s.UpdatedAt.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}
