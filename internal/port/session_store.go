package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"lexmerge/internal/domain"
)

// SessionStore keeps working sessions. Implementations return copies so callers
// never share mutable state with the store.
type SessionStore interface {
	Create(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	// Update applies fn to the stored session under the store's lock and
	// persists the result unless fn returns an error.
	Update(ctx context.Context, id uuid.UUID, fn func(*domain.Session) error) (*domain.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteIdleSince removes sessions not updated since cutoff and returns how
	// many were removed.
	DeleteIdleSince(ctx context.Context, cutoff time.Time) (int, error)
}
