package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexmerge/internal/domain"
	"lexmerge/internal/repository/memory"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestSessionRepo_CreateGet(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	repo := memory.NewSessionRepoWithClock(clock.Now)
	ctx := context.Background()

	s := &domain.Session{ID: uuid.New()}
	require.NoError(t, repo.Create(ctx, s))
	assert.Equal(t, clock.now, s.CreatedAt)

	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, clock.now, got.UpdatedAt)

	assert.Error(t, repo.Create(ctx, s), "duplicate id")
}

func TestSessionRepo_GetMissing(t *testing.T) {
	repo := memory.NewSessionRepo()

	_, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionRepo_ReturnsCopies(t *testing.T) {
	repo := memory.NewSessionRepo()
	ctx := context.Background()

	s := &domain.Session{
		ID:     uuid.New(),
		Record: &domain.ExtractionRecord{Fields: []domain.ExtractionField{{ID: 1, FieldName: "COURT", Value: "A"}}},
	}
	require.NoError(t, repo.Create(ctx, s))

	s.Record.Fields[0].Value = "mutated after create"
	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Record.Fields[0].Value)

	got.Record.Fields[0].Value = "mutated after get"
	again, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", again.Record.Fields[0].Value)
}

func TestSessionRepo_Update(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	repo := memory.NewSessionRepoWithClock(clock.Now)
	ctx := context.Background()

	s := &domain.Session{ID: uuid.New()}
	require.NoError(t, repo.Create(ctx, s))
	clock.Advance(time.Minute)

	updated, err := repo.Update(ctx, s.ID, func(sess *domain.Session) error {
		sess.LastError = "boom"
		sess.ID = uuid.New() // ignored
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, s.ID, updated.ID)
	assert.Equal(t, "boom", updated.LastError)
	assert.Equal(t, clock.now, updated.UpdatedAt)
	assert.Equal(t, s.CreatedAt, updated.CreatedAt)
}

func TestSessionRepo_UpdateErrorDiscardsChanges(t *testing.T) {
	repo := memory.NewSessionRepo()
	ctx := context.Background()

	s := &domain.Session{ID: uuid.New()}
	require.NoError(t, repo.Create(ctx, s))

	sentinel := errors.New("reject")
	_, err := repo.Update(ctx, s.ID, func(sess *domain.Session) error {
		sess.LastError = "should not persist"
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, got.LastError)

	_, err = repo.Update(ctx, uuid.New(), func(*domain.Session) error { return nil })
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionRepo_Delete(t *testing.T) {
	repo := memory.NewSessionRepo()
	ctx := context.Background()

	s := &domain.Session{ID: uuid.New()}
	require.NoError(t, repo.Create(ctx, s))
	require.NoError(t, repo.Delete(ctx, s.ID))

	_, err := repo.Get(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, s.ID), domain.ErrSessionNotFound)
}

func TestSessionRepo_DeleteIdleSince(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	repo := memory.NewSessionRepoWithClock(clock.Now)
	ctx := context.Background()

	idle := &domain.Session{ID: uuid.New()}
	busy := &domain.Session{ID: uuid.New()}
	require.NoError(t, repo.Create(ctx, idle))
	require.NoError(t, repo.Create(ctx, busy))
	_, err := repo.Update(ctx, busy.ID, func(s *domain.Session) error {
		s.Extracting = true
		return nil
	})
	require.NoError(t, err)

	clock.Advance(time.Hour)
	fresh := &domain.Session{ID: uuid.New()}
	require.NoError(t, repo.Create(ctx, fresh))

	removed, err := repo.DeleteIdleSince(ctx, clock.Now().Add(-30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = repo.Get(ctx, idle.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = repo.Get(ctx, busy.ID)
	assert.NoError(t, err)
	_, err = repo.Get(ctx, fresh.ID)
	assert.NoError(t, err)
}

func TestSessionRepo_CancelledContext(t *testing.T) {
	repo := memory.NewSessionRepo()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSessionRepo_ConcurrentUpdates(t *testing.T) {
	repo := memory.NewSessionRepo()
	ctx := context.Background()

	s := &domain.Session{ID: uuid.New(), Record: &domain.ExtractionRecord{}}
	require.NoError(t, repo.Create(ctx, s))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Update(ctx, s.ID, func(sess *domain.Session) error {
				sess.Record.Fields = append(sess.Record.Fields, domain.ExtractionField{ID: len(sess.Record.Fields) + 1, FieldName: "F"})
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, got.Record.Fields, 50)
	assert.NoError(t, got.Record.Validate())
}
