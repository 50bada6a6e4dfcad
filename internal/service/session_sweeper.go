package service

import (
	"context"
	"log"
	"time"

	"lexmerge/internal/port"
)

// SessionSweeper periodically evicts sessions idle for longer than the TTL.
type SessionSweeper struct {
	store    port.SessionStore
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
}

// NewSessionSweeper creates a new SessionSweeper.
func NewSessionSweeper(store port.SessionStore, ttl, interval time.Duration) *SessionSweeper {
	return &SessionSweeper{store: store, ttl: ttl, interval: interval, now: time.Now}
}

// Start runs the sweep loop until ctx is canceled.
func (w *SessionSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Printf("sessionSweeper: started (ttl=%s, interval=%s)", w.ttl, w.interval)

	for {
		select {
		case <-ctx.Done():
			log.Printf("sessionSweeper: shutdown complete")
			return
		case <-ticker.C:
			if _, err := w.Sweep(ctx); err != nil && ctx.Err() == nil {
				log.Printf("sessionSweeper: sweep error: %v", err)
			}
		}
	}
}

// Sweep removes idle sessions once and returns how many were removed.
func (w *SessionSweeper) Sweep(ctx context.Context) (int, error) {
	removed, err := w.store.DeleteIdleSince(ctx, w.now().Add(-w.ttl))
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		log.Printf("sessionSweeper: evicted %d idle session(s)", removed)
	}
	return removed, nil
}

// SetClock replaces the time source (for testing).
func (w *SessionSweeper) SetClock(now func() time.Time) {
	w.now = now
}
