package service

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type RevocationRegistry interface {
	Revoke(jti string, expiresAt time.Time)
	IsRevoked(jti string) bool
}

// MemoryRevocationRegistry keeps revoked token ids until their tokens would
// have expired anyway. Contents are lost on restart.
type MemoryRevocationRegistry struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

func NewMemoryRevocationRegistry() *MemoryRevocationRegistry {
	return &MemoryRevocationRegistry{entries: map[string]time.Time{}}
}

func (r *MemoryRevocationRegistry) Revoke(jti string, expiresAt time.Time) {
	if jti == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if current, exists := r.entries[jti]; exists && current.After(expiresAt) {
		return
	}
	r.entries[jti] = expiresAt
}

func (r *MemoryRevocationRegistry) IsRevoked(jti string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.entries[jti]
	return exists
}

// Prune drops entries whose expiry is at or before now and returns how many went.
func (r *MemoryRevocationRegistry) Prune(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for jti, expiresAt := range r.entries {
		if !expiresAt.After(now) {
			delete(r.entries, jti)
			removed++
		}
	}
	return removed
}

func (r *MemoryRevocationRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *MemoryRevocationRegistry) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if removed := r.Prune(now); removed > 0 {
					slog.Debug("pruned revoked tokens", "removed", removed, "remaining", r.Len())
				}
			}
		}
	}()
}
