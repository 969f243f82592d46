package repository

import (
	"context"
	"sync"
	"time"

	"github.com/futig/ai-workbench/internal/entity"
	"github.com/patrickmn/go-cache"
)

// SessionRepository defines the interface for chat session memory
type SessionRepository interface {
	GetOrCreate(ctx context.Context, sessionID string) *entity.ConversationMemory
	Delete(ctx context.Context, sessionID string) bool
	Len(ctx context.Context) int
}

var _ SessionRepository = &SessionMemory{}

// SessionMemory maps session ids to conversation memory. Sessions idle for
// longer than ttl are evicted.
type SessionMemory struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewSessionMemory(ttl, cleanupInterval time.Duration) *SessionMemory {
	return &SessionMemory{
		cache: cache.New(ttl, cleanupInterval),
	}
}

// GetOrCreate returns the memory of a session, creating an empty one on first
// use. Each access extends the session lifetime.
func (r *SessionMemory) GetOrCreate(_ context.Context, sessionID string) *entity.ConversationMemory {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.cache.Get(sessionID); ok {
		mem := v.(*entity.ConversationMemory)
		r.cache.Set(sessionID, mem, cache.DefaultExpiration)
		return mem
	}

	mem := &entity.ConversationMemory{
		SessionID: sessionID,
		UpdatedAt: time.Now(),
	}
	r.cache.Set(sessionID, mem, cache.DefaultExpiration)
	return mem
}

// Delete drops a session and reports whether it existed
func (r *SessionMemory) Delete(_ context.Context, sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cache.Get(sessionID); !ok {
		return false
	}
	r.cache.Delete(sessionID)
	return true
}

func (r *SessionMemory) Len(_ context.Context) int {
	return r.cache.ItemCount()
}
