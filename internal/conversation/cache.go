package conversation

import (
	"sync"
	"time"

	"github.com/aiwb/chatbot-backend/internal/entity"
	gocache "github.com/patrickmn/go-cache"
)

// DefaultMaxHistory caps the number of retained entries per conversation.
// Two entries are appended per turn, so this keeps the last five exchanges.
const DefaultMaxHistory = 10

// Cache is the process-wide conversation history store. It is the only shared
// mutable state in the request path and is injected explicitly, never reached
// through a global.
//
// The number of distinct conversation ids is unbounded: there is no tenant
// cap, and eviction only happens when a TTL is configured. Long-running
// deployments without a TTL must size memory accordingly.
type Cache struct {
	maxHistory int
	store      *gocache.Cache

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCache creates an empty cache. ttl <= 0 disables expiration, matching the
// process-lifetime contract; a positive ttl lets deployments bound growth.
func NewCache(maxHistory int, ttl time.Duration) *Cache {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}

	expiration := gocache.NoExpiration
	cleanup := time.Duration(0)
	if ttl > 0 {
		expiration = ttl
		cleanup = ttl
	}

	return &Cache{
		maxHistory: maxHistory,
		store:      gocache.New(expiration, cleanup),
		locks:      make(map[string]*sync.Mutex),
	}
}

// Acquire locks the conversation id and returns the release function. Holding
// the lock from history read to append restores the "read history, then
// atomically append" contract for concurrent turns on one conversation.
func (c *Cache) Acquire(conversationID string) func() {
	c.mu.Lock()
	lock, ok := c.locks[conversationID]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[conversationID] = lock
	}
	c.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// History returns the retained entries for a conversation, oldest first.
// Unknown ids yield an empty history.
func (c *Cache) History(conversationID string) []entity.ChatMessage {
	v, ok := c.store.Get(conversationID)
	if !ok {
		return nil
	}

	stored := v.([]entity.ChatMessage)
	out := make([]entity.ChatMessage, len(stored))
	copy(out, stored)
	return out
}

// AppendTurn records one completed exchange: the user message, then the
// assistant answer. The sequence is truncated to the last maxHistory entries
// after the append (keep-tail eviction).
func (c *Cache) AppendTurn(conversationID, userContent, assistantContent string) {
	history := c.History(conversationID)
	history = append(history,
		entity.ChatMessage{Role: entity.RoleUser, Content: userContent},
		entity.ChatMessage{Role: entity.RoleAssistant, Content: assistantContent},
	)

	if len(history) > c.maxHistory {
		history = history[len(history)-c.maxHistory:]
	}

	c.store.Set(conversationID, history, gocache.DefaultExpiration)
}

// Delete removes a conversation. Deleting an unknown id is reported, not
// silently ignored.
func (c *Cache) Delete(conversationID string) error {
	if _, ok := c.store.Get(conversationID); !ok {
		return entity.ErrConversationNotFound
	}

	c.store.Delete(conversationID)

	c.mu.Lock()
	delete(c.locks, conversationID)
	c.mu.Unlock()

	return nil
}

// Count reports the number of tracked conversations.
func (c *Cache) Count() int {
	return c.store.ItemCount()
}
