package telegram

import (
	"fmt"

	gocache "github.com/patrickmn/go-cache"
)

// chatState keeps the per-chat tenant binding set by the /business command.
// Bindings live for the process lifetime, like the conversation history.
type chatState struct {
	store *gocache.Cache
}

func newChatState() *chatState {
	return &chatState{store: gocache.New(gocache.NoExpiration, 0)}
}

func (s *chatState) SetBusiness(chatID int64, businessID string) {
	s.store.Set(chatKey(chatID), businessID, gocache.NoExpiration)
}

func (s *chatState) Business(chatID int64) (string, bool) {
	v, ok := s.store.Get(chatKey(chatID))
	if !ok {
		return "", false
	}
	return v.(string), true
}

func chatKey(chatID int64) string {
	return fmt.Sprintf("%d", chatID)
}

// conversationID derives the stable conversation key for one chat.
func conversationID(chatID int64) string {
	return fmt.Sprintf("tg_%d", chatID)
}
