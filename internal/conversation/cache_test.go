package conversation

import (
	"fmt"
	"sync"
	"testing"

	"github.com/aiwb/chatbot-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstTurnCreatesTwoEntries(t *testing.T) {
	c := NewCache(10, 0)

	c.AppendTurn("conv-1", "hello", "hi there")

	history := c.History("conv-1")
	require.Len(t, history, 2)
	assert.Equal(t, entity.ChatMessage{Role: entity.RoleUser, Content: "hello"}, history[0])
	assert.Equal(t, entity.ChatMessage{Role: entity.RoleAssistant, Content: "hi there"}, history[1])
}

func TestHistoryUnknownConversationIsEmpty(t *testing.T) {
	c := NewCache(10, 0)
	assert.Empty(t, c.History("nope"))
}

func TestKeepTailEviction(t *testing.T) {
	c := NewCache(10, 0)

	for i := 0; i < 9; i++ {
		c.AppendTurn("conv-1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	history := c.History("conv-1")
	require.Len(t, history, 10)

	// Always ends with the most recent assistant entry.
	last := history[len(history)-1]
	assert.Equal(t, entity.RoleAssistant, last.Role)
	assert.Equal(t, "a8", last.Content)

	// Oldest retained entry is the user half of turn 4 (turns 0-3 evicted).
	assert.Equal(t, entity.RoleUser, history[0].Role)
	assert.Equal(t, "q4", history[0].Content)
}

func TestDeleteUnknownConversation(t *testing.T) {
	c := NewCache(10, 0)

	err := c.Delete("missing")
	assert.ErrorIs(t, err, entity.ErrConversationNotFound)

	c.AppendTurn("conv-1", "q", "a")
	require.NoError(t, c.Delete("conv-1"))
	assert.Empty(t, c.History("conv-1"))
	assert.ErrorIs(t, c.Delete("conv-1"), entity.ErrConversationNotFound)
}

func TestHistoryReturnsCopy(t *testing.T) {
	c := NewCache(10, 0)
	c.AppendTurn("conv-1", "q", "a")

	history := c.History("conv-1")
	history[0].Content = "mutated"

	assert.Equal(t, "q", c.History("conv-1")[0].Content)
}

func TestConcurrentTurnsDoNotLoseEntries(t *testing.T) {
	c := NewCache(200, 0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			release := c.Acquire("conv-1")
			defer release()
			c.AppendTurn("conv-1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
		}(i)
	}
	wg.Wait()

	assert.Len(t, c.History("conv-1"), 100)
}

func TestCount(t *testing.T) {
	c := NewCache(10, 0)
	c.AppendTurn("a", "q", "a")
	c.AppendTurn("b", "q", "a")
	assert.Equal(t, 2, c.Count())
}
