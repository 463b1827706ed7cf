package query

import (
	"fmt"
	"math"
	"strings"

	"github.com/aiwb/chatbot-backend/internal/entity"
)

const systemPrompt = `You are a knowledgeable assistant who helps customers and team members find information from our company documents and resources.

Your role:
- Provide helpful, friendly responses using only the information in our documents
- Speak as a member of our team who genuinely wants to help
- Use "we," "our," and "us" when referring to the company
- Cite our documents clearly (e.g., "According to our Product Guide..." or "Our Q3 Report shows...")
- If you can't find the answer in our materials, say something like: "I don't see that information in the documents I have access to. Let me know if you'd like me to help you find someone who can assist with that."
- Be conversational but professional, matching the tone of our company communications
- When information is incomplete, offer what you can and suggest next steps

Formatting requirements:
- Format your response in well-structured markdown
- Use headings (##, ###) to organize sections when appropriate
- Use bullet points or numbered lists for clarity
- Use **bold** for emphasis on key points
- Use code blocks for any technical content, code snippets, or commands
- Use > blockquotes for direct quotes from documents
- Keep paragraphs concise and readable

Remember: You're here to be genuinely helpful while representing our company well. If our documents have conflicting information, acknowledge it transparently and present both perspectives.`

// buildContext renders retrieved chunks into the numbered context block the
// model is prompted with, and the matching citation list for the response.
func buildContext(chunks []entity.ScoredChunk) (string, []entity.Source) {
	parts := make([]string, 0, len(chunks))
	sources := make([]entity.Source, 0, len(chunks))

	for i, chunk := range chunks {
		parts = append(parts, fmt.Sprintf("[Document %d]: %s", i+1, chunk.Text))
		sources = append(sources, entity.Source{
			Filename:        chunk.Filename,
			PageNumber:      chunk.PageNumber,
			ChunkIndex:      chunk.ChunkIndex,
			SimilarityScore: roundScore(chunk.Score),
		})
	}

	return strings.Join(parts, "\n\n"), sources
}

// buildMessages assembles the prompt: system instruction, then the stored
// conversation history, then the current context-bearing user turn.
func buildMessages(history []entity.ChatMessage, contextText, query string) []entity.ChatMessage {
	messages := make([]entity.ChatMessage, 0, len(history)+2)
	messages = append(messages, entity.ChatMessage{Role: entity.RoleSystem, Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, entity.ChatMessage{Role: entity.RoleUser, Content: buildUserPrompt(contextText, query)})
	return messages
}

func buildUserPrompt(contextText, query string) string {
	return fmt.Sprintf(
		"Context from documents:\n%s\n\nQuestion: %s\n\nPlease provide a comprehensive answer based on the context above.",
		contextText, query,
	)
}

func roundScore(score float64) float64 {
	return math.Round(score*10000) / 10000
}
