package ai

import "context"

// Chat is the free-form Q&A operation. It carries optional conversation
// history, returns raw text, and has no parsing contract.
func (c *Client) Chat(ctx context.Context, message string, history []Message) (string, error) {
	messages := make([]Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, Message{Role: "user", Content: message})
	return c.Complete(ctx, messages, chatMaxTokens)
}
