package ai

import (
	"context"
	"fmt"
)

var mockAnswers = []string{
	"I could not find that in the crew data. Your scheduler can confirm the details.",
	"That question is outside what the crew assistant tracks. Try asking about your schedule or flights.",
	"I don't have an answer for that yet. Crew scheduling can help at (555) 123-4567.",
}

// MockAssistant answers deterministically from the prompt hash. It is used
// in development and tests.
type MockAssistant struct {
	Err error
}

func (m MockAssistant) Ask(ctx context.Context, prompt string, history []ChatMessage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Err != nil {
		return "", m.Err
	}
	h := promptHash(prompt)
	return fmt.Sprintf("[mock] %s", mockAnswers[h%uint64(len(mockAnswers))]), nil
}
