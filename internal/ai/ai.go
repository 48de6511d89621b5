package ai

import (
	"context"
	"fmt"
	"hash/fnv"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Assistant answers free-form crew questions the keyword responder could
// not place.
type Assistant interface {
	Ask(ctx context.Context, prompt string, history []ChatMessage) (string, error)
}

// Cache stores answers for prompts asked without history.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

func promptHash(prompt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(prompt))
	return h.Sum64()
}

func cacheKey(model, prompt string) string {
	return fmt.Sprintf("ai:answer:%s:%016x", model, promptHash(prompt))
}

// cached runs ask unless an answer for prompt is already stored. Cache
// failures never fail the call.
func cached(ctx context.Context, c Cache, model, prompt string, history []ChatMessage, ask func() (string, error)) (string, error) {
	if c == nil || len(history) > 0 {
		return ask()
	}
	key := cacheKey(model, prompt)
	if v, ok, err := c.Get(ctx, key); err == nil && ok {
		return v, nil
	}
	answer, err := ask()
	if err != nil {
		return "", err
	}
	_ = c.Set(ctx, key, answer)
	return answer, nil
}
