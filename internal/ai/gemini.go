package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

type GeminiAssistant struct {
	client    *genai.Client
	model     string
	maxTokens int32
	cache     Cache
}

func NewGeminiAssistant(ctx context.Context, apiKey, model string, maxTokens int, cache Cache) (*GeminiAssistant, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiAssistant{client: client, model: model, maxTokens: int32(maxTokens), cache: cache}, nil
}

func (g *GeminiAssistant) Ask(ctx context.Context, prompt string, history []ChatMessage) (string, error) {
	return cached(ctx, g.cache, g.model, prompt, history, func() (string, error) {
		return g.generate(ctx, prompt, history)
	})
}

func (g *GeminiAssistant) generate(ctx context.Context, prompt string, history []ChatMessage) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, h := range history {
		role := genai.Role(genai.RoleUser)
		if h.Role == "assistant" || h.Role == "model" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(h.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(prompt, genai.RoleUser))

	var cfg *genai.GenerateContentConfig
	if g.maxTokens > 0 {
		cfg = &genai.GenerateContentConfig{MaxOutputTokens: g.maxTokens}
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty assistant response")
	}
	return text, nil
}
