package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/crewscheduler/backend/internal/ai"
	"github.com/crewscheduler/backend/internal/chatbot"
	"github.com/crewscheduler/backend/internal/events"
	"github.com/crewscheduler/backend/internal/metrics"
	"github.com/crewscheduler/backend/internal/models"
)

const (
	SourceKeyword = "keyword"
	SourceAI      = "ai"
)

type Reply struct {
	chatbot.Response
	Source string `json:"source"`
}

// ChatService answers chat messages with the keyword responder and hands
// unrecognized messages to the AI assistant when one is configured.
type ChatService struct {
	Responder *chatbot.Responder
	Assistant ai.Assistant
	AITimeout time.Duration
	Metrics   *metrics.Chat
	Events    events.Publisher
	Logger    zerolog.Logger
}

func (s *ChatService) Chat(ctx context.Context, message string, user models.User) Reply {
	start := time.Now()
	resp := s.Responder.Respond(message, user)
	reply := Reply{Response: resp, Source: SourceKeyword}

	if resp.Intent == chatbot.IntentDefault && s.Assistant != nil {
		if answer, err := s.ask(ctx, message, user); err != nil {
			s.Metrics.IncAIFallback(fallbackReason(err))
			s.Logger.Warn().Err(err).Str("user", user.Username).Msg("ai assistant failed, using keyword reply")
		} else {
			reply.Text = answer
			reply.Suggestions = chatbot.DefaultSuggestions()
			reply.Source = SourceAI
		}
	}

	elapsed := time.Since(start)
	s.Metrics.ObserveReply(string(reply.Intent), reply.Source, elapsed)
	s.publish(ctx, reply, user, elapsed)
	return reply
}

func (s *ChatService) ask(ctx context.Context, message string, user models.User) (string, error) {
	timeout := s.AITimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	answer, err := s.Assistant.Ask(ctx, buildPrompt(message, user), nil)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) == "" {
		return "", fmt.Errorf("empty assistant answer")
	}
	return answer, nil
}

func buildPrompt(message string, user models.User) string {
	name, role := user.Name, user.Role
	if name == "" {
		name = "User"
	}
	if role == "" {
		role = "user"
	}
	var b strings.Builder
	b.WriteString("You are the assistant of an airline crew scheduling desk. ")
	b.WriteString("Answer in at most three short sentences. ")
	b.WriteString("If the question needs schedule data you do not have, tell the user to contact scheduling.\n\n")
	fmt.Fprintf(&b, "Crew member: %s (role: %s)\n", name, role)
	fmt.Fprintf(&b, "Question: %s", strings.TrimSpace(message))
	return b.String()
}

func fallbackReason(err error) string {
	var rl ai.RateLimitError
	switch {
	case errors.As(err, &rl):
		return "rate_limited"
	case errors.Is(err, ai.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}

func (s *ChatService) publish(ctx context.Context, reply Reply, user models.User, elapsed time.Duration) {
	if s.Events == nil {
		return
	}
	ev := events.ChatAnswered{
		Username:  user.Username,
		Role:      user.Role,
		Intent:    string(reply.Intent),
		Source:    reply.Source,
		LatencyMS: elapsed.Milliseconds(),
	}
	if err := s.Events.PublishChatAnswered(ctx, ev); err != nil {
		s.Logger.Warn().Err(err).Str("intent", ev.Intent).Msg("publish chat event failed")
	}
}
