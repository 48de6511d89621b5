package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const TypeChatAnswered = "chat.answered"

// ChatAnswered is published once per chat reply.
type ChatAnswered struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Intent    string    `json:"intent"`
	Source    string    `json:"source"`
	LatencyMS int64     `json:"latency_ms"`
	At        time.Time `json:"at"`
}

type Publisher interface {
	PublishChatAnswered(ctx context.Context, ev ChatAnswered) error
	Close() error
}

type NopPublisher struct{}

func (NopPublisher) PublishChatAnswered(context.Context, ChatAnswered) error { return nil }
func (NopPublisher) Close() error                                          { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewKafkaPublisher writes synchronously to topic, one ack required.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
		topic: topic,
	}
}

func (p *KafkaPublisher) PublishChatAnswered(ctx context.Context, ev ChatAnswered) error {
	ev = ev.withDefaults()
	msg, err := toMessage(ev)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s to %s: %w", ev.Type, p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func (ev ChatAnswered) withDefaults() ChatAnswered {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Type == "" {
		ev.Type = TypeChatAnswered
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	return ev
}

// toMessage keys messages by username so one user's events stay ordered.
func toMessage(ev ChatAnswered) (kafka.Message, error) {
	ev = ev.withDefaults()
	data, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(ev.Username),
		Value: data,
		Time:  ev.At,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(ev.Type)},
		},
	}, nil
}

// SplitBrokers parses a comma-separated broker list.
func SplitBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
