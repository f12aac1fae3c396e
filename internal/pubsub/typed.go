package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
)

// Event[T] binds a topic name to a JSON payload type so publishers and
// subscribers agree on the message shape.
type Event[T any] struct {
	topic string
}

// NewEvent creates a typed event for the given topic.
func NewEvent[T any](topic string) Event[T] {
	return Event[T]{topic: topic}
}

// Name returns the topic name.
func (e Event[T]) Name() string {
	return e.topic
}

// Publish marshals payload and publishes it for userID.
func (e Event[T]) Publish(ctx context.Context, pub Publisher, userID string, payload T) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", e.topic, err)
	}
	return pub.Publish(ctx, Message{Topic: e.topic, UserID: userID, Payload: data})
}

// Subscribe registers fn for the topic, decoding each payload into T.
func (e Event[T]) Subscribe(ctx context.Context, sub Subscriber, fn func(ctx context.Context, userID string, payload T) error) error {
	return sub.Subscribe(ctx, e.topic, func(ctx context.Context, msg Message) error {
		var payload T
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("decode %s payload: %w", e.topic, err)
		}
		return fn(ctx, msg.UserID, payload)
	})
}
