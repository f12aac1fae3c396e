package hub

import (
	"context"
	"log/slog"
)

const sendBuffer = 16

// Subscriber is one live connection of a user. The Hub writes rendered
// fragments to Send; the connection drains it.
type Subscriber struct {
	UserID string
	Send   chan []byte
}

// NewSubscriber creates a subscriber with a buffered Send channel.
func NewSubscriber(userID string) *Subscriber {
	return &Subscriber{UserID: userID, Send: make(chan []byte, sendBuffer)}
}

// DirectMessage is a payload for every connection of one user.
type DirectMessage struct {
	UserID  string
	Payload []byte
}

// Hub fans rendered fragments out to the live connections of each user.
// All bookkeeping happens on the Run goroutine.
type Hub struct {
	subscribers map[string]map[*Subscriber]struct{}

	// Register adds a subscriber.
	Register chan *Subscriber

	// Unregister removes a subscriber and closes its Send channel.
	Unregister chan *Subscriber

	// Direct delivers a message to one user's subscribers.
	Direct chan *DirectMessage

	counts chan countRequest
}

type countRequest struct {
	userID string
	reply  chan int
}

// NewHub creates a Hub. Call Run before using it.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[*Subscriber]struct{}),
		Register:    make(chan *Subscriber),
		Unregister:  make(chan *Subscriber),
		Direct:      make(chan *DirectMessage, 64),
		counts:      make(chan countRequest),
	}
}

// Run processes hub events until ctx is canceled, then closes every
// remaining subscriber.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for _, subs := range h.subscribers {
				for sub := range subs {
					close(sub.Send)
				}
			}
			h.subscribers = make(map[string]map[*Subscriber]struct{})
			return

		case sub := <-h.Register:
			subs, ok := h.subscribers[sub.UserID]
			if !ok {
				subs = make(map[*Subscriber]struct{})
				h.subscribers[sub.UserID] = subs
			}
			subs[sub] = struct{}{}
			slog.Debug("Live subscriber registered", "user_id", sub.UserID, "connections", len(subs))

		case sub := <-h.Unregister:
			h.remove(sub)

		case msg := <-h.Direct:
			for sub := range h.subscribers[msg.UserID] {
				select {
				case sub.Send <- msg.Payload:
				default:
					// Lagging connection; the client reconnects and re-renders.
					slog.Warn("Dropping slow live subscriber", "user_id", sub.UserID)
					h.remove(sub)
				}
			}

		case req := <-h.counts:
			req.reply <- len(h.subscribers[req.userID])
		}
	}
}

func (h *Hub) remove(sub *Subscriber) {
	subs, ok := h.subscribers[sub.UserID]
	if !ok {
		return
	}
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	close(sub.Send)
	if len(subs) == 0 {
		delete(h.subscribers, sub.UserID)
	}
	slog.Debug("Live subscriber unregistered", "user_id", sub.UserID)
}

// Count returns the number of live connections for userID.
func (h *Hub) Count(ctx context.Context, userID string) int {
	reply := make(chan int, 1)
	select {
	case h.counts <- countRequest{userID: userID, reply: reply}:
	case <-ctx.Done():
		return 0
	}
	select {
	case n := <-reply:
		return n
	case <-ctx.Done():
		return 0
	}
}
