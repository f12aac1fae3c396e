package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub()
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h, cancel
}

func receive(t *testing.T, sub *Subscriber) []byte {
	t.Helper()
	select {
	case msg, ok := <-sub.Send:
		require.True(t, ok, "send channel closed")
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestHub_DirectReachesOnlyThatUser(t *testing.T) {
	h, _ := startHub(t)

	a1 := NewSubscriber("alice")
	a2 := NewSubscriber("alice")
	b := NewSubscriber("bob")
	h.Register <- a1
	h.Register <- a2
	h.Register <- b

	assert.Equal(t, 2, h.Count(context.Background(), "alice"))

	h.Direct <- &DirectMessage{UserID: "alice", Payload: []byte("hi")}
	assert.Equal(t, "hi", string(receive(t, a1)))
	assert.Equal(t, "hi", string(receive(t, a2)))

	select {
	case msg := <-b.Send:
		t.Fatalf("bob received %q", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	h, _ := startHub(t)

	sub := NewSubscriber("alice")
	h.Register <- sub
	h.Unregister <- sub

	_, ok := <-sub.Send
	assert.False(t, ok)
	assert.Zero(t, h.Count(context.Background(), "alice"))

	// A second unregister is harmless.
	h.Unregister <- sub
}

func TestHub_DropsSlowSubscriber(t *testing.T) {
	h, _ := startHub(t)

	sub := NewSubscriber("alice")
	h.Register <- sub
	for range sendBuffer + 1 {
		h.Direct <- &DirectMessage{UserID: "alice", Payload: []byte("x")}
	}

	require.Eventually(t, func() bool {
		return h.Count(context.Background(), "alice") == 0
	}, time.Second, 10*time.Millisecond)
}

func TestHub_RunStopsOnCancel(t *testing.T) {
	h, cancel := startHub(t)

	sub := NewSubscriber("alice")
	h.Register <- sub
	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-sub.Send:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}
