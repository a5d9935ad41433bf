package ws

import (
	"context"
	"testing"
	"time"

	"github.com/medehssane/tewsilty/internal/shared/logger"

	"github.com/stretchr/testify/require"
)

func testHub() *Hub {
	auth := func(token string) (string, string, error) { return "u-" + token, "driver", nil }
	return NewHub(auth, logger.NewLogger("test"))
}

func testClient(h *Hub, id, userID string, buffer int) *Client {
	c := &Client{
		ID:     id,
		UserID: userID,
		Role:   "driver",
		send:   make(chan []byte, buffer),
		hub:    h,
		log:    h.log,
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	return c
}

func TestHubRegisterUnregister(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	client := testClient(h, "c1", "u1", 4)
	h.register <- client
	require.Eventually(t, func() bool { return h.IsUserConnected("u1") },
		time.Second, 5*time.Millisecond)

	h.unregister <- client
	require.Eventually(t, func() bool { return !h.IsUserConnected("u1") },
		time.Second, 5*time.Millisecond)

	// teardown cancels the connection context so in-flight work stops
	require.ErrorIs(t, client.Context().Err(), context.Canceled)
}

func TestBroadcastDropsStalledClient(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	stalled := testClient(h, "c1", "u1", 1)
	stalled.send <- []byte("backlog") // buffer now full
	healthy := testClient(h, "c2", "u2", 4)

	h.register <- stalled
	h.register <- healthy
	require.Eventually(t, func() bool { return h.IsUserConnected("u2") },
		time.Second, 5*time.Millisecond)

	h.Broadcast([]byte(`{"type":"ORDER_CREATED"}`))

	require.Eventually(t, func() bool { return !h.IsUserConnected("u1") },
		time.Second, 5*time.Millisecond)
	require.True(t, h.IsUserConnected("u2"))
	require.ErrorIs(t, stalled.Context().Err(), context.Canceled)
}

func TestSendToRole(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	driver := testClient(h, "c1", "u1", 4)
	customer := testClient(h, "c2", "u2", 4)
	customer.Role = "customer"

	h.register <- driver
	h.register <- customer
	require.Eventually(t, func() bool { return h.IsUserConnected("u2") },
		time.Second, 5*time.Millisecond)

	h.SendToRole("driver", []byte("hello"))

	select {
	case msg := <-driver.send:
		require.Equal(t, "hello", string(msg))
	case <-time.After(time.Second):
		t.Fatal("driver did not receive role message")
	}
	require.Empty(t, customer.send)
}
