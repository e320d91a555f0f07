package chat

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu    sync.Mutex
	saved []*Message
	err   error
}

func (f *fakeStore) Save(_ context.Context, msg *Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, msg)
	return nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

// loopbackPublisher short-circuits the pub/sub bus back into the hub, the way
// the Redis subscriber does for a single instance.
type loopbackPublisher struct {
	hub *Hub
}

func (p *loopbackPublisher) Publish(_ context.Context, payload []byte) error {
	var ev roomEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return err
	}
	p.hub.Deliver(ev.RoomID, ev.Data)
	return nil
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, []byte) error {
	return errors.New("bus down")
}

func newTestHub(store MessageStore) *Hub {
	h := NewHub(store, nil, zerolog.Nop())
	h.pub = &loopbackPublisher{hub: h}
	go h.Run()
	return h
}

func newTestClient(h *Hub, id string) *Client {
	c := newClient(id, h, nil)
	h.register <- c
	return c
}

func joinRoom(t *testing.T, h *Hub, c *Client, roomID string) {
	t.Helper()
	h.join <- joinRequest{client: c, roomID: roomID}

	var ack ConnectedEvent
	readEvent(t, c, &ack)
	require.Equal(t, EventConnected, ack.Event)
	require.Equal(t, roomID, ack.RoomID)
}

func readEvent(t *testing.T, c *Client, v interface{}) {
	t.Helper()
	select {
	case raw, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		require.NoError(t, json.Unmarshal(raw, v))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func expectSilence(t *testing.T, c *Client) {
	t.Helper()
	select {
	case raw := <-c.send:
		t.Fatalf("unexpected event: %s", raw)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBroadcastReachesRoomMembers(t *testing.T) {
	store := &fakeStore{}
	h := newTestHub(store)

	a := newTestClient(h, "session-a")
	b := newTestClient(h, "session-b")
	outsider := newTestClient(h, "session-c")

	joinRoom(t, h, a, "svc123_user42")
	joinRoom(t, h, b, "svc123_user42")
	joinRoom(t, h, outsider, "svc999_user7")

	h.ingress <- inbound{client: a, payload: &SendPayload{
		SenderID: "user42", SenderName: "Rahim", RoomID: "svc123_user42",
		Body: "Hello", Kind: "text", Role: "client",
	}}

	for _, c := range []*Client{a, b} {
		var got ReceiveEvent
		readEvent(t, c, &got)
		require.Equal(t, EventReceiveMessage, got.Event)
		require.Equal(t, "Hello", got.Body)
		require.Equal(t, "svc123_user42", got.RoomID)
		require.False(t, got.Timestamp.IsZero(), "timestamp must be server-assigned")
	}

	expectSilence(t, outsider)
	require.Equal(t, 1, store.count())
}

func TestSendStampsServerTimestamp(t *testing.T) {
	store := &fakeStore{}
	h := newTestHub(store)

	a := newTestClient(h, "session-a")
	joinRoom(t, h, a, "room-1")

	before := time.Now().UTC()
	h.ingress <- inbound{client: a, payload: &SendPayload{
		SenderID: "u1", RoomID: "room-1", Body: "hi", Kind: "text",
	}}

	var got ReceiveEvent
	readEvent(t, a, &got)
	require.False(t, got.Timestamp.Before(before))

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.saved, 1)
	require.Equal(t, got.Timestamp.Unix(), store.saved[0].Timestamp.Unix())
}

func TestJoinIsIdempotent(t *testing.T) {
	h := newTestHub(&fakeStore{})

	a := newTestClient(h, "session-a")
	joinRoom(t, h, a, "room-1")
	joinRoom(t, h, a, "room-1") // second join re-acks but membership stays single

	h.ingress <- inbound{client: a, payload: &SendPayload{
		SenderID: "u1", RoomID: "room-1", Body: "once", Kind: "text",
	}}

	var got ReceiveEvent
	readEvent(t, a, &got)
	require.Equal(t, "once", got.Body)

	expectSilence(t, a)
}

func TestClientCanJoinMultipleRooms(t *testing.T) {
	h := newTestHub(&fakeStore{})

	a := newTestClient(h, "session-a")
	b := newTestClient(h, "session-b")
	joinRoom(t, h, a, "room-1")
	joinRoom(t, h, a, "room-2")
	joinRoom(t, h, b, "room-2")

	h.ingress <- inbound{client: b, payload: &SendPayload{
		SenderID: "u2", RoomID: "room-2", Body: "second room", Kind: "text",
	}}

	var got ReceiveEvent
	readEvent(t, a, &got)
	require.Equal(t, "room-2", got.RoomID)
}

func TestDisconnectRemovesFromAllRooms(t *testing.T) {
	h := newTestHub(&fakeStore{})

	a := newTestClient(h, "session-a")
	b := newTestClient(h, "session-b")
	joinRoom(t, h, a, "room-1")
	joinRoom(t, h, b, "room-1")

	h.unregister <- b

	// The closed send channel is the disconnect signal.
	select {
	case _, ok := <-b.send:
		require.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("send channel was not closed on unregister")
	}

	h.ingress <- inbound{client: a, payload: &SendPayload{
		SenderID: "u1", RoomID: "room-1", Body: "still here", Kind: "text",
	}}

	var got ReceiveEvent
	readEvent(t, a, &got)
	require.Equal(t, "still here", got.Body)
}

func TestStoreFailureAcksSenderAndSkipsBroadcast(t *testing.T) {
	store := &fakeStore{err: errors.New("write failed")}
	h := newTestHub(store)

	a := newTestClient(h, "session-a")
	b := newTestClient(h, "session-b")
	joinRoom(t, h, a, "room-1")
	joinRoom(t, h, b, "room-1")

	h.ingress <- inbound{client: a, payload: &SendPayload{
		SenderID: "u1", RoomID: "room-1", Body: "doomed", Kind: "text",
	}}

	var got ErrorEvent
	readEvent(t, a, &got)
	require.Equal(t, EventError, got.Event)
	require.Equal(t, ErrCodeStore, got.Code)

	expectSilence(t, b)
}

func TestPublishFailureAcksSender(t *testing.T) {
	h := NewHub(&fakeStore{}, failingPublisher{}, zerolog.Nop())
	go h.Run()

	a := newTestClient(h, "session-a")
	joinRoom(t, h, a, "room-1")

	h.ingress <- inbound{client: a, payload: &SendPayload{
		SenderID: "u1", RoomID: "room-1", Body: "hi", Kind: "text",
	}}

	var got ErrorEvent
	readEvent(t, a, &got)
	require.Equal(t, ErrCodeStore, got.Code)
}

func TestBroadcastToEmptyRoomIsNoop(t *testing.T) {
	h := newTestHub(&fakeStore{})
	a := newTestClient(h, "session-a")
	joinRoom(t, h, a, "room-1")

	h.Deliver("room-that-never-existed", []byte(`{"event":"receiveMessage"}`))

	expectSilence(t, a)
}
