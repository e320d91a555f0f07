package chat

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPayloadValidate(t *testing.T) {
	tests := []struct {
		name    string
		payload SendPayload
		wantErr bool
	}{
		{"complete", SendPayload{RoomID: "r1", Body: "hi", SenderID: "u1"}, false},
		{"minimal", SendPayload{RoomID: "r1", Body: "hi"}, false},
		{"missing room", SendPayload{Body: "hi"}, true},
		{"missing body", SendPayload{RoomID: "r1"}, true},
		{"empty", SendPayload{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReceiveEventFlattensMessage(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ev := &ReceiveEvent{
		Event: EventReceiveMessage,
		Message: &Message{
			SenderID:  "u1",
			Body:      "Hello",
			RoomID:    "svc123_user42",
			Kind:      "text",
			Timestamp: now,
		},
	}

	data, err := json.Marshal(ev)
	require.NoError(t, err)

	var flat map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &flat))

	assert.Equal(t, "receiveMessage", flat["event"])
	assert.Equal(t, "Hello", flat["message"])
	assert.Equal(t, "svc123_user42", flat["roomId"])
	assert.Equal(t, "text", flat["type"])
	assert.Contains(t, flat, "timestamp")
}

func TestToMessageIgnoresClientTimestamp(t *testing.T) {
	p := &SendPayload{RoomID: "r1", Body: "hi", SenderID: "u1"}
	now := time.Now().UTC()

	msg := p.toMessage(now)
	require.Equal(t, now, msg.Timestamp)
	require.Equal(t, "r1", msg.RoomID)
	require.Equal(t, "hi", msg.Body)
}
