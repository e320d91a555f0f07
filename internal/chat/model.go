package chat

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is the messages collection document. Field names match the wire
// format the frontend already speaks.
type Message struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	SenderID     string             `bson:"senderId" json:"senderId"`
	SenderName   string             `bson:"senderName" json:"senderName"`
	ServiceID    string             `bson:"serviceId,omitempty" json:"serviceId,omitempty"`
	Body         string             `bson:"message" json:"message"`
	FileURL      string             `bson:"fileUrl,omitempty" json:"fileUrl,omitempty"`
	Kind         string             `bson:"type" json:"type"` // "text" or "file"
	RoomID       string             `bson:"roomId" json:"roomId"`
	Timestamp    time.Time          `bson:"timestamp" json:"timestamp"`
	Role         string             `bson:"role,omitempty" json:"role,omitempty"`
	ProfileImage string             `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
}

// Websocket event names. joinUser/send_message/receiveMessage/connected are
// the frontend's existing vocabulary; error is the explicit failure
// acknowledgment for rejected or unpersisted sends.
const (
	EventJoinUser       = "joinUser"
	EventSendMessage    = "send_message"
	EventConnected      = "connected"
	EventReceiveMessage = "receiveMessage"
	EventError          = "error"
)

const (
	ErrCodeBadPayload = "BAD_PAYLOAD"
	ErrCodeStore      = "STORE_FAILURE"
)

var errMissingFields = errors.New("roomId and message are required")

// envelope carries just the discriminator so dispatch can pick a concrete
// payload type.
type envelope struct {
	Event string `json:"event"`
}

type JoinPayload struct {
	Event  string `json:"event"`
	RoomID string `json:"roomId"`
}

// SendPayload is what a session sends for send_message. Timestamps are never
// taken from here; the relay stamps its own.
type SendPayload struct {
	Event        string `json:"event"`
	SenderID     string `json:"senderId"`
	SenderName   string `json:"senderName"`
	ServiceID    string `json:"serviceId"`
	Body         string `json:"message"`
	RoomID       string `json:"roomId"`
	Kind         string `json:"type"`
	FileURL      string `json:"fileUrl"`
	Role         string `json:"role"`
	ProfileImage string `json:"profileImage"`
}

func (p *SendPayload) Validate() error {
	if p.RoomID == "" || p.Body == "" {
		return errMissingFields
	}
	return nil
}

func (p *SendPayload) toMessage(now time.Time) *Message {
	return &Message{
		SenderID:     p.SenderID,
		SenderName:   p.SenderName,
		ServiceID:    p.ServiceID,
		Body:         p.Body,
		FileURL:      p.FileURL,
		Kind:         p.Kind,
		RoomID:       p.RoomID,
		Timestamp:    now,
		Role:         p.Role,
		ProfileImage: p.ProfileImage,
	}
}

type ConnectedEvent struct {
	Event  string `json:"event"`
	RoomID string `json:"roomId"`
}

// ReceiveEvent is the fan-out shape: the persisted message plus the event
// discriminator, flattened.
type ReceiveEvent struct {
	Event string `json:"event"`
	*Message
}

type ErrorEvent struct {
	Event  string `json:"event"`
	Code   string `json:"code"`
	Reason string `json:"message"`
}

func newErrorEvent(code, reason string) *ErrorEvent {
	return &ErrorEvent{Event: EventError, Code: code, Reason: reason}
}
