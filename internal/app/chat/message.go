/*
Package chat contains the relay core: per-connection dispatch of join, message, location and
disconnect events, the derived room queries used to pick recipients, and the websocket
plumbing that delivers the resulting frames.

This file defines the wire events and the Formatter that builds outgoing payloads.
*/
package chat

import (
	"encoding/json"
	"strconv"
	"time"

	"roomrelay/internal/pkg/randx"
)

// EventType names a frame on the websocket, in either direction.
type EventType string

const (
	// Inbound requests. Each one is answered by exactly one EventAck.
	EventJoin         EventType = "join"
	EventSendMessage  EventType = "sendMessage"
	EventSendLocation EventType = "sendLocation"

	// Outbound notifications.
	EventMessage         EventType = "message"
	EventLocationMessage EventType = "locationMessage"
	EventRoomData        EventType = "roomdata"
	EventAck             EventType = "ack"
)

const (
	// SystemSender is the sender label of relay-generated notices.
	SystemSender = "admin"

	// MapURLPrefix is the map link template; the query is "<latitude>,<longitude>".
	MapURLPrefix = "https://www.google.com/maps?q="
)

// Event is an outbound frame.
type Event struct {
	Type    EventType `json:"event"`
	Payload any       `json:"payload"`
}

// Ack answers one inbound request. Error and Code are empty on success.
type Ack struct {
	Type  EventType `json:"event"`
	AckID string    `json:"ackId,omitempty"`
	Error string    `json:"error,omitempty"`
	Code  int       `json:"code,omitempty"`
}

// InboundFrame is the envelope of every client request.
type InboundFrame struct {
	Type    EventType       `json:"event"`
	AckID   string          `json:"ackId,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// JoinPayload is the body of a join request.
type JoinPayload struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

// SendMessagePayload is the body of a sendMessage request.
type SendMessagePayload struct {
	Text string `json:"text"`
}

// SendLocationPayload is the body of a sendLocation request.
type SendLocationPayload struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

// TextMessage is the payload of a message event.
type TextMessage struct {
	ID     string `json:"id"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
	// SentAt is the formatting time in Unix milliseconds.
	SentAt int64 `json:"sentAt"`
}

// LocationMessage is the payload of a locationMessage event.
type LocationMessage struct {
	ID     string `json:"id"`
	Sender string `json:"sender"`
	URL    string `json:"url"`
	SentAt int64  `json:"sentAt"`
}

// RoomData is the payload of a roomdata event: a room and its roster in join order.
type RoomData struct {
	Room  string   `json:"room"`
	Users []string `json:"users"`
}

// Formatter builds outgoing payloads. It holds no state besides its clock and id source.
type Formatter struct {
	now   func() time.Time
	newID func() string
}

// NewFormatter returns a Formatter stamping payloads with the wall clock and UUID message ids.
func NewFormatter() *Formatter {
	return NewFormatterWith(time.Now, randx.MessageID)
}

// NewFormatterWith returns a Formatter using the given clock and id source.
func NewFormatterWith(now func() time.Time, newID func() string) *Formatter {
	return &Formatter{now: now, newID: newID}
}

// Text builds a chat message payload.
func (f *Formatter) Text(sender, text string) TextMessage {
	return TextMessage{
		ID:     f.newID(),
		Sender: sender,
		Text:   text,
		SentAt: f.now().UnixMilli(),
	}
}

// Location builds a location message payload. The url is not inspected.
func (f *Formatter) Location(sender, url string) LocationMessage {
	return LocationMessage{
		ID:     f.newID(),
		Sender: sender,
		URL:    url,
		SentAt: f.now().UnixMilli(),
	}
}

// MapURL renders the map link for a coordinate pair using the shortest exact decimal form.
func MapURL(latitude, longitude float64) string {
	return MapURLPrefix +
		strconv.FormatFloat(latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(longitude, 'f', -1, 64)
}
