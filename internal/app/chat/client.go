/*
Package chat contains the relay core: per-connection dispatch of join, message, location and
disconnect events, the derived room queries used to pick recipients, and the websocket
plumbing that delivers the resulting frames.

This file defines the Client struct, representing an active WebSocket connection. It runs the
read and write pumps, decodes inbound requests, answers each with an ack, and guarantees the
connection's Dispatcher sees Disconnect when the socket goes away.
*/
package chat

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"roomrelay/internal/pkg/errs"
	"roomrelay/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 8192

	// sendBufferSize is the per-client outbound queue length.
	sendBufferSize = 256
)

var payloadValidator = validator.New(validator.WithRequiredStructEnabled())

// Client struct represents an active WebSocket connection.
type Client struct {
	// id is the connection id, shared with the Dispatcher and the directory.
	id string

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// manager owns the send queue's lifecycle.
	manager *Manager

	// dispatcher applies this connection's requests to the relay.
	dispatcher *Dispatcher

	// a buffered channel used to queue frames waiting to be written.
	send chan []byte

	// sendClosed records that send was closed. Guarded by manager.mu.
	sendClosed bool

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded connection and binds it to a fresh Dispatcher.
func NewClient(manager *Manager, relay *Relay, wsConn *websocket.Conn, connectionID string) *Client {
	return &Client{
		id:         connectionID,
		conn:       wsConn,
		manager:    manager,
		dispatcher: relay.Connect(connectionID),
		send:       make(chan []byte, sendBufferSize),
		logger: logx.Logger().With().
			Str("component", "Client").
			Str("connection_id", connectionID).
			Logger(),
	}
}

// closeSendLocked closes the send queue once. Callers must hold manager.mu for writing.
func (c *Client) closeSendLocked() {
	if c.sendClosed {
		return
	}
	c.sendClosed = true
	close(c.send)
}

// ReadPump reads frames until the connection fails, then runs the disconnect cleanup.
// It blocks and is meant to run on the goroutine that accepted the connection.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading frame (client close/going away)")
			}
			break
		}

		c.processInboundFrame(frame)
	}
}

// cleanupOnDisconnect ends the session, removes the client from the manager and closes
// the socket. It runs even when the read loop ended because of an error.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Debug().Msg("Client connection cleanup starting.")

	c.dispatcher.Disconnect()
	c.manager.Unregister(c)

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// processInboundFrame decodes one request and answers it with exactly one ack.
func (c *Client) processInboundFrame(frame []byte) {
	var inbound InboundFrame
	if err := json.Unmarshal(frame, &inbound); err != nil {
		c.logger.Warn().Err(err).Int("frame_len", len(frame)).Msg("Client sent invalid JSON")
		c.sendAck("", errs.NewError(errs.ErrInvalidJSONFormat))
		return
	}

	var result *errs.CustomError

	switch inbound.Type {
	case EventJoin:
		result = c.handleJoin(inbound.Payload)

	case EventSendMessage:
		result = c.handleSendMessage(inbound.Payload)

	case EventSendLocation:
		result = c.handleSendLocation(inbound.Payload)

	default:
		c.logger.Warn().Str("event", string(inbound.Type)).Msg("Client sent unsupported event")
		result = errs.NewError(errs.ErrUnsupportedEvent, inbound.Type)
	}

	c.sendAck(inbound.AckID, result)
}

func (c *Client) handleJoin(raw json.RawMessage) *errs.CustomError {
	var payload JoinPayload
	if err := decodePayload(raw, &payload); err != nil {
		return err
	}
	return c.dispatcher.Join(payload.Username, payload.Room)
}

func (c *Client) handleSendMessage(raw json.RawMessage) *errs.CustomError {
	var payload SendMessagePayload
	if err := decodePayload(raw, &payload); err != nil {
		return err
	}
	return c.dispatcher.SendMessage(payload.Text)
}

func (c *Client) handleSendLocation(raw json.RawMessage) *errs.CustomError {
	var payload SendLocationPayload
	if err := decodePayload(raw, &payload); err != nil {
		return err
	}
	if err := payloadValidator.Struct(payload); err != nil {
		c.logger.Debug().Err(err).Msg("Client sent invalid coordinates")
		return errs.NewError(errs.ErrInvalidParams)
	}
	return c.dispatcher.SendLocation(*payload.Latitude, *payload.Longitude)
}

// decodePayload unmarshals a request body. A missing body decodes as the zero value.
func decodePayload(raw json.RawMessage, dst any) *errs.CustomError {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errs.NewError(errs.ErrInvalidParams)
	}
	return nil
}

// sendAck queues the outcome of a request for this client only.
func (c *Client) sendAck(ackID string, result *errs.CustomError) {
	ack := Ack{Type: EventAck, AckID: ackID}
	if result != nil {
		ack.Error = result.Message
		ack.Code = result.Code
	}

	data, err := json.Marshal(ack)
	if err != nil {
		c.logger.Error().Err(err).Msg("Error marshaling ack")
		return
	}

	if !c.manager.enqueue(c, data) {
		c.logger.Warn().Str("ack_id", ackID).Msg("Ack dropped, client queue full or closed")
	}
}

// WritePump writes queued frames to the WebSocket connection and keeps it alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		// ensure the connection is closed on exit
		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !c.writeQueuedFrame(frame, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedFrame writes one frame pulled from the send channel.
// Returns true if the WritePump loop should continue, false if it should terminate.
func (c *Client) writeQueuedFrame(frame []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Error().Err(err).Msg("Error writing frame")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping message to maintain the connection heartbeat.
// Returns false if the WritePump loop should terminate due to write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
