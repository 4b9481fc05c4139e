/*
Package chat contains the relay core: per-connection dispatch of join, message, location and
disconnect events, the derived room queries used to pick recipients, and the websocket
plumbing that delivers the resulting frames.

This file defines the Manager, the table of live websocket clients keyed by connection id.
It is the relay's Outbox: frames are marshaled once and queued on each recipient without
blocking, so a slow peer never stalls the directory or other connections.
*/
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"roomrelay/internal/pkg/logx"
)

// ErrManagerClosed is returned by Register once Shutdown has begun.
var ErrManagerClosed = errors.New("chat manager is shutting down")

// Manager tracks every live client.
type Manager struct {
	// clients maps connection ids to live clients.
	clients map[string]*Client

	// mu guards clients, the closed flag and every client's send channel state.
	// Sends happen under the read lock, closes under the write lock.
	mu sync.RWMutex

	// closed is set once Shutdown starts.
	closed bool

	// wg counts registered clients that have not been unregistered yet.
	wg sync.WaitGroup

	// dropLog throttles the warning for frames dropped on full queues.
	dropLog rate.Sometimes

	// structured logger with Manager context.
	logger zerolog.Logger
}

// NewManager constructs and returns a new Manager instance.
func NewManager() *Manager {
	return &Manager{
		clients: make(map[string]*Client),
		dropLog: rate.Sometimes{First: 5, Interval: 10 * time.Second},
		logger:  logx.Component("Manager"),
	}
}

// Register adds a client to the table.
func (m *Manager) Register(c *Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrManagerClosed
	}

	if existing, ok := m.clients[c.id]; ok && existing != c {
		m.logger.Warn().Str("connection_id", c.id).Msg("Connection id reused. Closing previous client.")
		m.removeLocked(existing)
	}

	m.clients[c.id] = c
	m.wg.Add(1)

	m.logger.Debug().
		Str("connection_id", c.id).
		Int("total_clients", len(m.clients)).
		Msg("Client registered.")

	return nil
}

// Unregister removes a client and closes its send queue. Stale or repeated calls are ignored.
func (m *Manager) Unregister(c *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if current, ok := m.clients[c.id]; !ok || current != c {
		return
	}

	m.removeLocked(c)

	m.logger.Debug().
		Str("connection_id", c.id).
		Int("total_clients", len(m.clients)).
		Msg("Client unregistered.")
}

// removeLocked deletes c and closes its queue. Callers must hold the write lock.
func (m *Manager) removeLocked(c *Client) {
	delete(m.clients, c.id)
	c.closeSendLocked()
	m.wg.Done()
}

// Deliver marshals event once and queues it for every listed connection that is still live.
func (m *Manager) Deliver(connectionIDs []string, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		m.logger.Error().Err(err).Str("event", string(event.Type)).Msg("Error marshaling event for delivery.")
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, id := range connectionIDs {
		c, ok := m.clients[id]
		if !ok {
			continue
		}
		m.enqueueLocked(c, data)
	}
}

// enqueue queues a frame for a single client.
func (m *Manager) enqueue(c *Client, data []byte) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.enqueueLocked(c, data)
}

// enqueueLocked performs a non-blocking send. Callers must hold at least the read lock.
func (m *Manager) enqueueLocked(c *Client, data []byte) bool {
	if c.sendClosed {
		return false
	}

	select {
	case c.send <- data:
		return true
	default:
		m.dropLog.Do(func() {
			m.logger.Warn().
				Str("connection_id", c.id).
				Int("queue_len", len(c.send)).
				Msg("Client send queue full, dropping frame.")
		})
		return false
	}
}

// Count returns the number of live clients.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.clients)
}

// Shutdown closes every client's send queue, which makes its write pump send a close frame
// and drop the connection. It then waits until all clients have unregistered or ctx ends.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.logger.Info().Msg("Shutting down Manager...")

	m.mu.Lock()
	m.closed = true
	for _, c := range m.clients {
		c.closeSendLocked()
	}
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info().Msg("Manager shutdown complete.")
		return nil
	case <-ctx.Done():
		m.logger.Warn().Int("remaining_clients", m.Count()).Msg("Manager shutdown timed out.")
		return ctx.Err()
	}
}
