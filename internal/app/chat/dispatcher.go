package chat

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"roomrelay/internal/pkg/errs"
)

// State is the lifecycle position of one connection.
type State int

const (
	StateUnjoined State = iota
	StateJoined
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnjoined:
		return "unjoined"
	case StateJoined:
		return "joined"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Dispatcher handles the events of a single connection: Unjoined -> Joined -> Closed.
// Requests return nil on success or the reason they were refused; Disconnect returns nothing.
// Events of one connection are serialized; different connections run concurrently.
type Dispatcher struct {
	relay        *Relay
	connectionID string

	mu    sync.Mutex
	state State

	logger zerolog.Logger
}

// State returns the current lifecycle state.
func (d *Dispatcher) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.state
}

// Join registers the connection as username in room.
// On success the joiner is welcomed privately, the rest of the room is told about the
// newcomer and everyone, joiner included, receives the new roster.
func (d *Dispatcher) Join(username, room string) *errs.CustomError {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case StateClosed:
		return errs.NewError(errs.ErrSessionClosed)
	case StateJoined:
		return errs.NewError(errs.ErrAlreadyJoined)
	}

	r := d.relay
	r.membership.Lock()
	defer r.membership.Unlock()

	u, members, err := r.users.Join(d.connectionID, username, room)
	if err != nil {
		d.logger.Debug().Int("code", err.Code).Str("room", room).Msg("Join refused.")
		return err
	}

	d.state = StateJoined
	d.logger.Info().
		Str("username", u.Username).
		Str("room", u.Room).
		Int("members", len(members)).
		Msg("Connection joined room.")

	r.deliver([]string{d.connectionID}, EventMessage, r.format.Text(SystemSender, "Welcome"))
	r.deliver(connectionIDsOf(members, d.connectionID), EventMessage,
		r.format.Text(SystemSender, fmt.Sprintf("%s has joined!", u.Username)))
	r.deliver(connectionIDsOf(members, ""), EventRoomData, rosterOf(members[0].Room, members))

	return nil
}

// SendMessage broadcasts text to every member of the sender's room, sender included.
func (d *Dispatcher) SendMessage(text string) *errs.CustomError {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateClosed {
		return errs.NewError(errs.ErrSessionClosed)
	}

	r := d.relay
	if r.profanity != nil && r.profanity.IsProfane(text) {
		d.logger.Info().Msg("Message rejected by profanity filter.")
		return errs.NewError(errs.ErrProfane)
	}

	u, ok := r.users.Get(d.connectionID)
	if !ok {
		return errs.NewError(errs.ErrUserNotFound)
	}

	members := r.users.InRoom(u.Room)
	r.deliver(connectionIDsOf(members, ""), EventMessage, r.format.Text(u.Username, text))

	return nil
}

// SendLocation broadcasts a map link for the coordinates to every member of the sender's
// room, sender included.
func (d *Dispatcher) SendLocation(latitude, longitude float64) *errs.CustomError {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateClosed {
		return errs.NewError(errs.ErrSessionClosed)
	}

	r := d.relay
	u, ok := r.users.Get(d.connectionID)
	if !ok {
		return errs.NewError(errs.ErrUserNotFound)
	}

	members := r.users.InRoom(u.Room)
	r.deliver(connectionIDsOf(members, ""), EventLocationMessage,
		r.format.Location(u.Username, MapURL(latitude, longitude)))

	return nil
}

// Disconnect ends the connection's session. If the connection had joined, the remaining
// members of its room are told and sent the updated roster. Disconnecting a connection
// that never joined, or disconnecting twice, does nothing.
func (d *Dispatcher) Disconnect() {
	d.mu.Lock()
	defer d.mu.Unlock()

	previous := d.state
	d.state = StateClosed

	r := d.relay
	r.membership.Lock()
	defer r.membership.Unlock()

	u, remaining, ok := r.users.Leave(d.connectionID)
	if !ok {
		switch previous {
		case StateClosed:
			d.logger.Debug().Msg("Disconnect ignored: connection already closed.")
		case StateUnjoined:
			d.logger.Debug().Msg("Disconnect ignored: connection never joined.")
		default:
			d.logger.Debug().Msg("Disconnect ignored: session already removed.")
		}
		return
	}

	d.logger.Info().
		Str("username", u.Username).
		Str("room", u.Room).
		Int("remaining", len(remaining)).
		Msg("Connection left room.")

	if len(remaining) == 0 {
		return
	}

	recipients := connectionIDsOf(remaining, "")
	r.deliver(recipients, EventMessage, r.format.Text(SystemSender, fmt.Sprintf("%s has left.", u.Username)))
	r.deliver(recipients, EventRoomData, rosterOf(remaining[0].Room, remaining))
}
