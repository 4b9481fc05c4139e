package chat

import (
	"sync"

	"github.com/rs/zerolog"

	"roomrelay/internal/app/user"
	"roomrelay/internal/pkg/logx"
)

// Outbox delivers an event to a set of connections.
// Implementations must not block on slow or vanished peers.
type Outbox interface {
	Deliver(connectionIDs []string, event Event)
}

// ProfanityChecker decides whether message text may be broadcast.
type ProfanityChecker interface {
	IsProfane(text string) bool
}

// Relay owns the state shared by every connection: the user directory, the formatter, the
// profanity checker and the outbox. Construct one per server and hand each new connection
// its own Dispatcher through Connect.
type Relay struct {
	// membership serializes a join or leave with the delivery of its roster, so members
	// receive roster snapshots in the order the directory produced them. It never guards
	// the directory itself; Outbox.Deliver must not block while it is held.
	membership sync.Mutex

	users     *user.Directory
	view      RoomView
	format    *Formatter
	profanity ProfanityChecker
	outbox    Outbox
	logger    zerolog.Logger
}

// NewRelay wires a Relay. A nil formatter selects NewFormatter().
func NewRelay(users *user.Directory, outbox Outbox, profanity ProfanityChecker, format *Formatter) *Relay {
	if format == nil {
		format = NewFormatter()
	}

	return &Relay{
		users:     users,
		view:      NewRoomView(users),
		format:    format,
		profanity: profanity,
		outbox:    outbox,
		logger:    logx.Component("Relay"),
	}
}

// View exposes the read-only room queries.
func (r *Relay) View() RoomView {
	return r.view
}

// Connect returns the dispatcher for a newly accepted connection.
func (r *Relay) Connect(connectionID string) *Dispatcher {
	return &Dispatcher{
		relay:        r,
		connectionID: connectionID,
		state:        StateUnjoined,
		logger: r.logger.With().
			Str("connection_id", connectionID).
			Logger(),
	}
}

// deliver hands an event to the outbox unless there is nobody to receive it.
func (r *Relay) deliver(connectionIDs []string, eventType EventType, payload any) {
	if len(connectionIDs) == 0 {
		return
	}
	r.outbox.Deliver(connectionIDs, Event{Type: eventType, Payload: payload})
}
