/*
Package errs provides custom error types and application-level error code constants.

The codes identify relay failures both inside the server and on the wire, where they are
returned to the client in the ack frame of the request that caused them.
*/
package errs

// 1xxx: Request and frame handling errors
const (
	// ErrInvalidParams indicates that an inbound payload failed validation.
	ErrInvalidParams = 1001

	// ErrInvalidJSONFormat indicates that an inbound frame was not valid JSON.
	ErrInvalidJSONFormat = 1003

	// ErrUnsupportedEvent indicates that the client sent an event name the relay does not handle.
	ErrUnsupportedEvent = 1008
)

// 2xxx: Room and content errors
const (
	// ErrInvalidInput indicates that the username or room was empty after trimming.
	ErrInvalidInput = 2101

	// ErrDuplicateUsername indicates that the username is already taken in the target room.
	ErrDuplicateUsername = 2102

	// ErrRoomNotFound indicates that the requested room has no members.
	ErrRoomNotFound = 2103

	// ErrProfane indicates that the message text matched the profanity list.
	ErrProfane = 2201
)

// 3xxx: Session errors
const (
	// ErrUserNotFound indicates that the connection has no active session.
	ErrUserNotFound = 3001

	// ErrAlreadyJoined indicates that the connection already joined a room.
	ErrAlreadyJoined = 3002

	// ErrSessionClosed indicates a request on a connection that has already disconnected.
	ErrSessionClosed = 3003
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
