/*
Package errs provides custom error types and application-level error code constants.

This file maps each error code to its CustomError template. The message doubles as the
reason string sent back in websocket acks.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
var errorMap = map[int]CustomError{
	// 1xxx
	ErrInvalidParams:     {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrInvalidJSONFormat: {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrUnsupportedEvent:  {Code: ErrUnsupportedEvent, Message: "Unsupported event: %s."},

	// 2xxx
	ErrInvalidInput:      {Code: ErrInvalidInput, Message: "Username and room are required!"},
	ErrDuplicateUsername: {Code: ErrDuplicateUsername, Message: "Username is in use!"},
	ErrRoomNotFound:      {Code: ErrRoomNotFound, Message: "Room not found.", Status: http.StatusNotFound},
	ErrProfane:           {Code: ErrProfane, Message: "Profanity is not allowed"},

	// 3xxx
	ErrUserNotFound:  {Code: ErrUserNotFound, Message: "User not found"},
	ErrAlreadyJoined: {Code: ErrAlreadyJoined, Message: "Already joined a room."},
	ErrSessionClosed: {Code: ErrSessionClosed, Message: "Connection is closed."},

	// 5xxx
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
