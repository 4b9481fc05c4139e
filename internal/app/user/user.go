/*
Package user contains the session record of a joined connection and the Directory that
owns every record.

A User exists only between a successful join and the disconnect of its connection.
Usernames are unique per room under Normalize; display strings keep their original casing.
*/
package user

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// User is the session of one live connection in one room.
type User struct {
	// ConnectionID is the transport-assigned identifier of the connection.
	ConnectionID string `json:"-"`

	// Username is the trimmed display name.
	Username string `json:"username"`

	// Room is the trimmed display name of the joined room.
	Room string `json:"room"`
}

// Normalize returns the comparison key for a username or room name:
// trimmed, NFC-composed and Unicode case-folded.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return cases.Fold().String(norm.NFC.String(s))
}
