package chat

import (
	"roomrelay/internal/app/user"
)

// RoomView answers room-level questions from the user directory. It keeps no state.
type RoomView struct {
	users *user.Directory
}

// NewRoomView returns a RoomView over the given directory.
func NewRoomView(users *user.Directory) RoomView {
	return RoomView{users: users}
}

// HasMembers reports whether anyone is currently in room.
func (v RoomView) HasMembers(room string) bool {
	return len(v.users.InRoom(room)) > 0
}

// Usernames lists the members of room in join order.
func (v RoomView) Usernames(room string) []string {
	return usernamesOf(v.users.InRoom(room))
}

// Roster builds the roomdata payload for room. The room label is the display name of the
// earliest member, falling back to room itself.
func (v RoomView) Roster(room string) RoomData {
	members := v.users.InRoom(room)
	if len(members) > 0 {
		room = members[0].Room
	}
	return rosterOf(room, members)
}

// ConnectionIDs lists the connections in room, skipping exclude.
func (v RoomView) ConnectionIDs(room string, exclude string) []string {
	return connectionIDsOf(v.users.InRoom(room), exclude)
}

func usernamesOf(members []user.User) []string {
	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, m.Username)
	}
	return names
}

func rosterOf(room string, members []user.User) RoomData {
	return RoomData{Room: room, Users: usernamesOf(members)}
}

func connectionIDsOf(members []user.User, exclude string) []string {
	ids := make([]string, 0, len(members))
	for _, m := range members {
		if m.ConnectionID == exclude {
			continue
		}
		ids = append(ids, m.ConnectionID)
	}
	return ids
}
