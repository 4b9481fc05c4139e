package user

import (
	"slices"
	"strings"
	"sync"

	"roomrelay/internal/pkg/errs"
)

// roomMembers indexes the users of a single normalized room.
type roomMembers struct {
	// order holds connection ids in join order.
	order []string

	// byName maps normalized usernames to connection ids.
	byName map[string]string
}

// Directory is the registry of active sessions, keyed by connection id.
// It is safe for concurrent use; every method is O(room size) or better.
type Directory struct {
	// mu serializes mutations against each other and against reads.
	mu sync.RWMutex

	users map[string]User
	rooms map[string]*roomMembers
}

// NewDirectory returns an empty Directory.
func NewDirectory() *Directory {
	return &Directory{
		users: make(map[string]User),
		rooms: make(map[string]*roomMembers),
	}
}

// Add validates and inserts a session in one step.
// It fails with ErrInvalidInput when username or room is blank, ErrDuplicateUsername when
// the normalized username is taken in the normalized room, and ErrAlreadyJoined when the
// connection already has a session.
func (d *Directory) Add(connectionID, username, room string) (User, *errs.CustomError) {
	u, _, err := d.Join(connectionID, username, room)
	return u, err
}

// Join behaves like Add and also returns the room's members, joiner included, as observed
// right after the insert.
func (d *Directory) Join(connectionID, username, room string) (User, []User, *errs.CustomError) {
	username = strings.TrimSpace(username)
	room = strings.TrimSpace(room)

	if username == "" || room == "" {
		return User{}, nil, errs.NewError(errs.ErrInvalidInput)
	}
	if connectionID == "" {
		return User{}, nil, errs.NewError(errs.ErrInvalidParams)
	}

	roomKey := Normalize(room)
	nameKey := Normalize(username)

	d.mu.Lock()
	defer d.mu.Unlock()

	members := d.rooms[roomKey]
	if members != nil {
		if _, taken := members.byName[nameKey]; taken {
			return User{}, nil, errs.NewError(errs.ErrDuplicateUsername)
		}
	}

	if _, exists := d.users[connectionID]; exists {
		return User{}, nil, errs.NewError(errs.ErrAlreadyJoined)
	}

	if members == nil {
		members = &roomMembers{
			byName: make(map[string]string),
		}
		d.rooms[roomKey] = members
	}

	u := User{
		ConnectionID: connectionID,
		Username:     username,
		Room:         room,
	}

	d.users[connectionID] = u
	members.byName[nameKey] = connectionID
	members.order = append(members.order, connectionID)

	return u, d.snapshotLocked(members), nil
}

// Remove deletes the session of connectionID and returns it.
// It is idempotent: removing an unknown id reports false and changes nothing.
func (d *Directory) Remove(connectionID string) (User, bool) {
	u, _, ok := d.Leave(connectionID)
	return u, ok
}

// Leave behaves like Remove and also returns the remaining members of the departed
// user's room, observed in the same critical section as the removal.
func (d *Directory) Leave(connectionID string) (User, []User, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	u, ok := d.users[connectionID]
	if !ok {
		return User{}, nil, false
	}

	delete(d.users, connectionID)

	roomKey := Normalize(u.Room)
	members := d.rooms[roomKey]
	if members == nil {
		return u, nil, true
	}

	delete(members.byName, Normalize(u.Username))
	if i := slices.Index(members.order, connectionID); i >= 0 {
		members.order = slices.Delete(members.order, i, i+1)
	}

	if len(members.order) == 0 {
		delete(d.rooms, roomKey)
		return u, []User{}, true
	}

	return u, d.snapshotLocked(members), true
}

// Get looks up the session of connectionID.
func (d *Directory) Get(connectionID string) (User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users[connectionID]
	return u, ok
}

// InRoom returns the members of room in join order.
// The slice is a fresh copy on every call.
func (d *Directory) InRoom(room string) []User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	members := d.rooms[Normalize(room)]
	if members == nil {
		return []User{}
	}
	return d.snapshotLocked(members)
}

// Len returns the number of active sessions.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.users)
}

// Rooms returns the names of all non-empty rooms, sorted. A room is labeled with the
// display name used by its earliest current member.
func (d *Directory) Rooms() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.rooms))
	for _, members := range d.rooms {
		names = append(names, d.users[members.order[0]].Room)
	}
	slices.Sort(names)
	return names
}

// snapshotLocked copies the members of a room. Callers must hold mu.
func (d *Directory) snapshotLocked(members *roomMembers) []User {
	out := make([]User, 0, len(members.order))
	for _, id := range members.order {
		out = append(out, d.users[id])
	}
	return out
}
