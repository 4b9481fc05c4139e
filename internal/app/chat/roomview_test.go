package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomrelay/internal/app/user"
)

func TestRoomView(t *testing.T) {
	users := user.NewDirectory()
	view := NewRoomView(users)

	assert.False(t, view.HasMembers("lobby"))
	assert.Empty(t, view.Usernames("lobby"))
	assert.Equal(t, RoomData{Room: "lobby", Users: []string{}}, view.Roster("lobby"))

	_, err := users.Add("c1", "alice", "Lobby")
	require.Nil(t, err)
	_, err = users.Add("c2", "bob", "lobby")
	require.Nil(t, err)

	assert.True(t, view.HasMembers("LOBBY"))
	assert.Equal(t, []string{"alice", "bob"}, view.Usernames("lobby"))
	assert.Equal(t, RoomData{Room: "Lobby", Users: []string{"alice", "bob"}}, view.Roster(" lobby "))
	assert.Equal(t, []string{"c2"}, view.ConnectionIDs("lobby", "c1"))
	assert.Equal(t, []string{"c1", "c2"}, view.ConnectionIDs("lobby", ""))
}
