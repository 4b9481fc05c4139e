package chat

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, time.March, 1, 12, 30, 0, 250_000_000, time.UTC)

func fixedFormatter() *Formatter {
	return NewFormatterWith(
		func() time.Time { return fixedTime },
		func() string { return "msg-1" },
	)
}

func TestFormatterTextStampsEpochMillis(t *testing.T) {
	msg := fixedFormatter().Text("alice", "hello")

	assert.Equal(t, TextMessage{
		ID:     "msg-1",
		Sender: "alice",
		Text:   "hello",
		SentAt: 1709296200250,
	}, msg)
}

func TestFormatterLocationKeepsURLVerbatim(t *testing.T) {
	msg := fixedFormatter().Location("bob", "not even a url")

	assert.Equal(t, "bob", msg.Sender)
	assert.Equal(t, "not even a url", msg.URL)
	assert.Equal(t, fixedTime.UnixMilli(), msg.SentAt)
}

func TestNewFormatterUsesUUIDs(t *testing.T) {
	f := NewFormatter()
	first := f.Text(SystemSender, "Welcome!")
	second := f.Text(SystemSender, "Welcome!")

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, first.ID, 36)
}

func TestMapURL(t *testing.T) {
	tests := []struct {
		lat, lon float64
		want     string
	}{
		{51.5, -0.1, "https://www.google.com/maps?q=51.5,-0.1"},
		{0, 0, "https://www.google.com/maps?q=0,0"},
		{-33.8688197, 151.2092955, "https://www.google.com/maps?q=-33.8688197,151.2092955"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapURL(tt.lat, tt.lon))
	}
}

func TestTextMessageSurvivesWireEncoding(t *testing.T) {
	sent := Event{Type: EventMessage, Payload: fixedFormatter().Text("alice", "hi there")}

	raw, err := json.Marshal(sent)
	require.NoError(t, err)

	var frame struct {
		Type    EventType   `json:"event"`
		Payload TextMessage `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(raw, &frame))

	assert.Equal(t, EventMessage, frame.Type)
	assert.Equal(t, "alice", frame.Payload.Sender)
	assert.Equal(t, "hi there", frame.Payload.Text)
	assert.Equal(t, int64(1709296200250), frame.Payload.SentAt)
}
