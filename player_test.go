package main

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/gobwas/ws/wsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerSendsQueuedEvents(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()
	player := NewPlayer(server)
	go player.WritePump()
	defer player.Close()

	player.Send(UserJoinedEvent("bob", "image6.png"))

	data, err := wsutil.ReadServerText(client)
	require.NoError(t, err)
	var parsed Event
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, UserJoinedEvent("bob", "image6.png"), parsed)
}

func TestPlayerReadAction(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()
	player := NewPlayer(server)

	go wsutil.WriteClientText(client, []byte(`{"type":"StartGame","roomId":"abc123"}`))

	action, err := player.ReadAction()
	require.NoError(t, err)
	assert.Equal(t, StartGameAction{RoomID: "abc123"}, action)
}

func TestPlayerReadActionConnectionClosed(t *testing.T) {
	client, server := net.Pipe()
	player := NewPlayer(server)
	client.Close()

	_, err := player.ReadAction()
	assert.Error(t, err)
}

func TestPlayerSendNeverBlocks(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()
	player := NewPlayer(server)

	done := make(chan struct{})
	go func() {
		for i := 0; i < sendQueueSize*2; i++ {
			player.Send(StartCountdownEvent())
		}
		player.Close()
		player.Send(StartCountdownEvent())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Send blocked on a full queue")
	}
	assert.Len(t, player.send, sendQueueSize)
}

func TestPlayerIDsAreUnique(t *testing.T) {
	a := NewPlayer(nil)
	b := NewPlayer(nil)

	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}
