package kds

import (
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/snooker-app/models"
)

func TestHub_SlowDisplayDoesNotBlockBroadcast(t *testing.T) {
	hub := NewHub()
	// a display whose writer never drains its queue
	conn := &websocket.Conn{}
	slow := &client{conn: conn, addr: "slow", send: make(chan []byte, 2)}
	hub.clients[conn] = slow

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			hub.SessionChanged(models.TableSession{TableNumber: 1, ElapsedSeconds: int64(i)})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a slow display")
	}
	assert.Zero(t, hub.Len())

	// the two queued messages are still readable, then the queue is closed
	var queued int
	for range slow.send {
		queued++
	}
	require.Equal(t, 2, queued)
}
