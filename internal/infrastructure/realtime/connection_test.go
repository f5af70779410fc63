package realtime

import (
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestConnectionSendDuringCloseDoesNotPanic(t *testing.T) {
	f := newWSFixture(t)
	server, _ := f.pair()
	conn := NewConnection("u1", server)
	conn.Start()

	// Fan-out goroutines keep sending while the read side disconnects;
	// sends racing the close must fail cleanly, never panic.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = conn.Send([]byte("payload"))
			}
		}()
	}
	conn.Close(websocket.CloseNormalClosure, "bye")
	wg.Wait()

	require.ErrorIs(t, conn.Send([]byte("after close")), ErrConnectionClosed)
}

func TestConnectionCloseIsIdempotent(t *testing.T) {
	f := newWSFixture(t)
	server, _ := f.pair()
	conn := NewConnection("u1", server)
	conn.Start()

	conn.Close(websocket.CloseNormalClosure, "bye")
	conn.Close(websocket.CloseNormalClosure, "again")

	require.ErrorIs(t, conn.Send([]byte("x")), ErrConnectionClosed)
}

func TestConnectionSendAfterBufferFullCloses(t *testing.T) {
	f := newWSFixture(t)
	server, _ := f.pair()
	conn := NewConnection("u1", server)
	// Write loop deliberately not started so the buffer can fill.

	var sawBufferFull bool
	for i := 0; i < 256; i++ {
		if err := conn.Send([]byte("fill")); err != nil {
			require.ErrorIs(t, err, ErrBufferFull)
			sawBufferFull = true
			break
		}
	}
	require.True(t, sawBufferFull)
	require.ErrorIs(t, conn.Send([]byte("x")), ErrConnectionClosed)
}
