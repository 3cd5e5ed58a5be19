package signal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baatlink/baatlink/internal/core"
)

func TestTrySendAfterCloseReturnsError(t *testing.T) {
	conn := newWSSignalConn(newFakeSocket(), time.Second)
	conn.Close()

	// A send racing teardown must fail, never panic.
	assert.NotPanics(t, func() {
		assert.ErrorIs(t, conn.TrySend(core.Frame(`{}`)), ErrConnClosed)
	})
}

func TestTrySendReportsBackpressureWhenBufferFull(t *testing.T) {
	// No write pump draining, so the buffer fills.
	conn := newWSSignalConn(newFakeSocket(), time.Second)

	var err error
	for i := 0; i <= cap(conn.send); i++ {
		err = conn.TrySend(core.Frame(`{}`))
	}
	assert.ErrorIs(t, err, ErrBackpressure)
}

func TestCloseIsIdempotent(t *testing.T) {
	conn := newWSSignalConn(newFakeSocket(), time.Second)
	assert.NotPanics(t, func() {
		conn.Close()
		conn.Close()
	})
}

func TestWritePumpExitsOnClose(t *testing.T) {
	sock := newFakeSocket()
	conn := newWSSignalConn(sock, time.Second)
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.writePump(context.Background(), time.Hour)
	}()

	require.NoError(t, conn.TrySend(core.Frame(`{"type":"joined"}`)))
	require.Eventually(t, func() bool { return len(sock.messages()) == 1 },
		time.Second, 5*time.Millisecond)

	conn.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("write pump did not exit")
	}
}
