package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baatlink/baatlink/internal/core"
)

func TestDecodeJoinCall(t *testing.T) {
	ev, err := decodeEvent("c1", []byte(`{"type":"join-call","room":"ABC"}`))
	require.NoError(t, err)

	join, ok := ev.(core.Join)
	require.True(t, ok)
	assert.Equal(t, core.ConnID("c1"), join.ID)
	assert.Equal(t, "ABC", join.Room)
}

func TestDecodeSignal(t *testing.T) {
	ev, err := decodeEvent("c1", []byte(`{"type":"signal","to":"c2","payload":{"type":"offer","sdp":"v=0"}}`))
	require.NoError(t, err)

	relay, ok := ev.(core.Relay)
	require.True(t, ok)
	assert.Equal(t, core.ConnID("c1"), relay.ID)
	assert.Equal(t, core.ConnID("c2"), relay.Target)
	assert.JSONEq(t, `{"type":"offer","sdp":"v=0"}`, string(relay.Payload))
}

func TestDecodeChatMessageIgnoresSenderHint(t *testing.T) {
	ev, err := decodeEvent("c1", []byte(`{"type":"chat-message","text":"hi","sender":"spoofed"}`))
	require.NoError(t, err)

	chat, ok := ev.(core.Chat)
	require.True(t, ok)
	assert.Equal(t, core.ConnID("c1"), chat.ID)
	assert.Equal(t, "hi", chat.Text)
}

func TestDecodeRejectsUnknownType(t *testing.T) {
	_, err := decodeEvent("c1", []byte(`{"type":"mystery"}`))
	assert.Error(t, err)
}

func TestDecodeRejectsBadJSON(t *testing.T) {
	_, err := decodeEvent("c1", []byte(`{"type":`))
	assert.Error(t, err)
}
