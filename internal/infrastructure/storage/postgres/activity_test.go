package postgres

import (
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	oldState := map[string]any{"name": "old", "status": "active", "gone": 1}
	newState := map[string]any{"name": "new", "status": "active", "added": true}

	changes := Diff(oldState, newState)

	assert.Equal(t, map[string]any{"old": "old", "new": "new"}, changes["name"])
	assert.Equal(t, map[string]any{"old": 1, "new": nil}, changes["gone"])
	assert.Equal(t, map[string]any{"old": nil, "new": true}, changes["added"])
	assert.NotContains(t, changes, "status")
}

func TestZstdRoundTrip(t *testing.T) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	require.NoError(t, err)
	decoder, err := zstd.NewReader(nil)
	require.NoError(t, err)

	payload := make([]byte, 64*1024)
	for i := range payload {
		payload[i] = byte(i % 7)
	}

	compressed := encoder.EncodeAll(payload, nil)
	assert.Less(t, len(compressed), len(payload))

	restored, err := decoder.DecodeAll(compressed, nil)
	require.NoError(t, err)
	assert.Equal(t, payload, restored)
}
