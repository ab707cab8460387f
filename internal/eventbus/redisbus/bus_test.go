package redisbus

import (
	"encoding/json"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamAndSeqKeysAreNamespacedPerRun(t *testing.T) {
	assert.Equal(t, "modcraft:run:run-1:events", streamKey("run-1"))
	assert.Equal(t, "modcraft:run:run-1:seq", seqKey("run-1"))
	assert.NotEqual(t, streamKey("run-1"), streamKey("run-2"))
}

func TestDecodeRecordRoundTrips(t *testing.T) {
	rec := streamRecord{Seq: 3, Type: "run.status", Payload: map[string]any{"status": "running"}}
	body, err := json.Marshal(rec)
	require.NoError(t, err)

	msg := redis.XMessage{ID: "1-1", Values: map[string]any{"record": string(body)}}

	decoded, err := decodeRecord(msg)
	require.NoError(t, err)
	assert.Equal(t, 3, decoded.Seq)
	assert.Equal(t, "run.status", decoded.Type)
	assert.Equal(t, "running", decoded.Payload["status"])
}

func TestDecodeRecordFailsOnMalformedEntry(t *testing.T) {
	msg := redis.XMessage{ID: "1-1", Values: map[string]any{"unexpected": "field"}}
	_, err := decodeRecord(msg)
	require.Error(t, err)
}
