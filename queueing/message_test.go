package queueing_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wpachlinger/relic/queueing"
)

func TestNewMessage(t *testing.T) {
	m := queueing.New("sensors/kitchen/temperature")
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "sensors/kitchen/temperature", m.Topic)
	assert.WithinDuration(t, time.Now(), m.Created, time.Second)
	assert.NotNil(t, m.Payload)

	other := queueing.New("sensors/kitchen/temperature")
	assert.NotEqual(t, m.ID, other.ID)
}

type tempReading struct {
	Celsius float64
}

func (r tempReading) ToPayload() map[string]any {
	return map[string]any{"celsius": r.Celsius}
}

func TestSetPayload(t *testing.T) {
	m := queueing.New("t")
	t.Run("map", func(t *testing.T) {
		require.NoError(t, m.SetPayload(map[string]any{"celsius": 21.5}))
		assert.Equal(t, 21.5, m.Payload["celsius"])
	})
	t.Run("converter", func(t *testing.T) {
		require.NoError(t, m.SetPayload(tempReading{Celsius: 19.0}))
		assert.Equal(t, 19.0, m.Payload["celsius"])
	})
	t.Run("unsupported type", func(t *testing.T) {
		err := m.SetPayload(42)
		require.Error(t, err)
		var qerr *queueing.Error
		require.ErrorAs(t, err, &qerr)
		assert.Equal(t, "InvalidPayloadType", qerr.Code)
	})
}

func TestJSONCodec(t *testing.T) {
	m := queueing.New("t")
	m.Created = time.Date(2026, 8, 31, 12, 0, 0, 250000000, time.UTC)
	require.NoError(t, m.SetPayload(map[string]any{"celsius": 21.5}))

	data, err := queueing.JSON.Marshal(m)
	require.NoError(t, err)

	t.Run("envelope fields", func(t *testing.T) {
		var env map[string]any
		require.NoError(t, json.Unmarshal(data, &env))
		assert.Equal(t, m.ID, env["msg_id"])
		assert.Equal(t, "2026-08-31 12:00:00.25", env["msg_dt"])
		assert.Contains(t, env, "payload")
	})
	t.Run("round trip", func(t *testing.T) {
		got := &queueing.Message{}
		require.NoError(t, queueing.JSON.Unmarshal(data, got))
		assert.Equal(t, m.ID, got.ID)
		assert.True(t, m.Created.Equal(got.Created))
		assert.Equal(t, 21.5, got.Payload["celsius"])
	})
	t.Run("garbage", func(t *testing.T) {
		err := queueing.JSON.Unmarshal([]byte("{not json"), &queueing.Message{})
		var qerr *queueing.Error
		require.ErrorAs(t, err, &qerr)
		assert.Equal(t, "InvalidMessage", qerr.Code)
	})
}

func TestMsgpackCodec(t *testing.T) {
	m := queueing.New("t")
	m.Created = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	require.NoError(t, m.SetPayload(map[string]any{"state": "open"}))

	data, err := queueing.Msgpack.Marshal(m)
	require.NoError(t, err)

	got := &queueing.Message{}
	require.NoError(t, queueing.Msgpack.Unmarshal(data, got))
	assert.Equal(t, m.ID, got.ID)
	assert.True(t, m.Created.Equal(got.Created))
	assert.Equal(t, "open", got.Payload["state"])
}

func TestCodecNames(t *testing.T) {
	assert.Equal(t, "json", queueing.JSON.Name())
	assert.Equal(t, "msgpack", queueing.Msgpack.Name())
}
