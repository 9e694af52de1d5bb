package kafka

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type built struct {
	Version int64  `json:"version"`
	Path    string `json:"path"`
}

func TestDecodeJSON(t *testing.T) {
	got, err := DecodeJSON[built]([]byte(`{"version":7,"path":"data/index.json"}`))
	require.NoError(t, err)
	assert.Equal(t, built{Version: 7, Path: "data/index.json"}, got)

	_, err = DecodeJSON[built]([]byte(`{not json`))
	assert.Error(t, err)
}

func TestEncodeSetsTypeHeader(t *testing.T) {
	msg, err := encode(Event{Key: "7", Type: "index.built", Value: built{Version: 7, Path: "x.json"}})
	require.NoError(t, err)
	assert.Equal(t, []byte("7"), msg.Key)
	assert.Equal(t, "index.built", EventType(msg))

	got, err := DecodeJSON[built](msg.Value)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Version)
}

func TestEncodeWithoutType(t *testing.T) {
	msg, err := encode(Event{Key: "k", Value: 1})
	require.NoError(t, err)
	assert.Empty(t, msg.Headers)
	assert.Equal(t, "", EventType(msg))
	assert.Equal(t, "", EventType(kafka.Message{}))
}

func TestEncodeRejectsUnmarshalable(t *testing.T) {
	_, err := encode(Event{Key: "k", Type: "bad", Value: make(chan int)})
	assert.Error(t, err)
}
