package queueing

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/wpachlinger/relic"
)

// Message is the unit exchanged over the broker: a unique id, a creation
// timestamp, the topic it travels on, and a dictionary payload.
type Message struct {
	ID      string
	Created time.Time
	Topic   string
	Payload map[string]any
}

// New creates an empty message addressed to the given topic, with a fresh
// uuid and the current time.
func New(topic string) *Message {
	return &Message{
		ID:      uuid.NewString(),
		Created: time.Now(),
		Topic:   topic,
		Payload: make(map[string]any),
	}
}

// PayloadConverter is implemented by values that can render themselves as
// a message payload dictionary.
type PayloadConverter interface {
	ToPayload() map[string]any
}

// SetPayload assigns the message payload from a dictionary or a
// PayloadConverter.
func (m *Message) SetPayload(v any) error {
	switch v := v.(type) {
	case map[string]any:
		m.Payload = v
	case PayloadConverter:
		m.Payload = v.ToPayload()
	default:
		return &Error{Code: "InvalidPayloadType", Detail: fmt.Sprintf("payload must be a map or PayloadConverter, got %T", v)}
	}
	return nil
}

// Codec serializes messages for the wire. The topic is carried by the
// transport, not the envelope.
type Codec interface {
	// Name identifies the codec ("json", "msgpack").
	Name() string
	Marshal(m *Message) ([]byte, error)
	Unmarshal(data []byte, m *Message) error
}

// envelope is the wire form shared by both codecs. The timestamp is
// rendered in the same fixed-point format the repository uses for
// timestamp columns.
type envelope struct {
	ID      string         `json:"msg_id" msgpack:"msg_id"`
	Created string         `json:"msg_dt" msgpack:"msg_dt"`
	Payload map[string]any `json:"payload" msgpack:"payload"`
}

func (m *Message) envelope() envelope {
	return envelope{
		ID:      m.ID,
		Created: m.Created.Format(relic.TimeLayout),
		Payload: m.Payload,
	}
}

func (m *Message) fromEnvelope(env envelope) error {
	created, err := relic.Convert(env.Created, relic.TypeTime)
	if err != nil {
		return &Error{Code: "InvalidMessage", Detail: fmt.Sprintf("bad timestamp %q", env.Created)}
	}
	m.ID = env.ID
	m.Created = created.(time.Time)
	m.Payload = env.Payload
	return nil
}

// JSON is the default wire codec.
var JSON Codec = jsonCodec{}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(m *Message) ([]byte, error) {
	return json.Marshal(m.envelope())
}

func (jsonCodec) Unmarshal(data []byte, m *Message) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return &Error{Code: "InvalidMessage", Detail: err.Error()}
	}
	return m.fromEnvelope(env)
}

// Msgpack is a compact binary wire codec.
var Msgpack Codec = msgpackCodec{}

type msgpackCodec struct{}

func (msgpackCodec) Name() string { return "msgpack" }

func (msgpackCodec) Marshal(m *Message) ([]byte, error) {
	return msgpack.Marshal(m.envelope())
}

func (msgpackCodec) Unmarshal(data []byte, m *Message) error {
	var env envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return &Error{Code: "InvalidMessage", Detail: err.Error()}
	}
	return m.fromEnvelope(env)
}
