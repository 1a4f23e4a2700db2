package client

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Ack is the save endpoint's acknowledgement. Its shape belongs to the
// server, so the raw JSON is kept verbatim alongside the decoded value.
type Ack struct {
	raw   json.RawMessage
	value interface{}
}

type ackFields struct {
	Message string `mapstructure:"message"`
}

// ParseAck decodes any JSON value as an acknowledgement.
func ParseAck(data []byte) (Ack, error) {
	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return Ack{}, err
	}
	return Ack{raw: append(json.RawMessage(nil), bytes.TrimSpace(data)...), value: value}, nil
}

// Raw returns the response body as received.
func (a Ack) Raw() string {
	return string(a.raw)
}

// Value returns the decoded JSON value.
func (a Ack) Value() interface{} {
	return a.value
}

// IsZero reports whether no acknowledgement has been received.
func (a Ack) IsZero() bool {
	return a.raw == nil
}

// Message returns the optional "message" field of an object acknowledgement.
func (a Ack) Message() string {
	m, ok := a.value.(map[string]interface{})
	if !ok {
		return ""
	}
	var fields ackFields
	if err := mapstructure.WeakDecode(m, &fields); err != nil {
		return ""
	}
	return fields.Message
}

// String is what gets shown to the user: the message when there is one,
// a bare string acknowledgement unquoted, otherwise the compact JSON.
func (a Ack) String() string {
	if msg := a.Message(); msg != "" {
		return msg
	}
	if s, ok := a.value.(string); ok {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, a.raw); err != nil {
		return fmt.Sprint(a.value)
	}
	return buf.String()
}
