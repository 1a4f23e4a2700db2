package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAck(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
		shown   string
	}{
		{"message field", `{"message": "Image saved", "id": 7}`, "Image saved", "Image saved"},
		{"object without message", `{"id": 7, "path": "/imgs/a.png"}`, "", `{"id":7,"path":"/imgs/a.png"}`},
		{"bare string", `"ok"`, "", "ok"},
		{"number message is stringified", `{"message": 42}`, "42", "42"},
		{"array", `[1, 2]`, "", "[1,2]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack, err := ParseAck([]byte(tt.body))
			require.NoError(t, err)
			assert.False(t, ack.IsZero())
			assert.Equal(t, tt.message, ack.Message())
			assert.Equal(t, tt.shown, ack.String())
		})
	}

	_, err := ParseAck([]byte("not json"))
	assert.Error(t, err)
	assert.True(t, Ack{}.IsZero())
}
