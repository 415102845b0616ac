package cache

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeMeta(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		want   int64
		wantOK bool
	}{
		{name: "integer", doc: `{"expiration_time": 1700000000}`, want: 1700000000, wantOK: true},
		{name: "float truncates", doc: `{"expiration_time": 12.9}`, want: 12, wantOK: true},
		{name: "numeric string", doc: `{"expiration_time": "42"}`, want: 42, wantOK: true},
		{name: "string with suffix", doc: `{"expiration_time": " 42abc"}`, want: 42, wantOK: true},
		{name: "non numeric string", doc: `{"expiration_time": "abc"}`, want: 0, wantOK: true},
		{name: "true", doc: `{"expiration_time": true}`, want: 1, wantOK: true},
		{name: "null", doc: `{"expiration_time": null}`, want: 0, wantOK: true},
		{name: "huge", doc: `{"expiration_time": 1e300}`, want: math.MaxInt64, wantOK: true},
		{name: "extra fields", doc: `{"expiration_time": 5, "x": [1]}`, want: 5, wantOK: true},
		{name: "missing field", doc: `{"expires": 5}`},
		{name: "array", doc: `[1, 2]`},
		{name: "scalar", doc: `5`},
		{name: "null document", doc: `null`},
		{name: "invalid", doc: `{"expiration_time":`},
		{name: "empty", doc: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := decodeMeta([]byte(tt.doc))
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestEncodeMeta(t *testing.T) {
	b, err := encodeMeta(1700000000)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"expiration_time":1700000000}`, string(b))
}
