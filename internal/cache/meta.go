package cache

import (
	"bytes"
	"errors"
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// metadata is the document stored in the .meta file next to each entry.
type metadata struct {
	ExpirationTime int64 `json:"expiration_time"`
}

func encodeMeta(expiresAt int64) ([]byte, error) {
	return json.Marshal(metadata{ExpirationTime: expiresAt})
}

// decodeMeta extracts expiration_time from a metadata document. ok is false
// when the document is not a JSON object or has no expiration_time field.
func decodeMeta(data []byte) (expiresAt int64, ok bool) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, false
	}
	raw, found := doc["expiration_time"]
	if !found {
		return 0, false
	}
	return coerceInt(raw), true
}

// coerceInt converts a JSON scalar to an integer: numbers are truncated,
// numeric strings are parsed from their leading digits, true is 1 and
// anything else is 0.
func coerceInt(raw []byte) int64 {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0
	}
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return truncate(f)
		}
	case string:
		return leadingInt(t)
	case bool:
		if t {
			return 1
		}
	}
	return 0
}

func truncate(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

func leadingInt(s string) int64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		// Overflow saturates; a bare sign or no digits yields 0.
		if errors.Is(err, strconv.ErrRange) {
			if strings.HasPrefix(s, "-") {
				return math.MinInt64
			}
			return math.MaxInt64
		}
		return 0
	}
	return n
}
