package main

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
)

// argValue converts a command-line value into what the codec expects.
func argValue(codec, s string) (any, error) {
	switch codec {
	case "", "json":
		if !json.Valid([]byte(s)) {
			return nil, errors.New("value must be valid JSON for the json codec")
		}
		return json.RawMessage(s), nil
	case "raw":
		return []byte(s), nil
	case "gob":
		return s, nil
	default:
		return nil, fmt.Errorf("codec %q cannot be used from the command line", codec)
	}
}

// newDst returns a decode destination for the codec and a function that
// renders it once filled.
func newDst(codec string) (any, func() string, error) {
	switch codec {
	case "", "json":
		var v json.RawMessage
		return &v, func() string { return string(v) }, nil
	case "raw":
		var v []byte
		return &v, func() string { return string(v) }, nil
	case "gob":
		var v string
		return &v, func() string { return v }, nil
	default:
		return nil, nil, fmt.Errorf("codec %q cannot be used from the command line", codec)
	}
}
