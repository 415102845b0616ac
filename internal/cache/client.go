package cache

import (
	"errors"
	"fmt"
	"net"
	"time"

	json "github.com/goccy/go-json"
)

// Client implements Cache over a Unix socket served by Serve. Values are
// encoded client-side with the client's codec. Transport failures, including
// a daemon that does not answer within the timeout, are reported like storage
// failures: Get misses, Set and Delete return false. The bulk operations fail
// locally without dialing.
type Client struct {
	socketPath string
	codec      Codec
	timeout    time.Duration
}

func NewClient(socketPath string, codec Codec) *Client {
	if codec == nil {
		codec = JSONCodec{}
	}
	return &Client{socketPath: socketPath, codec: codec, timeout: 500 * time.Millisecond}
}

func (c *Client) withConn(fn func(conn net.Conn) error) error {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return err
	}
	return fn(conn)
}

func (c *Client) roundTrip(req Request) (Response, error) {
	var resp Response
	err := c.withConn(func(conn net.Conn) error {
		if err := json.NewEncoder(conn).Encode(&req); err != nil {
			return err
		}
		return json.NewDecoder(conn).Decode(&resp)
	})
	if err != nil {
		return Response{}, err
	}
	return resp, nil
}

// remoteError maps a response error code back to the package sentinels.
func remoteError(resp Response) error {
	switch resp.Code {
	case "":
		return nil
	case CodeInvalidKey:
		return fmt.Errorf("%w: %s", ErrInvalidKey, resp.Error)
	case CodeNotImplemented:
		return fmt.Errorf("%w: %s", ErrNotImplemented, resp.Error)
	default:
		return errors.New(resp.Error)
	}
}

func (c *Client) Get(key string, dst any) (bool, error) {
	if err := ValidateKey(key); err != nil {
		return false, err
	}
	resp, err := c.roundTrip(Request{Op: OpGet, Key: key})
	if err != nil {
		return false, nil
	}
	if err := remoteError(resp); err != nil {
		if errors.Is(err, ErrInvalidKey) {
			return false, err
		}
		return false, nil
	}
	if !resp.OK {
		return false, nil
	}
	if err := c.codec.Unmarshal(resp.Value, dst); err != nil {
		return false, nil
	}
	return true, nil
}

func (c *Client) Set(key string, value any, ttl TTL) (bool, error) {
	if err := ValidateKey(key); err != nil {
		return false, err
	}
	data, err := c.codec.Marshal(value)
	if err != nil {
		return false, nil
	}
	req := Request{Op: OpSet, Key: key, Value: data}
	if ttl.IsSet() {
		req.HasTTL = true
		req.TTLSeconds = ttl.InSeconds()
	}
	return c.boolOp(req)
}

func (c *Client) Delete(key string) (bool, error) {
	if err := ValidateKey(key); err != nil {
		return false, err
	}
	return c.boolOp(Request{Op: OpDelete, Key: key})
}

func (c *Client) boolOp(req Request) (bool, error) {
	resp, err := c.roundTrip(req)
	if err != nil {
		return false, nil
	}
	if err := remoteError(resp); err != nil {
		if errors.Is(err, ErrInvalidKey) {
			return false, err
		}
		return false, nil
	}
	return resp.OK, nil
}

func (c *Client) Clear() error { return notImplemented("Clear") }

func (c *Client) GetMultiple([]string, any) (map[string]any, error) {
	return nil, notImplemented("GetMultiple")
}

func (c *Client) SetMultiple(map[string]any, TTL) (bool, error) {
	return false, notImplemented("SetMultiple")
}

func (c *Client) DeleteMultiple([]string) (bool, error) {
	return false, notImplemented("DeleteMultiple")
}

func (c *Client) Has(string) (bool, error) { return false, notImplemented("Has") }
