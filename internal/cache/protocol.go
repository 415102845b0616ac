package cache

// Simple JSON protocol for the cache daemon over a Unix domain socket.
// Requests and responses are newline-delimited JSON values; a connection may
// carry any number of request/response pairs.

const (
	OpGet    = "get"
	OpSet    = "set"
	OpDelete = "delete"
	OpHas    = "has"
	OpClear  = "clear"
)

// Error codes carried in Response.Code.
const (
	CodeInvalidKey     = "invalid_key"
	CodeNotImplemented = "not_implemented"
	CodeBadRequest     = "bad_request"
	CodeInternal       = "internal"
)

type Request struct {
	ID         string `json:"id,omitempty"`
	Op         string `json:"op"` // "get" | "set" | "delete" | "has" | "clear"
	Key        string `json:"key,omitempty"`
	Value      []byte `json:"value,omitempty"`
	TTLSeconds int64  `json:"ttl_seconds,omitempty"`
	HasTTL     bool   `json:"has_ttl,omitempty"`
}

// Response.OK is the operation's boolean result: a hit for get, success for
// set and delete.
type Response struct {
	ID    string `json:"id,omitempty"`
	OK    bool   `json:"ok"`
	Value []byte `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

func (r Request) ttl() TTL {
	if !r.HasTTL {
		return TTL{}
	}
	return Seconds(r.TTLSeconds)
}
