package tools

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leonardcser/spc-cache/internal/cache"
)

// Handler is the signature mcp-go expects for tool handlers.
type Handler = func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// CacheGetHandler returns the MCP tool handler for the "cache-get" tool.
// Values are exchanged as JSON text.
func CacheGetHandler(c cache.Cache) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ctx.Err() != nil {
			return mcp.NewToolResultError(ctx.Err().Error()), nil
		}
		key, err := req.RequireString("key")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		var value json.RawMessage
		ok, err := c.Get(key, &value)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !ok {
			return mcp.NewToolResultText(fmt.Sprintf("Cache miss for %q.", key)), nil
		}
		return mcp.NewToolResultText(string(value)), nil
	}
}

// CacheSetHandler returns the MCP tool handler for the "cache-set" tool.
func CacheSetHandler(c cache.Cache) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ctx.Err() != nil {
			return mcp.NewToolResultError(ctx.Err().Error()), nil
		}
		key, err := req.RequireString("key")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		raw, err := req.RequireString("value")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !json.Valid([]byte(raw)) {
			return mcp.NewToolResultError("value must be valid JSON"), nil
		}
		var ttl cache.TTL
		if s := req.GetString("ttl", ""); s != "" {
			if ttl, err = cache.ParseTTL(s); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
		}

		ok, err := c.Set(key, json.RawMessage(raw), ttl)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("failed to store %q", key)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Stored %q (ttl: %s).", key, ttl)), nil
	}
}

// CacheDeleteHandler returns the MCP tool handler for the "cache-delete" tool.
func CacheDeleteHandler(c cache.Cache) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key, err := req.RequireString("key")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		ok, err := c.Delete(key)
		if errors.Is(err, cache.ErrInvalidKey) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !ok {
			return mcp.NewToolResultText(fmt.Sprintf("Nothing deleted for %q.", key)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Deleted %q.", key)), nil
	}
}
