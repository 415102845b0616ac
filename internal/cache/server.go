package cache

import (
	"context"
	"errors"
	"net"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Serve accepts connections on ln and answers protocol requests against
// backend until ctx is cancelled. The backend must store raw bytes (RawCodec);
// clients own the value encoding. Serve logs through zerolog.Ctx(ctx).
func Serve(ctx context.Context, ln net.Listener, backend Cache) error {
	log := zerolog.Ctx(ctx)
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			log.Warn().Err(err).Msg("accept failed")
			continue
		}
		connLog := log.With().Str("conn", uuid.NewString()).Logger()
		go handleConn(connLog.WithContext(ctx), conn, backend)
	}
}

func handleConn(ctx context.Context, conn net.Conn, backend Cache) {
	defer conn.Close()
	log := zerolog.Ctx(ctx)
	log.Debug().Msg("connection opened")
	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)
	for {
		var req Request
		if err := dec.Decode(&req); err != nil {
			log.Debug().Err(err).Msg("connection closed")
			return
		}
		resp := dispatch(backend, req)
		resp.ID = req.ID
		log.Debug().Str("op", req.Op).Str("key", req.Key).Bool("ok", resp.OK).Str("code", resp.Code).Msg("request")
		if err := enc.Encode(&resp); err != nil {
			log.Warn().Err(err).Msg("write response")
			return
		}
	}
}

func dispatch(backend Cache, req Request) Response {
	var (
		ok    bool
		value []byte
		err   error
	)
	switch req.Op {
	case OpGet:
		ok, err = backend.Get(req.Key, &value)
	case OpSet:
		ok, err = backend.Set(req.Key, req.Value, req.ttl())
	case OpDelete:
		ok, err = backend.Delete(req.Key)
	case OpHas:
		ok, err = backend.Has(req.Key)
	case OpClear:
		err = backend.Clear()
		ok = err == nil
	default:
		return Response{Error: "unknown op", Code: CodeBadRequest}
	}
	if err != nil {
		return Response{Error: err.Error(), Code: codeFor(err)}
	}
	if !ok {
		value = nil
	}
	return Response{OK: ok, Value: value}
}

func codeFor(err error) string {
	switch {
	case errors.Is(err, ErrInvalidKey):
		return CodeInvalidKey
	case errors.Is(err, ErrNotImplemented):
		return CodeNotImplemented
	default:
		return CodeInternal
	}
}
