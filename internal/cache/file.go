package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

const (
	dataExtension = ".spc"
	metaExtension = ".meta"
	filePerm      = 0o644
)

// FileCache stores each entry as a pair of files under a base directory:
// <key>.spc holds the encoded value and <key>.spc.meta holds
// {"expiration_time": <unix seconds>}.
//
// FileCache takes no locks. A Get racing a Set or Delete on the same key may
// observe a torn pair; callers needing read-after-write consistency across
// writers must serialize externally.
type FileCache struct {
	location   string
	codec      Codec
	defaultTTL time.Duration
	now        func() time.Time
	writable   func(path string) bool
}

// Option configures a FileCache.
type Option func(*FileCache)

// WithCodec sets the value serializer. Defaults to JSONCodec.
func WithCodec(c Codec) Option { return func(fc *FileCache) { fc.codec = c } }

// WithDefaultTTL sets the TTL used when Set receives the zero TTL.
func WithDefaultTTL(d time.Duration) Option { return func(fc *FileCache) { fc.defaultTTL = d } }

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option { return func(fc *FileCache) { fc.now = now } }

// NewFileCache returns a cache rooted at location. The directory is not
// created; Set fails until it exists and is writable.
func NewFileCache(location string, opts ...Option) *FileCache {
	fc := &FileCache{
		location:   location,
		codec:      JSONCodec{},
		defaultTTL: DefaultTTL,
		now:        time.Now,
		writable:   writable,
	}
	for _, o := range opts {
		o(fc)
	}
	return fc
}

// Paths returns the data and metadata file paths for key.
func (c *FileCache) Paths(key string) (data, meta string, err error) {
	if err := ValidateKey(key); err != nil {
		return "", "", err
	}
	data = filepath.Join(c.location, key+dataExtension)
	return data, data + metaExtension, nil
}

// Get decodes the value stored under key into dst. It returns false when the
// entry is missing, expired, or its metadata or data cannot be read.
func (c *FileCache) Get(key string, dst any) (bool, error) {
	dataPath, metaPath, err := c.Paths(key)
	if err != nil {
		return false, err
	}

	raw, err := os.ReadFile(metaPath)
	if err != nil {
		return false, nil
	}
	expiresAt, ok := decodeMeta(raw)
	if !ok || expiresAt < c.now().Unix() {
		return false, nil
	}

	data, err := os.ReadFile(dataPath)
	if err != nil {
		return false, nil
	}
	if err := c.codec.Unmarshal(data, dst); err != nil {
		return false, nil
	}
	return true, nil
}

// Set writes value under key. The metadata file is written first, then the
// data file; the pair is not atomic.
func (c *FileCache) Set(key string, value any, ttl TTL) (bool, error) {
	dataPath, metaPath, err := c.Paths(key)
	if err != nil {
		return false, err
	}

	if !c.canWrite(metaPath) || !c.canWrite(dataPath) {
		return false, nil
	}

	meta, err := encodeMeta(ttl.ExpiresAt(c.now(), c.defaultTTL))
	if err != nil {
		return false, nil
	}
	data, err := c.codec.Marshal(value)
	if err != nil {
		return false, nil
	}

	if !writeWhole(metaPath, meta) {
		return false, nil
	}
	return writeWhole(dataPath, data), nil
}

// Delete removes the entry for key. The result reflects only the removal of
// the data file; metadata removal is best effort.
func (c *FileCache) Delete(key string) (bool, error) {
	dataPath, metaPath, err := c.Paths(key)
	if err != nil {
		return false, err
	}

	if exists(metaPath) && c.writable(metaPath) {
		_ = os.Remove(metaPath)
	}
	if exists(dataPath) && c.writable(dataPath) {
		return os.Remove(dataPath) == nil, nil
	}
	return false, nil
}

func (c *FileCache) Clear() error { return notImplemented("Clear") }

func (c *FileCache) GetMultiple([]string, any) (map[string]any, error) {
	return nil, notImplemented("GetMultiple")
}

func (c *FileCache) SetMultiple(map[string]any, TTL) (bool, error) {
	return false, notImplemented("SetMultiple")
}

func (c *FileCache) DeleteMultiple([]string) (bool, error) {
	return false, notImplemented("DeleteMultiple")
}

func (c *FileCache) Has(string) (bool, error) { return false, notImplemented("Has") }

// canWrite reports whether path may be written: an existing file must be
// writable, a missing one needs a writable base directory.
func (c *FileCache) canWrite(path string) bool {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return c.writable(path)
	case !errors.Is(err, fs.ErrNotExist):
		return false
	}
	dir := c.location
	if dir == "" {
		dir = "."
	}
	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		return false
	}
	return c.writable(dir)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// writeWhole writes data in a single call and reports whether every byte
// reached the file.
func writeWhole(path string, data []byte) bool {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return false
	}
	n, err := f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err == nil && n == len(data)
}
