package cache

import (
	"encoding/binary"
	"time"

	bolt "go.etcd.io/bbolt"
)

// BoltCache keeps entries in a single Bolt database file. It follows the same
// key rules, TTL semantics and result conventions as FileCache.
type BoltCache struct {
	db         *bolt.DB
	bucket     []byte
	codec      Codec
	defaultTTL time.Duration
	now        func() time.Time
}

type BoltOptions struct {
	// Bucket is the name of the Bolt bucket to use.
	Bucket string
	// DefaultTTL is used when Set receives the zero TTL. Defaults to DefaultTTL.
	DefaultTTL time.Duration
	// Codec serializes values. Defaults to JSONCodec.
	Codec Codec
	// Now overrides the time source.
	Now func() time.Time
}

// OpenBolt initializes or opens a BoltCache at the given path.
func OpenBolt(path string, opts BoltOptions) (*BoltCache, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	bucket := []byte("cache")
	if opts.Bucket != "" {
		bucket = []byte(opts.Bucket)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	c := &BoltCache{
		db:         db,
		bucket:     bucket,
		codec:      opts.Codec,
		defaultTTL: opts.DefaultTTL,
		now:        opts.Now,
	}
	if c.codec == nil {
		c.codec = JSONCodec{}
	}
	if c.defaultTTL <= 0 {
		c.defaultTTL = DefaultTTL
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c, nil
}

// Close closes the underlying database.
func (c *BoltCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Set stores value with an absolute expiration computed from ttl.
func (c *BoltCache) Set(key string, value any, ttl TTL) (bool, error) {
	if err := ValidateKey(key); err != nil {
		return false, err
	}
	payload, err := c.codec.Marshal(value)
	if err != nil {
		return false, nil
	}
	// Layout: 8 bytes big endian expiresAt || encoded value
	buf := make([]byte, 8+len(payload))
	binary.BigEndian.PutUint64(buf[:8], uint64(ttl.ExpiresAt(c.now(), c.defaultTTL)))
	copy(buf[8:], payload)

	err = c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(c.bucket).Put([]byte(key), buf)
	})
	return err == nil, nil
}

// Get decodes the value under key into dst if present and not expired.
func (c *BoltCache) Get(key string, dst any) (bool, error) {
	if err := ValidateKey(key); err != nil {
		return false, err
	}
	var (
		out   []byte
		found bool
	)
	if err := c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(c.bucket).Get([]byte(key))
		if len(v) < 8 {
			return nil
		}
		expiresAt := int64(binary.BigEndian.Uint64(v[:8]))
		if expiresAt < c.now().Unix() {
			return nil
		}
		out = append([]byte(nil), v[8:]...)
		found = true
		return nil
	}); err != nil || !found {
		return false, nil
	}
	if err := c.codec.Unmarshal(out, dst); err != nil {
		return false, nil
	}
	return true, nil
}

// Delete removes key. It returns false when the key was not stored.
func (c *BoltCache) Delete(key string) (bool, error) {
	if err := ValidateKey(key); err != nil {
		return false, err
	}
	var found bool
	err := c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(c.bucket)
		if b.Get([]byte(key)) == nil {
			return nil
		}
		found = true
		return b.Delete([]byte(key))
	})
	return found && err == nil, nil
}

func (c *BoltCache) Clear() error { return notImplemented("Clear") }

func (c *BoltCache) GetMultiple([]string, any) (map[string]any, error) {
	return nil, notImplemented("GetMultiple")
}

func (c *BoltCache) SetMultiple(map[string]any, TTL) (bool, error) {
	return false, notImplemented("SetMultiple")
}

func (c *BoltCache) DeleteMultiple([]string) (bool, error) {
	return false, notImplemented("DeleteMultiple")
}

func (c *BoltCache) Has(string) (bool, error) { return false, notImplemented("Has") }
