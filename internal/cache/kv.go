package cache

// Cache defines the key-value cache contract with TTL semantics shared by
// every backend in this module.
//
// Get reports a miss as (false, nil); Set and Delete report storage failures
// as (false, nil). The only errors returned by the single-key operations are
// validation errors (see ErrInvalidKey).
type Cache interface {
	Get(key string, dst any) (bool, error)
	Set(key string, value any, ttl TTL) (bool, error)
	Delete(key string) (bool, error)

	Clear() error
	GetMultiple(keys []string, def any) (map[string]any, error)
	SetMultiple(values map[string]any, ttl TTL) (bool, error)
	DeleteMultiple(keys []string) (bool, error)
	Has(key string) (bool, error)
}

// GetOr fetches key from c, decoding into a T. On a miss it returns def.
func GetOr[T any](c Cache, key string, def T) (T, error) {
	var v T
	ok, err := c.Get(key, &v)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}
