// Package cache implements a file-system-backed key/value cache with
// per-entry expiration, plus the backends and transport built around it.
//
// FileCache keeps two files per key in its base directory:
//   - <key>.spc holds the value, encoded by the configured Codec
//   - <key>.spc.meta holds {"expiration_time": <unix seconds>}
//
// Expiration is checked lazily on Get; nothing sweeps the directory unless
// Prune is called. BoltCache offers the same contract on a single Bolt file,
// and Client forwards it to a daemon started with Serve.
package cache
