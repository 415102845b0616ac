//go:build unix

package cache

import "golang.org/x/sys/unix"

// writable asks the kernel whether the calling process may write path.
func writable(path string) bool {
	return unix.Access(path, unix.W_OK) == nil
}
