//go:build !unix

package cache

import "os"

// writable approximates access(2) from the owner permission bits.
func writable(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fi.Mode().Perm()&0o200 != 0
}
