// Command spccache reads and writes entries of an spc-cache directory, either
// directly or through a running cache daemon.
package main

import (
	"os"

	"github.com/leonardcser/spc-cache/internal/logger"
)

func main() {
	err := NewRootCmd().Execute()
	_ = logger.Close()
	if err != nil {
		os.Exit(1)
	}
}
