//go:build unix

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// redirectStderr points fd 2 at path so panics and runtime errors land in the
// file even when the console is in graphics mode. Stdout is left alone since
// it may carry PNG output.
func redirectStderr(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	return unix.Dup2(int(f.Fd()), int(os.Stderr.Fd()))
}
