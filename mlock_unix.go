//go:build linux || darwin

package main

import "golang.org/x/sys/unix"

// lockMemory keeps current and future pages resident so the render thread
// never takes a page fault.
func lockMemory() error {
	return unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE)
}
