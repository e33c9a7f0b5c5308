//go:build !linux && !darwin

package main

import "errors"

func lockMemory() error {
	return errors.New("memory locking is not supported on this platform")
}
