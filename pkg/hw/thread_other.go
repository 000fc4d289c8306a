//go:build !linux

package hw

import "runtime"

// PinThread locks the calling goroutine to its OS thread. CPU binding and
// memory locking are only available on Linux.
func PinThread(cpu int, lockMemory bool) error {
	runtime.LockOSThread()
	return nil
}
