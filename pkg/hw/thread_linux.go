package hw

import (
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// PinThread locks the calling goroutine to its OS thread and, when cpu is
// not negative, binds that thread to cpu. With lockMemory all current and
// future pages of the process are locked to avoid page faults while
// holding symbols.
func PinThread(cpu int, lockMemory bool) error {
	runtime.LockOSThread()
	if cpu >= 0 {
		var set unix.CPUSet
		set.Zero()
		set.Set(cpu)
		if err := unix.SchedSetaffinity(0, &set); err != nil {
			return errors.Wrapf(err, "bind to cpu %d", cpu)
		}
	}
	if lockMemory {
		if err := unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE); err != nil {
			return errors.Wrap(err, "mlockall")
		}
	}
	return nil
}
