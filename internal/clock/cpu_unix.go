//go:build unix

package clock

import (
	"time"

	"golang.org/x/sys/unix"
)

// ProcessCPU returns user plus system time consumed by the whole process.
func ProcessCPU() time.Duration {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0
	}
	return time.Duration(ru.Utime.Nano() + ru.Stime.Nano())
}
