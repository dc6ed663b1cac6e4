//go:build !unix

package clock

import "time"

// ProcessCPU is not available on this platform and always reports zero.
func ProcessCPU() time.Duration {
	return 0
}
