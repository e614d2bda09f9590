//go:build linux

package mandel

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// HardwareConcurrency returns the number of CPUs this process may run on.
// On Linux the affinity mask is honoured, so taskset or cgroup cpusets shrink it.
func HardwareConcurrency() int {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return runtime.NumCPU()
	}
	if n := set.Count(); n > 0 {
		return n
	}
	return runtime.NumCPU()
}
