//go:build linux

package util

import (
	"strconv"

	"github.com/ja7ad/cpuutil/pkg/system/proc"
	"golang.org/x/sys/unix"
)

// SystemSummary returns host name, kernel release and online CPU count for
// report headers. Unknown fields are "?".
func SystemSummary() (host, kernel, cpus string) {
	host, kernel = "?", "?"
	var u unix.Utsname
	if err := unix.Uname(&u); err == nil {
		host = unix.ByteSliceToString(u.Nodename[:])
		kernel = unix.ByteSliceToString(u.Sysname[:]) + " " + unix.ByteSliceToString(u.Release[:])
	}
	return host, kernel, strconv.Itoa(proc.OnlineCPUs())
}
