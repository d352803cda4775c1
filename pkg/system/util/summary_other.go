//go:build !linux

package util

import (
	"os"
	"runtime"
	"strconv"

	"github.com/ja7ad/cpuutil/pkg/system/proc"
)

func SystemSummary() (host, kernel, cpus string) {
	host, err := os.Hostname()
	if err != nil {
		host = "?"
	}
	return host, runtime.GOOS, strconv.Itoa(proc.OnlineCPUs())
}
