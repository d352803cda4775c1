package proc

import (
	"os"
	"runtime"
	"strconv"

	"github.com/tklauser/go-sysconf"
	"github.com/tklauser/numcpus"
)

// ClockTicks returns the number of clock ticks per second.
// The CLK_TCK env var wins (useful for testing), then sysconf(_SC_CLK_TCK),
// then the common default of 100.
func ClockTicks() int {
	if v, _ := strconv.Atoi(os.Getenv("CLK_TCK")); v > 0 {
		return v
	}
	if sc, err := sysconf.Sysconf(sysconf.SC_CLK_TCK); err == nil && sc > 0 {
		return int(sc)
	}
	return 100
}

// OnlineCPUs returns the number of online logical processors, falling back
// to runtime.NumCPU when the system does not say.
func OnlineCPUs() int {
	if n, err := numcpus.GetOnline(); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}
