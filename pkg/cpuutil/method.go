package cpuutil

// Method identifies the CPU measurement technique of a backend. Values match
// the numbering the benchmarking tool reports.
type Method int

const (
	MethodUnknown     Method = iota
	MethodIdleCounter        // hardware idle-cycle counters
	MethodPstat
	MethodTimes
	MethodLooper
	MethodGetrusage
	MethodNT
	MethodKstat
	MethodProcStat
	MethodSysctl
	MethodPerfstat
	MethodKstat10
	MethodOSX
)

func (m Method) String() string {
	switch m {
	case MethodIdleCounter:
		return "idle counter"
	case MethodPstat:
		return "pstat"
	case MethodTimes:
		return "times"
	case MethodLooper:
		return "looper"
	case MethodGetrusage:
		return "getrusage"
	case MethodNT:
		return "nt"
	case MethodKstat:
		return "kstat"
	case MethodProcStat:
		return "/proc/stat"
	case MethodSysctl:
		return "sysctl"
	case MethodPerfstat:
		return "perfstat"
	case MethodKstat10:
		return "kstat10"
	case MethodOSX:
		return "osx"
	default:
		return "unknown"
	}
}

// Code is the single-letter tag used in compact result lines.
func (m Method) Code() byte {
	switch m {
	case MethodIdleCounter:
		return 'I'
	case MethodPstat:
		return 'P'
	case MethodTimes:
		return 'T'
	case MethodLooper:
		return 'L'
	case MethodGetrusage:
		return 'R'
	case MethodNT:
		return 'N'
	case MethodKstat:
		return 'K'
	case MethodProcStat:
		return 'S'
	case MethodSysctl:
		return 'C'
	case MethodPerfstat:
		return 'E'
	case MethodKstat10:
		return 'M'
	case MethodOSX:
		return 'O'
	default:
		return 'U'
	}
}
