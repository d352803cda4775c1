package types

import "fmt"

// Cycles is a uint64 wrapper representing a processor cycle (or tick) count.
type Cycles uint64

func ToCycles(v uint64) Cycles { return Cycles(v) }

func (c Cycles) ToUint64() uint64 { return uint64(c) }

// Humanized returns a human-readable string with a decimal unit (K, M, G, T).
func (c Cycles) Humanized() string {
	v := float64(c)
	switch {
	case c >= 1e12:
		return fmt.Sprintf("%.2f T", v/1e12)
	case c >= 1e9:
		return fmt.Sprintf("%.2f G", v/1e9)
	case c >= 1e6:
		return fmt.Sprintf("%.2f M", v/1e6)
	case c >= 1e3:
		return fmt.Sprintf("%.2f K", v/1e3)
	default:
		return fmt.Sprintf("%d", uint64(c))
	}
}

// String makes Cycles print humanized in logs.
func (c Cycles) String() string { return c.Humanized() }

// Per returns c divided by seconds, i.e. a rate; 0 for non-positive seconds.
func (c Cycles) Per(seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}
	return float64(c) / seconds
}
