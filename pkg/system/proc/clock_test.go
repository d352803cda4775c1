package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClockTicks(t *testing.T) {
	// Defaults (no env override)
	t.Setenv("CLK_TCK", "")
	assert.Greater(t, ClockTicks(), 0, "ClockTicks must be > 0")

	t.Setenv("CLK_TCK", "250")
	assert.Equal(t, 250, ClockTicks())

	// garbage falls through to sysconf/default
	t.Setenv("CLK_TCK", "-7")
	assert.Greater(t, ClockTicks(), 0)
}

func TestOnlineCPUs(t *testing.T) {
	assert.Greater(t, OnlineCPUs(), 0)
}
