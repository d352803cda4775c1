package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCycleCounter_Value(t *testing.T) {
	t.Run("low_only", func(t *testing.T) {
		assert.Equal(t, uint64(0xFFFFFFFF), CycleCounter{Lo: 0xFFFFFFFF}.Value())
	})
	t.Run("carry_into_high", func(t *testing.T) {
		assert.Equal(t, uint64(0x1FFFFFFFF), CycleCounter{Hi: 0x1, Lo: 0xFFFFFFFF}.Value())
	})
	t.Run("max", func(t *testing.T) {
		assert.Equal(t, ^uint64(0), CycleCounter{Hi: 0xFFFFFFFF, Lo: 0xFFFFFFFF}.Value())
	})
}

func TestSplitCycles_InverseOfValue(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Uint64().Draw(t, "v")
		require.Equal(t, v, SplitCycles(v).Value())
	})
}

func TestProcessorState_String(t *testing.T) {
	assert.Equal(t, "enabled", StateEnabled.String())
	assert.Equal(t, "disabled", StateDisabled.String())
	assert.Equal(t, "unknown", ProcessorState(42).String())
}
