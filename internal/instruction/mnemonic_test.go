package instruction

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestCompTable(t *testing.T) {
	seen := map[uint16]Comp{}
	count := 0

	for c := CompZero; c < compCount; c++ {
		bits, ok := c.Bits()
		assert.True(t, ok)
		assert.True(t, bits < 1<<7)

		_, duplicate := seen[bits]
		assert.False(t, duplicate)
		seen[bits] = c

		back, ok := CompFromBits(bits)
		assert.True(t, ok)
		assert.Equal(t, c, back)

		parsed, err := lookupComp(c.String())
		assert.NoError(t, err)
		assert.Equal(t, c, parsed)
		count++
	}

	assert.Equal(t, 28, count)
}

func TestCompOperandBit(t *testing.T) {
	tests := []struct {
		comp     Comp
		memoryOp bool
	}{
		{CompA, false},
		{CompM, true},
		{CompDPlusA, false},
		{CompDPlusM, true},
		{CompZero, false},
		{CompDOrM, true},
	}

	for _, tt := range tests {
		bits, ok := tt.comp.Bits()
		assert.True(t, ok)
		assert.Equal(t, tt.memoryOp, bits&0b1000000 != 0)
	}
}

func TestCompInvalid(t *testing.T) {
	_, ok := CompInvalid.Bits()
	assert.False(t, ok)
	_, ok = compCount.Bits()
	assert.False(t, ok)
	assert.Equal(t, "", CompInvalid.String())

	_, ok = CompFromBits(0b0000001)
	assert.False(t, ok)
}

func TestDestJumpBits(t *testing.T) {
	assert.Equal(t, uint16(0b000), DestNull.Bits())
	assert.Equal(t, uint16(0b001), DestM.Bits())
	assert.Equal(t, uint16(0b010), DestD.Bits())
	assert.Equal(t, uint16(0b111), DestAMD.Bits())
	assert.Equal(t, uint16(0b111), JumpJMP.Bits())
	assert.Equal(t, uint16(0b001), JumpJGT.Bits())

	for bits := uint16(0); bits < 8; bits++ {
		d, ok := DestFromBits(bits)
		assert.True(t, ok)
		assert.Equal(t, bits, d.Bits())

		j, ok := JumpFromBits(bits)
		assert.True(t, ok)
		assert.Equal(t, bits, j.Bits())
	}

	_, ok := DestFromBits(8)
	assert.False(t, ok)
	_, ok = JumpFromBits(8)
	assert.False(t, ok)
	assert.False(t, Dest(8).Valid())
	assert.False(t, Jump(9).Valid())
}
