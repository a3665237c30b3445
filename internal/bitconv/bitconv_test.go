package bitconv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToBits(t *testing.T) {
	test := []struct {
		v     uint64
		width int
		exp   string
	}{
		{v: 0, width: 0, exp: ""},
		{v: 0, width: 1, exp: "0"},
		{v: 1, width: 1, exp: "1"},
		{v: 13, width: 16, exp: "0000000000001101"},
		{v: 'H', width: 8, exp: "01001000"},
		{v: 255, width: 8, exp: "11111111"},
		{v: 65535, width: 16, exp: "1111111111111111"},
		{v: math.MaxUint64, width: 64, exp: "1111111111111111111111111111111111111111111111111111111111111111"},
		{v: 0, width: 64, exp: "0000000000000000000000000000000000000000000000000000000000000000"},
	}
	for _, tt := range test {
		t.Run(tt.exp, func(t *testing.T) {
			bits, err := ToBits(tt.v, tt.width)
			require.NoError(t, err)
			assert.Equal(t, tt.width, bits.Len())
			assert.Equal(t, tt.exp, bits.String())

			v, err := FromBits(bits)
			require.NoError(t, err)
			assert.Equal(t, tt.v, v)
		})
	}
}

func TestToBitsOverflow(t *testing.T) {
	test := []struct {
		name  string
		v     uint64
		width int
	}{
		{"256 in 8", 256, 8},
		{"65536 in 16", 65536, 16},
		{"1 in 0", 1, 0},
		{"negative width", 0, -1},
		{"too wide", 0, 65},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToBits(tt.v, tt.width)
			assert.ErrorIs(t, err, ErrOverflow)
		})
	}
}

func TestFromBitsInverse(t *testing.T) {
	for _, width := range []int{1, 3, 8, 16, 21, 32} {
		max := uint64(1) << uint(width)
		step := max/97 + 1
		for v := uint64(0); v < max; v += step {
			bits, err := ToBits(v, width)
			require.NoError(t, err)
			got, err := FromBits(bits)
			require.NoError(t, err)
			require.Equal(t, v, got, "width=%d", width)
		}
	}
}

func TestFromBitsTooLong(t *testing.T) {
	b := NewBuilder()
	for range 65 {
		b.WriteBit(true)
	}
	_, err := FromBits(b.Bits())
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestParseBits(t *testing.T) {
	bits, err := ParseBits("1011")
	require.NoError(t, err)
	assert.Equal(t, 4, bits.Len())
	assert.True(t, bits.At(0))
	assert.False(t, bits.At(1))
	assert.True(t, bits.At(3))
	assert.False(t, bits.At(4), "out of range reads as zero")

	_, err = ParseBits("10x1")
	assert.ErrorIs(t, err, ErrInvalidBit)

	empty, err := ParseBits("")
	require.NoError(t, err)
	assert.Zero(t, empty.Len())
	assert.Equal(t, "", empty.String())
}

func TestBitsUint(t *testing.T) {
	bits, err := ParseBits("0100100001101001")
	require.NoError(t, err)
	assert.Equal(t, uint64('H'), bits.Uint(0, 8))
	assert.Equal(t, uint64('i'), bits.Uint(8, 8))
	assert.Equal(t, uint64(0b1001), bits.Uint(12, 4))
	assert.Equal(t, uint64(0b1000), bits.Uint(15, 4), "past the end reads zero")
}

func TestBuilder(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.WriteUint(2, 2))
	b.WriteBit(true)
	head := b.Bits()

	require.NoError(t, b.WriteUint(0b0110, 4))
	assert.Equal(t, "1010110", b.Bits().String())
	assert.Equal(t, "101", head.String(), "snapshot keeps its length")

	assert.ErrorIs(t, b.WriteUint(4, 2), ErrOverflow)
	assert.Equal(t, 7, b.Bits().Len(), "failed write appends nothing")

	b.WriteBytes([]byte{0x81, 0x3c})
	assert.Equal(t, "1010110"+"10000001"+"00111100", b.Bits().String())
}
