package bitconv

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yyyoichi/bitstream-go"
)

var (
	ErrOverflow   = errors.New("value does not fit in bit field")
	ErrInvalidBit = errors.New("invalid bit character")
)

// MaxWidth is the widest field ToBits and FromBits accept.
const MaxWidth = 64

// Bits is an immutable MSB-first bit string packed into uint64 words.
type Bits struct {
	reader *bitstream.BitReader[uint64]
	n      int
}

// Len returns the number of bits.
func (b Bits) Len() int {
	return b.n
}

// At reports whether the bit at position at is set.
func (b Bits) At(at int) bool {
	if at < 0 || at >= b.n {
		return false
	}
	v, _ := b.reader.ReadBitAt(at)
	return v
}

// Uint reads width bits starting at position at as an MSB-first integer.
// Positions past the end read as zero.
func (b Bits) Uint(at, width int) uint64 {
	var v uint64
	for i := range width {
		v <<= 1
		if b.At(at + i) {
			v |= 1
		}
	}
	return v
}

// String renders the bits as '0'/'1' characters.
func (b Bits) String() string {
	var sb strings.Builder
	sb.Grow(b.n)
	for i := range b.n {
		if b.At(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Builder accumulates bits in order.
type Builder struct {
	writer *bitstream.BitWriter[uint64]
}

func NewBuilder() *Builder {
	return &Builder{writer: bitstream.NewBitWriter[uint64](0, 0)}
}

func (b *Builder) WriteBit(v bool) {
	b.writer.WriteBool(v)
}

// WriteUint appends v as a width-bit field, most significant bit first.
// Nothing is written when v does not fit.
func (b *Builder) WriteUint(v uint64, width int) error {
	if width < 0 || width > MaxWidth {
		return fmt.Errorf("%w: width %d", ErrOverflow, width)
	}
	if width < MaxWidth && v>>uint(width) != 0 {
		return fmt.Errorf("%w: %d needs more than %d bits", ErrOverflow, v, width)
	}
	for i := width - 1; i >= 0; i-- {
		b.writer.WriteBool((v>>uint(i))&1 == 1)
	}
	return nil
}

// WriteBytes appends each byte as an 8-bit field, most significant bit first.
func (b *Builder) WriteBytes(p []byte) {
	for _, v := range p {
		for i := 7; i >= 0; i-- {
			b.writer.WriteBool(v>>uint(i)&1 == 1)
		}
	}
}

// Bits returns a snapshot of the bits written so far.
func (b *Builder) Bits() Bits {
	n := b.writer.Bits()
	if n == 0 {
		return Bits{}
	}
	reader := bitstream.NewBitReader(b.writer.Data(), 0, 0)
	reader.SetBits(n)
	return Bits{reader: reader, n: n}
}

// ToBits renders v as a fixed-width MSB-first bit string, zero padded on the left.
func ToBits(v uint64, width int) (Bits, error) {
	b := NewBuilder()
	if err := b.WriteUint(v, width); err != nil {
		return Bits{}, err
	}
	return b.Bits(), nil
}

// FromBits parses an MSB-first bit string back to an unsigned integer.
func FromBits(bits Bits) (uint64, error) {
	if bits.Len() > MaxWidth {
		return 0, fmt.Errorf("%w: %d bits", ErrOverflow, bits.Len())
	}
	var v uint64
	for i := range bits.Len() {
		v <<= 1
		if bits.At(i) {
			v |= 1
		}
	}
	return v, nil
}

// ParseBits converts a string of '0' and '1' characters to Bits.
func ParseBits(s string) (Bits, error) {
	b := NewBuilder()
	for i, c := range s {
		switch c {
		case '0':
			b.WriteBit(false)
		case '1':
			b.WriteBit(true)
		default:
			return Bits{}, fmt.Errorf("%w: %q at %d", ErrInvalidBit, c, i)
		}
	}
	return b.Bits(), nil
}
