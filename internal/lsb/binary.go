package lsb

import (
	"fmt"

	"github.com/yyyoichi/lsbstego/internal/bitconv"
)

const binaryLengthBits = 64

// BinaryCapacity returns the largest byte payload EncodeBinary accepts for
// a carrier with the given number of bit slots.
func BinaryCapacity(slots uint64) uint64 {
	if slots < binaryLengthBits {
		return 0
	}
	return (slots - binaryLengthBits) / 8
}

// EncodeBinary writes a 64-bit byte count followed by the bytes. It fails
// with ErrCarrierTooSmall, leaving the carrier untouched, when the payload
// does not fit.
func (c *Codec) EncodeBinary(data []byte) error {
	n := uint64(len(data))
	if rem := c.cur.Remaining(); rem < binaryLengthBits || n > BinaryCapacity(rem) {
		return fmt.Errorf("%w: %d bytes need %d bits, carrier has %d",
			ErrCarrierTooSmall, n, binaryLengthBits+n*8, rem)
	}
	b := bitconv.NewBuilder()
	if err := b.WriteUint(n, binaryLengthBits); err != nil {
		return err
	}
	b.WriteBytes(data)
	return c.WriteBits(b.Bits())
}

// DecodeBinary reads bytes written by EncodeBinary.
func (c *Codec) DecodeBinary() ([]byte, error) {
	n, err := c.readUint(binaryLengthBits)
	if err != nil {
		return nil, err
	}
	if rem := c.cur.Remaining(); n > rem/8 {
		return nil, fmt.Errorf("%w: length %d exceeds %d remaining bits", ErrMalformedStream, n, rem)
	}
	bits, err := c.ReadBits(int(n) * 8)
	if err != nil {
		return nil, fmt.Errorf("%w:%w", ErrMalformedStream, err)
	}
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(bits.Uint(i*8, 8))
	}
	return data, nil
}
