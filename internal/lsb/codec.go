package lsb

import (
	"errors"
	"fmt"

	"github.com/yyyoichi/lsbstego/internal/bitconv"
	"github.com/yyyoichi/lsbstego/internal/pixel"
)

var (
	ErrCapacityExhausted = errors.New("no bit slots remaining in carrier")
	ErrCarrierTooSmall   = errors.New("carrier too small for payload")
	ErrMalformedStream   = errors.New("malformed payload stream")
	ErrChannelMismatch   = errors.New("embedded image channel count differs from carrier")
)

// Codec hides and recovers bits in the channel bytes of an owned buffer.
// A Codec is single-use: decode a freshly encoded buffer with a new Codec.
type Codec struct {
	buf *pixel.Buffer
	cur *Cursor
}

// New takes ownership of buf; encoding mutates it in place.
func New(buf *pixel.Buffer) *Codec {
	return &Codec{
		buf: buf,
		cur: NewCursor(buf.Width, buf.Height, buf.Channels),
	}
}

// Buffer returns the carrier buffer.
func (c *Codec) Buffer() *pixel.Buffer {
	return c.buf
}

// Capacity returns the carrier's total number of bit slots.
func (c *Codec) Capacity() uint64 {
	return c.cur.Total()
}

// Remaining returns the number of bit slots not yet used by this codec.
func (c *Codec) Remaining() uint64 {
	return c.cur.Remaining()
}

// WriteBits stores bits in order, one slot per bit. Bits already written
// stay in the buffer when the carrier runs out.
func (c *Codec) WriteBits(bits bitconv.Bits) error {
	for i := range bits.Len() {
		slot, err := c.cur.Slot()
		if err != nil {
			return fmt.Errorf("%w: wrote %d of %d bits", err, i, bits.Len())
		}
		at := c.buf.Offset(slot.X, slot.Y, slot.Channel)
		if bits.At(i) {
			c.buf.Pix[at] |= maskOne[slot.Plane]
		} else {
			c.buf.Pix[at] &= maskZero[slot.Plane]
		}
		c.cur.Advance()
	}
	return nil
}

// ReadBits reads the next n bits in order.
func (c *Codec) ReadBits(n int) (bitconv.Bits, error) {
	b := bitconv.NewBuilder()
	for i := range n {
		slot, err := c.cur.Slot()
		if err != nil {
			return bitconv.Bits{}, fmt.Errorf("%w: read %d of %d bits", err, i, n)
		}
		v := c.buf.Pix[c.buf.Offset(slot.X, slot.Y, slot.Channel)] & maskOne[slot.Plane]
		b.WriteBit(v != 0)
		c.cur.Advance()
	}
	return b.Bits(), nil
}

func (c *Codec) readUint(width int) (uint64, error) {
	bits, err := c.ReadBits(width)
	if err != nil {
		return 0, fmt.Errorf("%w:%w", ErrMalformedStream, err)
	}
	return bitconv.FromBits(bits)
}

// expect fails with ErrMalformedStream when a header claims more bits than
// the carrier has left.
func (c *Codec) expect(bits uint64, what string) error {
	if rem := c.cur.Remaining(); bits > rem {
		return fmt.Errorf("%w: %s needs %d bits, %d remaining", ErrMalformedStream, what, bits, rem)
	}
	return nil
}
