package lsb

// Planes is the number of bit-planes in an 8-bit channel.
const Planes = 8

var (
	// maskOne[k] sets bit k.
	maskOne = [Planes]uint8{1, 2, 4, 8, 16, 32, 64, 128}
	// maskZero[k] clears bit k.
	maskZero = [Planes]uint8{254, 253, 251, 247, 239, 223, 191, 127}
)

// Slot addresses one bit: a channel byte of a pixel and the bit-plane within it.
type Slot struct {
	X, Y    int
	Channel int
	Plane   int
}

// Cursor walks every slot of a width × height × channels grid. It covers
// channels, then x, then y, and only moves to the next bit-plane after the
// current one has been used across the whole image.
type Cursor struct {
	width, height, channels int

	x, y, channel int
	plane         int

	used, total uint64
}

func NewCursor(width, height, channels int) *Cursor {
	c := &Cursor{
		width:    width,
		height:   height,
		channels: channels,
		total:    uint64(width) * uint64(height) * uint64(channels) * Planes,
	}
	if c.total == 0 {
		c.plane = Planes
	}
	return c
}

// Slot returns the current slot, or ErrCapacityExhausted once every
// bit-plane has been consumed.
func (c *Cursor) Slot() (Slot, error) {
	if c.plane >= Planes {
		return Slot{}, ErrCapacityExhausted
	}
	return Slot{X: c.x, Y: c.y, Channel: c.channel, Plane: c.plane}, nil
}

// Advance moves to the next slot. Wrapping the last row of plane 7 leaves
// the cursor exhausted.
func (c *Cursor) Advance() {
	if c.plane >= Planes {
		return
	}
	c.used++
	if c.channel++; c.channel < c.channels {
		return
	}
	c.channel = 0
	if c.x++; c.x < c.width {
		return
	}
	c.x = 0
	if c.y++; c.y < c.height {
		return
	}
	c.y = 0
	c.plane++
}

// Used returns the number of slots consumed so far.
func (c *Cursor) Used() uint64 {
	return c.used
}

// Remaining returns the number of slots left.
func (c *Cursor) Remaining() uint64 {
	return c.total - c.used
}

// Total returns width × height × channels × 8.
func (c *Cursor) Total() uint64 {
	return c.total
}
