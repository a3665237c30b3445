package pixel

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrUnsupportedChannels = errors.New("unsupported channel count")
	ErrImageTooLarge       = errors.New("image too large")
	ErrInvalidSize         = errors.New("invalid image size")
)

// Buffer is a rectangular grid of 8-bit channel values laid out row-major,
// channel-minor: the byte for (x, y, ch) is Pix[(y*Width+x)*Channels+ch].
type Buffer struct {
	Width, Height int
	Channels      int
	Pix           []uint8
}

// New allocates a zeroed buffer.
func New(width, height, channels int) (*Buffer, error) {
	if err := ValidChannels(channels); err != nil {
		return nil, err
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	n, ok := area(width, height, channels)
	if !ok {
		return nil, fmt.Errorf("%w: %dx%dx%d", ErrImageTooLarge, width, height, channels)
	}
	return &Buffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, n),
	}, nil
}

// ValidChannels accepts gray (1), RGB (3) and RGBA (4).
func ValidChannels(channels int) error {
	switch channels {
	case 1, 3, 4:
		return nil
	}
	return fmt.Errorf("%w: %d", ErrUnsupportedChannels, channels)
}

func area(width, height, channels int) (int, bool) {
	if width == 0 || height == 0 {
		return 0, true
	}
	if width > math.MaxInt/height {
		return 0, false
	}
	px := width * height
	if px > math.MaxInt/channels {
		return 0, false
	}
	return px * channels, true
}

// Offset returns the index of the channel byte at (x, y, ch).
func (b *Buffer) Offset(x, y, ch int) int {
	return (y*b.Width+x)*b.Channels + ch
}

// Capacity returns the number of bit slots, width × height × channels × 8.
func (b *Buffer) Capacity() uint64 {
	return uint64(len(b.Pix)) * 8
}

func (b *Buffer) Copy() *Buffer {
	c := *b
	c.Pix = make([]uint8, len(b.Pix))
	copy(c.Pix, b.Pix)
	return &c
}
