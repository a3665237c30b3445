package lsb

import (
	"fmt"

	"github.com/yyyoichi/lsbstego/internal/bitconv"
	"github.com/yyyoichi/lsbstego/internal/pixel"
)

const dimensionBits = 16

// EncodeImage writes the 16-bit width and height of img followed by every
// channel byte in row-major, channel-minor order. img must use the carrier's
// channel layout.
func (c *Codec) EncodeImage(img *pixel.Buffer) error {
	if img.Channels != c.buf.Channels {
		return fmt.Errorf("%w: %d != %d", ErrChannelMismatch, img.Channels, c.buf.Channels)
	}
	b := bitconv.NewBuilder()
	if err := b.WriteUint(uint64(img.Width), dimensionBits); err != nil {
		return fmt.Errorf("embedded width: %w", err)
	}
	if err := b.WriteUint(uint64(img.Height), dimensionBits); err != nil {
		return fmt.Errorf("embedded height: %w", err)
	}
	need := 2*dimensionBits + uint64(len(img.Pix))*8
	if rem := c.cur.Remaining(); need > rem {
		return fmt.Errorf("%w: %dx%d image needs %d bits, carrier has %d",
			ErrCarrierTooSmall, img.Width, img.Height, need, rem)
	}
	b.WriteBytes(img.Pix)
	return c.WriteBits(b.Bits())
}

// DecodeImage reads an image written by EncodeImage into a new buffer with
// the carrier's channel layout.
func (c *Codec) DecodeImage() (*pixel.Buffer, error) {
	w, err := c.readUint(dimensionBits)
	if err != nil {
		return nil, err
	}
	h, err := c.readUint(dimensionBits)
	if err != nil {
		return nil, err
	}
	channels := c.buf.Channels
	if err := c.expect(w*h*uint64(channels)*8, "embedded image"); err != nil {
		return nil, err
	}
	img, err := pixel.New(int(w), int(h), channels)
	if err != nil {
		return nil, fmt.Errorf("%w:%w", ErrMalformedStream, err)
	}
	bits, err := c.ReadBits(len(img.Pix) * 8)
	if err != nil {
		return nil, fmt.Errorf("%w:%w", ErrMalformedStream, err)
	}
	for i := range img.Pix {
		img.Pix[i] = uint8(bits.Uint(i*8, 8))
	}
	return img, nil
}
