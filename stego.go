package stego

import (
	"context"
	"fmt"
	"image"

	"github.com/yyyoichi/lsbstego/internal/bitconv"
	"github.com/yyyoichi/lsbstego/internal/lsb"
	"github.com/yyyoichi/lsbstego/internal/pixel"
)

var (
	// ErrCapacityExhausted reports that the carrier ran out of bit slots mid-write.
	// The partially written image is discarded.
	ErrCapacityExhausted = lsb.ErrCapacityExhausted
	// ErrCarrierTooSmall reports a failed capacity check made before any write.
	ErrCarrierTooSmall = lsb.ErrCarrierTooSmall
	// ErrOverflow reports a length, dimension or character that does not fit its bit field.
	ErrOverflow = bitconv.ErrOverflow
	// ErrMalformedStream reports a carrier whose headers do not describe a readable payload.
	ErrMalformedStream = lsb.ErrMalformedStream
	// ErrUnsupportedChannels reports a channel count other than 1, 3 or 4.
	ErrUnsupportedChannels = pixel.ErrUnsupportedChannels
)

// EncodeText hides text in carrier with the specified options.
// This is a convenience function that creates a Stego instance and calls its EncodeText method.
func EncodeText(ctx context.Context, carrier image.Image, text string, opts ...Option) (image.Image, error) {
	s, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return s.EncodeText(ctx, carrier, text)
}

// DecodeText recovers text hidden by EncodeText.
func DecodeText(ctx context.Context, carrier image.Image, opts ...Option) (string, error) {
	s, err := New(opts...)
	if err != nil {
		return "", err
	}
	return s.DecodeText(ctx, carrier)
}

// EncodeBinary hides data in carrier with the specified options.
func EncodeBinary(ctx context.Context, carrier image.Image, data []byte, opts ...Option) (image.Image, error) {
	s, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return s.EncodeBinary(ctx, carrier, data)
}

// DecodeBinary recovers data hidden by EncodeBinary.
func DecodeBinary(ctx context.Context, carrier image.Image, opts ...Option) ([]byte, error) {
	s, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return s.DecodeBinary(ctx, carrier)
}

// EncodeImage hides the pixels of hidden in carrier with the specified options.
func EncodeImage(ctx context.Context, carrier, hidden image.Image, opts ...Option) (image.Image, error) {
	s, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return s.EncodeImage(ctx, carrier, hidden)
}

// DecodeImage recovers an image hidden by EncodeImage.
func DecodeImage(ctx context.Context, carrier image.Image, opts ...Option) (image.Image, error) {
	s, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return s.DecodeImage(ctx, carrier)
}

type Stego struct {
	channels int
	runeBits int
	compress bool
}

// New initializes a steganography codec configuration.
// Channel layout, text field width and compression can be optionally specified.
// For default values, refer to the init function.
func New(opts ...Option) (*Stego, error) {
	s := new(Stego)
	if err := s.init(opts...); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Stego) init(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return err
		}
	}
	if s.channels == 0 {
		s.channels = 4
	}
	if s.runeBits == 0 {
		s.runeBits = lsb.DefaultRuneBits
	}
	return nil
}

// Capacity returns the number of bit slots carrier offers, width × height × channels × 8.
func (s *Stego) Capacity(carrier image.Image) uint64 {
	b := carrier.Bounds()
	return uint64(b.Dx()) * uint64(b.Dy()) * uint64(s.channels) * lsb.Planes
}

// MaxBinary returns the largest payload in bytes EncodeBinary accepts for carrier,
// before compression.
func (s *Stego) MaxBinary(carrier image.Image) uint64 {
	return lsb.BinaryCapacity(s.Capacity(carrier))
}

// EncodeText hides text in a copy of carrier.
//
// The text is framed as a 16-bit character count followed by one field per
// character. With the default 8-bit field only Latin-1 text is accepted; see
// WithRuneBits. Capacity is not checked in advance, so a long text fails with
// ErrCapacityExhausted.
func (s *Stego) EncodeText(ctx context.Context, carrier image.Image, text string) (image.Image, error) {
	c, err := s.open(ctx, carrier)
	if err != nil {
		return nil, err
	}
	if err := c.EncodeText(text, s.runeBits); err != nil {
		return nil, err
	}
	return c.Buffer().Image(), nil
}

// DecodeText recovers text from carrier. The field width must match the encoder's.
func (s *Stego) DecodeText(ctx context.Context, carrier image.Image) (string, error) {
	c, err := s.open(ctx, carrier)
	if err != nil {
		return "", err
	}
	return c.DecodeText(s.runeBits)
}

// EncodeBinary hides data in a copy of carrier.
//
// The data is framed as a 64-bit byte count followed by the bytes. Returns
// ErrCarrierTooSmall if the carrier cannot hold the frame.
func (s *Stego) EncodeBinary(ctx context.Context, carrier image.Image, data []byte) (image.Image, error) {
	c, err := s.open(ctx, carrier)
	if err != nil {
		return nil, err
	}
	if s.compress {
		if data, err = compress(data); err != nil {
			return nil, err
		}
	}
	if err := c.EncodeBinary(data); err != nil {
		return nil, err
	}
	return c.Buffer().Image(), nil
}

// DecodeBinary recovers data from carrier.
func (s *Stego) DecodeBinary(ctx context.Context, carrier image.Image) ([]byte, error) {
	c, err := s.open(ctx, carrier)
	if err != nil {
		return nil, err
	}
	data, err := c.DecodeBinary()
	if err != nil {
		return nil, err
	}
	if s.compress {
		return decompress(data)
	}
	return data, nil
}

// EncodeImage hides hidden in a copy of carrier.
//
// hidden is converted to the carrier's channel layout, then framed as 16-bit
// width, 16-bit height and every channel byte. Returns ErrCarrierTooSmall if
// the carrier cannot hold the frame and ErrOverflow if a side exceeds 65535.
func (s *Stego) EncodeImage(ctx context.Context, carrier, hidden image.Image) (image.Image, error) {
	c, err := s.open(ctx, carrier)
	if err != nil {
		return nil, err
	}
	h, err := pixel.FromImage(hidden, s.channels)
	if err != nil {
		return nil, fmt.Errorf("hidden image: %w", err)
	}
	if err := c.EncodeImage(h); err != nil {
		return nil, err
	}
	return c.Buffer().Image(), nil
}

// DecodeImage recovers a hidden image from carrier.
func (s *Stego) DecodeImage(ctx context.Context, carrier image.Image) (image.Image, error) {
	c, err := s.open(ctx, carrier)
	if err != nil {
		return nil, err
	}
	h, err := c.DecodeImage()
	if err != nil {
		return nil, err
	}
	return h.Image(), nil
}

// open copies carrier into a buffer owned by a fresh codec.
func (s *Stego) open(ctx context.Context, carrier image.Image) (*lsb.Codec, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf, err := pixel.FromImage(carrier, s.channels)
	if err != nil {
		return nil, fmt.Errorf("carrier: %w", err)
	}
	return lsb.New(buf), nil
}
