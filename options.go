package stego

import (
	"errors"
	"fmt"

	"github.com/yyyoichi/lsbstego/internal/lsb"
	"github.com/yyyoichi/lsbstego/internal/pixel"
)

var ErrInvalidOption = errors.New("invalid option")

type Option func(*Stego) error

// WithChannels selects how many channel bytes of each pixel carry data:
// 1 converts the carrier to grayscale, 3 uses RGB and leaves the output opaque,
// 4 uses RGBA (default).
//
// Encoder and decoder must use the same value.
func WithChannels(channels int) Option {
	return func(s *Stego) error {
		if err := pixel.ValidChannels(channels); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidOption, err)
		}
		s.channels = channels
		return nil
	}
}

// WithRuneBits sets the width of each character field of a text payload.
// The default of 8 bits only holds Latin-1 characters; 21 bits or more holds
// any Unicode character. Values outside 8..32 are rejected.
func WithRuneBits(bits int) Option {
	return func(s *Stego) error {
		if bits < lsb.MinRuneBits || bits > lsb.MaxRuneBits {
			return fmt.Errorf("%w: rune bits %d not in [%d, %d]", ErrInvalidOption, bits, lsb.MinRuneBits, lsb.MaxRuneBits)
		}
		s.runeBits = bits
		return nil
	}
}

// WithCompression compresses binary payloads with zstd before hiding them
// and decompresses them after recovery. The frame layout is unchanged; only
// its bytes are compressed.
func WithCompression() Option {
	return func(s *Stego) error {
		s.compress = true
		return nil
	}
}
